package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/internal/util"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

type TableHTTP struct {
	Svc *service.TableService
}

func (h *TableHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "table.list")

	available, err := optionalBool(c.QueryParam("is_available"))
	if err != nil {
		return badRequest(l, "list_tables_error", "is_available must be a boolean", err)
	}
	capacity, err := optionalInt(c.QueryParam("capacity"))
	if err != nil {
		return badRequest(l, "list_tables_error", "capacity must be an integer", err)
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	offset, limit := util.Calculate(page, util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize))

	total, tables, err := h.Svc.List(ctx, repo.TableFilter{IsAvailable: available, Capacity: capacity}, repo.Page{Offset: offset, Limit: limit})
	if err != nil {
		return fail(l, "list_tables_error", err)
	}
	return c.JSON(http.StatusOK, transport.PageResponse[models.Table]{
		Data: tables,
		Meta: util.Meta(page, offset, limit, total),
	})
}

func (h *TableHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "table.get")

	id, err := parseID(c)
	if err != nil {
		return notFoundID(l, "get_table_error", err)
	}
	t, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_table_error", err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TableHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "table.create")

	var req transport.CreateTableRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_table_error", "invalid body", err)
	}
	t, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_table_error", err)
	}

	l.Info("create_table_success", "table_id", t.ID)
	return c.JSON(http.StatusCreated, t)
}

func (h *TableHTTP) Patch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "table.patch")

	id, err := parseID(c)
	if err != nil {
		return notFoundID(l, "patch_table_error", err)
	}
	var req transport.PatchTableRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_table_error", "invalid body", err)
	}
	t, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return fail(l, "patch_table_error", err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TableHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "table.delete")

	id, err := parseID(c)
	if err != nil {
		return notFoundID(l, "delete_table_error", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_table_error", err)
	}

	l.Info("delete_table_success", "table_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *TableHTTP) SetAvailability(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "table.set_availability")

	id, err := parseID(c)
	if err != nil {
		return notFoundID(l, "set_availability_error", err)
	}
	var req transport.SetAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "set_availability_error", "invalid body", err)
	}
	t, err := h.Svc.SetAvailability(ctx, id, req.IsAvailable)
	if err != nil {
		return fail(l, "set_availability_error", err)
	}
	return c.JSON(http.StatusOK, t)
}
