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

type MenuHTTP struct {
	Svc *service.MenuService
}

func (h *MenuHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.list")

	available, err := optionalBool(c.QueryParam("is_available"))
	if err != nil {
		return badRequest(l, "list_menu_items_error", "is_available must be a boolean", err)
	}
	f := repo.MenuFilter{
		Category:    c.QueryParam("category"),
		IsAvailable: available,
		Search:      c.QueryParam("search"),
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	offset, limit := util.Calculate(page, util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize))

	total, items, err := h.Svc.List(ctx, f, repo.Page{Offset: offset, Limit: limit})
	if err != nil {
		return fail(l, "list_menu_items_error", err)
	}
	return c.JSON(http.StatusOK, transport.PageResponse[models.MenuItem]{
		Data: items,
		Meta: util.Meta(page, offset, limit, total),
	})
}

func (h *MenuHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	offset, limit := util.Calculate(page, util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize))

	total, items, err := h.Svc.Search(ctx, c.QueryParam("q"), repo.Page{Offset: offset, Limit: limit})
	if err != nil {
		return fail(l, "search_menu_items_error", err)
	}
	return c.JSON(http.StatusOK, transport.PageResponse[models.MenuItem]{
		Data: items,
		Meta: util.Meta(page, offset, limit, total),
	})
}

func (h *MenuHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.get")

	id, err := parseID(c)
	if err != nil {
		return notFoundID(l, "get_menu_item_error", err)
	}
	item, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_menu_item_error", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *MenuHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.create")

	var req transport.CreateMenuItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_menu_item_error", "invalid body", err)
	}
	item, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_menu_item_error", err)
	}

	l.Info("create_menu_item_success", "menu_item_id", item.ID)
	return c.JSON(http.StatusCreated, item)
}

func (h *MenuHTTP) Patch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.patch")

	id, err := parseID(c)
	if err != nil {
		return notFoundID(l, "patch_menu_item_error", err)
	}
	var req transport.PatchMenuItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_menu_item_error", "invalid body", err)
	}
	item, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return fail(l, "patch_menu_item_error", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *MenuHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.delete")

	id, err := parseID(c)
	if err != nil {
		return notFoundID(l, "delete_menu_item_error", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_menu_item_error", err)
	}

	l.Info("delete_menu_item_success", "menu_item_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *MenuHTTP) UpdateStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.update_stock")

	id, err := parseID(c)
	if err != nil {
		return notFoundID(l, "update_stock_error", err)
	}
	var req transport.UpdateStockRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_stock_error", "invalid body", err)
	}
	item, err := h.Svc.SetStock(ctx, id, req.Stock)
	if err != nil {
		return fail(l, "update_stock_error", err)
	}
	return c.JSON(http.StatusOK, item)
}
