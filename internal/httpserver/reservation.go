package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/internal/util"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

type ReservationHTTP struct {
	Svc *service.ReservationService
}

func (h *ReservationHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reservation.list")

	confirmed, err := optionalBool(c.QueryParam("is_confirmed"))
	if err != nil {
		return badRequest(l, "list_reservations_error", "is_confirmed must be a boolean", err)
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	offset, limit := util.Calculate(page, util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize))

	total, items, err := h.Svc.List(ctx, repo.ReservationFilter{IsConfirmed: confirmed}, repo.Page{Offset: offset, Limit: limit})
	if err != nil {
		return fail(l, "list_reservations_error", err)
	}

	data := make([]transport.ReservationResponse, 0, len(items))
	for _, r := range items {
		data = append(data, transport.NewReservationResponse(r))
	}
	return c.JSON(http.StatusOK, transport.PageResponse[transport.ReservationResponse]{
		Data: data,
		Meta: util.Meta(page, offset, limit, total),
	})
}

func (h *ReservationHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reservation.get")

	id, err := parseID(c)
	if err != nil {
		return notFoundID(l, "get_reservation_error", err)
	}
	r, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_reservation_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewReservationResponse(*r))
}

func (h *ReservationHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reservation.create")

	var req transport.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_reservation_error", "invalid body", err)
	}
	r, err := h.Svc.Reserve(ctx, req)
	if err != nil {
		return fail(l, "create_reservation_error", err)
	}

	l.Info("create_reservation_success", "reservation_id", r.ID)
	return c.JSON(http.StatusCreated, transport.NewReservationResponse(*r))
}

func (h *ReservationHTTP) Patch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reservation.patch")

	id, err := parseID(c)
	if err != nil {
		return notFoundID(l, "patch_reservation_error", err)
	}
	var req transport.PatchReservationRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_reservation_error", "invalid body", err)
	}
	r, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return fail(l, "patch_reservation_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewReservationResponse(*r))
}

func (h *ReservationHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reservation.delete")

	id, err := parseID(c)
	if err != nil {
		return notFoundID(l, "delete_reservation_error", err)
	}
	if err := h.Svc.Cancel(ctx, id); err != nil {
		return fail(l, "delete_reservation_error", err)
	}

	l.Info("delete_reservation_success", "reservation_id", id)
	return c.NoContent(http.StatusNoContent)
}
