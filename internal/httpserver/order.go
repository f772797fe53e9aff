package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/internal/util"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func optionalID(s string) (*uint, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil, err
	}
	id := uint(n)
	return &id, nil
}

func ordersPage(page, offset, limit int, total int64, orders []models.Order) transport.PageResponse[transport.OrderResponse] {
	data := make([]transport.OrderResponse, 0, len(orders))
	for _, o := range orders {
		data = append(data, transport.NewOrderResponse(o))
	}
	return transport.PageResponse[transport.OrderResponse]{
		Data: data,
		Meta: util.Meta(page, offset, limit, total),
	}
}

func (h *OrderHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	tableID, err := optionalID(c.QueryParam("table"))
	if err != nil {
		return badRequest(l, "list_orders_error", "table must be an integer id", err)
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	offset, limit := util.Calculate(page, util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize))

	f := repo.OrderFilter{Status: c.QueryParam("status"), TableID: tableID}
	total, orders, err := h.Svc.List(ctx, f, repo.Page{Offset: offset, Limit: limit})
	if err != nil {
		return fail(l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, ordersPage(page, offset, limit, total, orders))
}

func (h *OrderHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	id, err := parseID(c)
	if err != nil {
		return notFoundID(l, "get_order_error", err)
	}
	o, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewOrderResponse(*o))
}

func (h *OrderHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_order_error", "invalid body", err)
	}
	o, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_order_error", err)
	}
	return c.JSON(http.StatusCreated, transport.NewOrderResponse(*o))
}

func (h *OrderHTTP) Patch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.patch")

	id, err := parseID(c)
	if err != nil {
		return notFoundID(l, "patch_order_error", err)
	}
	var req transport.PatchOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_order_error", "invalid body", err)
	}
	o, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return fail(l, "patch_order_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewOrderResponse(*o))
}

func (h *OrderHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete")

	id, err := parseID(c)
	if err != nil {
		return notFoundID(l, "delete_order_error", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_order_error", err)
	}

	l.Info("delete_order_success", "order_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *OrderHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.add_item")

	id, err := parseID(c)
	if err != nil {
		return notFoundID(l, "add_item_error", err)
	}
	var req transport.AddItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "add_item_error", "invalid body", err)
	}
	o, err := h.Svc.AddItem(ctx, id, req)
	if err != nil {
		return fail(l, "add_item_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewOrderResponse(*o))
}

func (h *OrderHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.remove_item")

	id, err := parseID(c)
	if err != nil {
		return notFoundID(l, "remove_item_error", err)
	}
	var req transport.RemoveItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "remove_item_error", "invalid body", err)
	}
	o, err := h.Svc.RemoveItem(ctx, id, req)
	if err != nil {
		return fail(l, "remove_item_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewOrderResponse(*o))
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := parseID(c)
	if err != nil {
		return notFoundID(l, "update_status_error", err)
	}
	var req transport.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_status_error", "Invalid or missing status.", err)
	}
	o, err := h.Svc.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return fail(l, "update_status_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewOrderResponse(*o))
}

func (h *OrderHTTP) ListItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_item.list")

	orderID, err := optionalID(c.QueryParam("order"))
	if err != nil {
		return badRequest(l, "list_order_items_error", "order must be an integer id", err)
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	offset, limit := util.Calculate(page, util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize))

	total, items, err := h.Svc.ListItems(ctx, orderID, repo.Page{Offset: offset, Limit: limit})
	if err != nil {
		return fail(l, "list_order_items_error", err)
	}

	data := make([]transport.OrderItemResponse, 0, len(items))
	for _, it := range items {
		data = append(data, transport.NewOrderItemResponse(it))
	}
	return c.JSON(http.StatusOK, transport.PageResponse[transport.OrderItemResponse]{
		Data: data,
		Meta: util.Meta(page, offset, limit, total),
	})
}

func (h *OrderHTTP) GetItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_item.get")

	id, err := parseID(c)
	if err != nil {
		return notFoundID(l, "get_order_item_error", err)
	}
	it, err := h.Svc.GetItem(ctx, id)
	if err != nil {
		return fail(l, "get_order_item_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewOrderItemResponse(*it))
}
