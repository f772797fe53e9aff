package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/restaurant/internal/events"
	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

const (
	msgOrderNotFound     = "Order not found."
	msgMenuItemNotFound  = "Menu item not found."
	msgOrderItemNotFound = "Order item not found in this order."
)

type OrderService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
}

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, msgOrderNotFound)
	}
	return o, nil
}

func (s *OrderService) List(ctx context.Context, f repo.OrderFilter, p repo.Page) (int64, []models.Order, error) {
	if f.Status != "" && !models.OrderStatus(f.Status).Valid() {
		return 0, nil, newErr(ErrValidation, "Invalid or missing status.")
	}
	return s.Repo.ListOrders(ctx, f, p)
}

func (s *OrderService) Create(ctx context.Context, req transport.CreateOrderRequest) (*models.Order, error) {
	o := models.Order{
		TableID:      req.Table,
		CustomerName: req.CustomerName,
		Notes:        req.Notes,
		OrderTime:    time.Now().UTC(),
		Status:       models.StatusPending,
	}

	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if o.TableID != nil {
			if _, err := tx.GetTable(ctx, *o.TableID); err != nil {
				return notFoundOr(err, msgTableNotFound)
			}
		}
		return tx.CreateOrder(ctx, &o)
	})
	if err != nil {
		return nil, txErr(err)
	}

	logging.FromContext(ctx).Info("order_created", "order_id", o.ID)
	return s.Repo.GetOrder(ctx, o.ID)
}

// Update edits the descriptive fields only. Status and total have their own
// operations.
func (s *OrderService) Update(ctx context.Context, id uint, req transport.PatchOrderRequest) (*models.Order, error) {
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.LockOrder(ctx, id); err != nil {
			return notFoundOr(err, msgOrderNotFound)
		}

		fields := map[string]any{}
		if req.Table != nil {
			if _, err := tx.GetTable(ctx, *req.Table); err != nil {
				return notFoundOr(err, msgTableNotFound)
			}
			fields["table_id"] = *req.Table
		}
		if req.CustomerName != nil {
			fields["customer_name"] = *req.CustomerName
		}
		if req.Notes != nil {
			fields["notes"] = *req.Notes
		}
		return tx.UpdateOrder(ctx, id, fields)
	})
	if err != nil {
		return nil, txErr(err)
	}
	return s.Repo.GetOrder(ctx, id)
}

// Delete removes the order and its lines. Stock taken by the lines is not
// given back.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.LockOrder(ctx, id); err != nil {
			return notFoundOr(err, msgOrderNotFound)
		}
		return notFoundOr(tx.DeleteOrder(ctx, id), msgOrderNotFound)
	})
	return txErr(err)
}

// AddItem puts quantity units of a menu item on the order. An existing line
// for the same menu item is incremented and keeps its captured price.
func (s *OrderService) AddItem(ctx context.Context, orderID uint, req transport.AddItemRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.add_item", "order_id", orderID)

	var (
		line  models.OrderItem
		qty   int
		total models.Money
	)
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.LockOrder(ctx, orderID); err != nil {
			return notFoundOr(err, msgOrderNotFound)
		}

		menuItemID, ok := parseRefID(req.MenuItemID)
		if !ok {
			return newErr(ErrNotFound, msgMenuItemNotFound)
		}
		item, err := tx.LockMenuItem(ctx, menuItemID)
		if err != nil {
			return notFoundOr(err, msgMenuItemNotFound)
		}

		qty, err = parseQuantity(req.Quantity)
		if err != nil {
			return err
		}
		if item.Stock < qty {
			return newErr(ErrConflict, "Not enough %s in stock. Available: %d", item.Name, item.Stock)
		}

		existing, err := tx.LockOrderLine(ctx, orderID, item.ID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			line = models.OrderItem{
				OrderID:      orderID,
				MenuItemID:   item.ID,
				Quantity:     qty,
				PriceAtOrder: item.Price,
			}
			if err := tx.CreateOrderItem(ctx, &line); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.IncrementOrderItem(ctx, existing.ID, qty); err != nil {
				return err
			}
			line = *existing
			line.Quantity += qty
		}

		ok, err := tx.AdjustStock(ctx, item.ID, -qty)
		if err != nil {
			return err
		}
		if !ok {
			current, err := tx.GetMenuItem(ctx, item.ID)
			if err != nil {
				return err
			}
			return newErr(ErrConflict, "Not enough %s in stock. Available: %d", current.Name, current.Stock)
		}

		total, err = recalculateTotal(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, txErr(err)
	}

	l.Info("order_item_added", "menu_item_id", line.MenuItemID, "quantity", qty, "total", total.String())
	publish(ctx, s.Events, events.New(events.OrderItemAdded, "order", orderID, map[string]any{
		"order_item_id": line.ID,
		"menu_item_id":  line.MenuItemID,
		"quantity":      qty,
		"total_amount":  total.String(),
	}))
	return s.Repo.GetOrder(ctx, orderID)
}

// RemoveItem deletes a whole line from the order and returns its quantity
// to stock.
func (s *OrderService) RemoveItem(ctx context.Context, orderID uint, req transport.RemoveItemRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.remove_item", "order_id", orderID)

	var (
		line  *models.OrderItem
		total models.Money
	)
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.LockOrder(ctx, orderID); err != nil {
			return notFoundOr(err, msgOrderNotFound)
		}
		lineID, ok := parseRefID(req.OrderItemID)
		if !ok {
			return newErr(ErrNotFound, msgOrderItemNotFound)
		}

		var err error
		line, err = tx.LockOrderItemInOrder(ctx, orderID, lineID)
		if err != nil {
			return notFoundOr(err, msgOrderItemNotFound)
		}

		if _, err := tx.AdjustStock(ctx, line.MenuItemID, line.Quantity); err != nil {
			return err
		}
		if err := tx.DeleteOrderItem(ctx, line.ID); err != nil {
			return err
		}

		total, err = recalculateTotal(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, txErr(err)
	}

	l.Info("order_item_removed", "order_item_id", line.ID, "quantity", line.Quantity, "total", total.String())
	publish(ctx, s.Events, events.New(events.OrderItemRemoved, "order", orderID, map[string]any{
		"order_item_id": line.ID,
		"menu_item_id":  line.MenuItemID,
		"quantity":      line.Quantity,
		"total_amount":  total.String(),
	}))
	return s.Repo.GetOrder(ctx, orderID)
}

// UpdateStatus sets any of the known statuses; transitions are not restricted.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	var prev models.OrderStatus
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		o, err := tx.LockOrder(ctx, orderID)
		if err != nil {
			return notFoundOr(err, msgOrderNotFound)
		}
		next := models.OrderStatus(status)
		if !next.Valid() {
			return newErr(ErrValidation, "Invalid or missing status.")
		}
		prev = o.Status
		return tx.UpdateOrder(ctx, orderID, map[string]any{"status": next})
	})
	if err != nil {
		return nil, txErr(err)
	}

	logging.FromContext(ctx).Info("order_status_changed", "order_id", orderID, "from", prev, "to", status)
	publish(ctx, s.Events, events.New(events.OrderStatusChanged, "order", orderID, map[string]any{
		"from": string(prev),
		"to":   status,
	}))
	return s.Repo.GetOrder(ctx, orderID)
}

func (s *OrderService) GetItem(ctx context.Context, id uint) (*models.OrderItem, error) {
	it, err := s.Repo.GetOrderItem(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Order item not found.")
	}
	return it, nil
}

func (s *OrderService) ListItems(ctx context.Context, orderID *uint, p repo.Page) (int64, []models.OrderItem, error) {
	return s.Repo.ListAllOrderItems(ctx, orderID, p)
}
