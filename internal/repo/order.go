package repo

import (
	"context"

	"github.com/Skotchmaster/restaurant/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderFilter struct {
	Status  string
	TableID *uint
}

func preloadOrder(q *gorm.DB) *gorm.DB {
	return q.Preload("Table").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Preload("Items.MenuItem")
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := preloadOrder(r.db(ctx)).First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) LockOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := forUpdate(r.db(ctx)).First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, f OrderFilter, p Page) (int64, []models.Order, error) {
	base := func() *gorm.DB {
		q := r.db(ctx).Model(&models.Order{})
		if f.Status != "" {
			q = q.Where("status = ?", f.Status)
		}
		if f.TableID != nil {
			q = q.Where("table_id = ?", *f.TableID)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return 0, nil, err
	}

	orders := make([]models.Order, 0, p.Limit)
	if err := preloadOrder(base()).
		Order("order_time DESC").
		Order("id DESC").
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

func (r *GormRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	return r.db(ctx).Omit(clause.Associations).Create(o).Error
}

func (r *GormRepo) UpdateOrder(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteOrder removes the order together with its line items.
// Must run inside a transaction.
func (r *GormRepo) DeleteOrder(ctx context.Context, id uint) error {
	db := r.db(ctx)
	if err := db.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	res := db.Delete(&models.Order{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) SetOrderTotal(ctx context.Context, id uint, total models.Money) error {
	return r.db(ctx).Model(&models.Order{}).Where("id = ?", id).Update("total_amount", total).Error
}

func (r *GormRepo) GetOrderItem(ctx context.Context, id uint) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.db(ctx).Preload("MenuItem").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) ListAllOrderItems(ctx context.Context, orderID *uint, p Page) (int64, []models.OrderItem, error) {
	base := func() *gorm.DB {
		q := r.db(ctx).Model(&models.OrderItem{})
		if orderID != nil {
			q = q.Where("order_id = ?", *orderID)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.OrderItem, 0, p.Limit)
	if err := base().Preload("MenuItem").Order("id ASC").Offset(p.Offset).Limit(p.Limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) ListOrderItems(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.db(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) LockOrderLine(ctx context.Context, orderID, menuItemID uint) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := forUpdate(r.db(ctx)).
		Where("order_id = ? AND menu_item_id = ?", orderID, menuItemID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// LockOrderItemInOrder resolves an order item only if it belongs to orderID.
func (r *GormRepo) LockOrderItemInOrder(ctx context.Context, orderID, itemID uint) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := forUpdate(r.db(ctx)).
		Where("id = ? AND order_id = ?", itemID, orderID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {
	return r.db(ctx).Omit(clause.Associations).Create(item).Error
}

func (r *GormRepo) IncrementOrderItem(ctx context.Context, id uint, by int) error {
	return r.db(ctx).Model(&models.OrderItem{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", by)).Error
}

func (r *GormRepo) DeleteOrderItem(ctx context.Context, id uint) error {
	res := r.db(ctx).Delete(&models.OrderItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
