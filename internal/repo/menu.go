package repo

import (
	"context"
	"strings"

	"github.com/Skotchmaster/restaurant/internal/models"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

type MenuFilter struct {
	Category    string
	IsAvailable *bool
	Search      string
}

func (f MenuFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.IsAvailable != nil {
		q = q.Where("is_available = ?", *f.IsAvailable)
	}
	if f.Search != "" {
		like := "%" + likeEscaper.Replace(f.Search) + "%"
		q = q.Where("(LOWER(name) LIKE LOWER(?) ESCAPE '!' OR LOWER(description) LIKE LOWER(?) ESCAPE '!')", like, like)
	}
	return q
}

func (r *GormRepo) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) GetMenuItemsByIDs(ctx context.Context, ids []uint) ([]models.MenuItem, error) {
	items := make([]models.MenuItem, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.db(ctx).Where("id IN ?", ids).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) LockMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := forUpdate(r.db(ctx)).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) ListMenuItems(ctx context.Context, f MenuFilter, p Page) (int64, []models.MenuItem, error) {
	var total int64
	if err := f.apply(r.db(ctx).Model(&models.MenuItem{})).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.MenuItem, 0, p.Limit)
	if err := f.apply(r.db(ctx).Model(&models.MenuItem{})).
		Order("name ASC").
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return r.db(ctx).Create(item).Error
}

func (r *GormRepo) UpdateMenuItem(ctx context.Context, id uint, fields map[string]any) (*models.MenuItem, error) {
	if len(fields) > 0 {
		res := r.db(ctx).Model(&models.MenuItem{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
	}
	return r.GetMenuItem(ctx, id)
}

// AdjustStock adds delta to the stock of a menu item. The update is refused
// (zero rows, reported as false) when it would take stock below zero.
func (r *GormRepo) AdjustStock(ctx context.Context, id uint, delta int) (bool, error) {
	res := r.db(ctx).Model(&models.MenuItem{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) SetStock(ctx context.Context, id uint, stock int) error {
	res := r.db(ctx).Model(&models.MenuItem{}).Where("id = ?", id).Update("stock", stock)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) CountOrderItemsForMenuItem(ctx context.Context, menuItemID uint) (int64, error) {
	var n int64
	err := r.db(ctx).Model(&models.OrderItem{}).Where("menu_item_id = ?", menuItemID).Count(&n).Error
	return n, err
}

func (r *GormRepo) DeleteMenuItem(ctx context.Context, id uint) error {
	res := r.db(ctx).Delete(&models.MenuItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) MenuItemNameTaken(ctx context.Context, name string, exceptID uint) (bool, error) {
	var n int64
	err := r.db(ctx).Model(&models.MenuItem{}).
		Where("name = ? AND id <> ?", name, exceptID).
		Count(&n).Error
	return n > 0, err
}
