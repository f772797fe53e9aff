package repo

import (
	"context"

	"github.com/Skotchmaster/restaurant/internal/models"
	"gorm.io/gorm"
)

type TableFilter struct {
	IsAvailable *bool
	Capacity    *int
}

func (f TableFilter) apply(q *gorm.DB) *gorm.DB {
	if f.IsAvailable != nil {
		q = q.Where("is_available = ?", *f.IsAvailable)
	}
	if f.Capacity != nil {
		q = q.Where("capacity = ?", *f.Capacity)
	}
	return q
}

func (r *GormRepo) GetTable(ctx context.Context, id uint) (*models.Table, error) {
	var t models.Table
	if err := r.db(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormRepo) LockTable(ctx context.Context, id uint) (*models.Table, error) {
	var t models.Table
	if err := forUpdate(r.db(ctx)).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormRepo) ListTables(ctx context.Context, f TableFilter, p Page) (int64, []models.Table, error) {
	var total int64
	if err := f.apply(r.db(ctx).Model(&models.Table{})).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	tables := make([]models.Table, 0, p.Limit)
	if err := f.apply(r.db(ctx).Model(&models.Table{})).
		Order("table_number ASC").
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&tables).Error; err != nil {
		return 0, nil, err
	}
	return total, tables, nil
}

func (r *GormRepo) CreateTable(ctx context.Context, t *models.Table) error {
	return r.db(ctx).Create(t).Error
}

func (r *GormRepo) UpdateTable(ctx context.Context, id uint, fields map[string]any) (*models.Table, error) {
	if len(fields) > 0 {
		res := r.db(ctx).Model(&models.Table{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
	}
	return r.GetTable(ctx, id)
}

// SetTableAvailability flips the flag only if it currently holds the
// opposite value and reports whether a row changed.
func (r *GormRepo) SetTableAvailability(ctx context.Context, id uint, available bool) (bool, error) {
	res := r.db(ctx).Model(&models.Table{}).
		Where("id = ? AND is_available = ?", id, !available).
		Update("is_available", available)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) ForceTableAvailability(ctx context.Context, id uint, available bool) error {
	res := r.db(ctx).Model(&models.Table{}).Where("id = ?", id).Update("is_available", available)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteTable detaches reservations and orders before removing the table.
// Must run inside a transaction.
func (r *GormRepo) DeleteTable(ctx context.Context, id uint) error {
	db := r.db(ctx)
	if err := db.Model(&models.Reservation{}).Where("table_id = ?", id).Update("table_id", nil).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Order{}).Where("table_id = ?", id).Update("table_id", nil).Error; err != nil {
		return err
	}
	res := db.Delete(&models.Table{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TableNumberTaken reports whether another table already uses number.
func (r *GormRepo) TableNumberTaken(ctx context.Context, number int, exceptID uint) (bool, error) {
	var n int64
	err := r.db(ctx).Model(&models.Table{}).
		Where("table_number = ? AND id <> ?", number, exceptID).
		Count(&n).Error
	return n > 0, err
}
