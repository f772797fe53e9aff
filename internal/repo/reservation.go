package repo

import (
	"context"

	"github.com/Skotchmaster/restaurant/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservationFilter struct {
	IsConfirmed *bool
}

func (r *GormRepo) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := r.db(ctx).Preload("Table").First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *GormRepo) LockReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := forUpdate(r.db(ctx)).First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *GormRepo) ListReservations(ctx context.Context, f ReservationFilter, p Page) (int64, []models.Reservation, error) {
	base := func() *gorm.DB {
		q := r.db(ctx).Model(&models.Reservation{})
		if f.IsConfirmed != nil {
			q = q.Where("is_confirmed = ?", *f.IsConfirmed)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Reservation, 0, p.Limit)
	if err := base().
		Preload("Table").
		Order("reservation_time ASC").
		Order("id ASC").
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateReservation(ctx context.Context, res *models.Reservation) error {
	return r.db(ctx).Omit(clause.Associations).Create(res).Error
}

func (r *GormRepo) UpdateReservation(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db(ctx).Model(&models.Reservation{}).Where("id = ?", id).Updates(fields).Error
}

func (r *GormRepo) DeleteReservation(ctx context.Context, id uint) error {
	res := r.db(ctx).Delete(&models.Reservation{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) CountReservationsForTable(ctx context.Context, tableID uint) (int64, error) {
	var n int64
	err := r.db(ctx).Model(&models.Reservation{}).Where("table_id = ?", tableID).Count(&n).Error
	return n, err
}
