package service

import (
	"context"
	"encoding/json"

	"github.com/Skotchmaster/restaurant/internal/events"
	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

const msgTableNotFound = "Table not found."

type TableService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
}

func (s *TableService) Get(ctx context.Context, id uint) (*models.Table, error) {
	t, err := s.Repo.GetTable(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, msgTableNotFound)
	}
	return t, nil
}

func (s *TableService) List(ctx context.Context, f repo.TableFilter, p repo.Page) (int64, []models.Table, error) {
	return s.Repo.ListTables(ctx, f, p)
}

func validateTable(number, capacity int) error {
	if number <= 0 {
		return newErr(ErrValidation, "table_number must be a positive integer")
	}
	if capacity <= 0 {
		return newErr(ErrValidation, "capacity must be a positive integer")
	}
	return nil
}

func (s *TableService) Create(ctx context.Context, req transport.CreateTableRequest) (*models.Table, error) {
	if err := validateTable(req.TableNumber, req.Capacity); err != nil {
		return nil, err
	}
	t := models.Table{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		t.IsAvailable = *req.IsAvailable
	}

	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		taken, err := tx.TableNumberTaken(ctx, t.TableNumber, 0)
		if err != nil {
			return err
		}
		if taken {
			return newErr(ErrConflict, "Table with number %d already exists.", t.TableNumber)
		}
		return tx.CreateTable(ctx, &t)
	})
	if err != nil {
		return nil, txErr(err)
	}
	return &t, nil
}

func (s *TableService) Update(ctx context.Context, id uint, req transport.PatchTableRequest) (*models.Table, error) {
	var updated *models.Table
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		cur, err := tx.LockTable(ctx, id)
		if err != nil {
			return notFoundOr(err, msgTableNotFound)
		}

		number, capacity := cur.TableNumber, cur.Capacity
		if req.TableNumber != nil {
			number = *req.TableNumber
		}
		if req.Capacity != nil {
			capacity = *req.Capacity
		}
		if err := validateTable(number, capacity); err != nil {
			return err
		}

		fields := map[string]any{}
		if number != cur.TableNumber {
			taken, err := tx.TableNumberTaken(ctx, number, id)
			if err != nil {
				return err
			}
			if taken {
				return newErr(ErrConflict, "Table with number %d already exists.", number)
			}
			fields["table_number"] = number
		}
		if capacity != cur.Capacity {
			fields["capacity"] = capacity
		}
		if req.IsAvailable != nil {
			fields["is_available"] = *req.IsAvailable
		}

		updated, err = tx.UpdateTable(ctx, id, fields)
		return err
	})
	if err != nil {
		return nil, txErr(err)
	}
	return updated, nil
}

// Delete detaches reservations and orders from the table before removing it.
func (s *TableService) Delete(ctx context.Context, id uint) error {
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.LockTable(ctx, id); err != nil {
			return notFoundOr(err, msgTableNotFound)
		}
		return notFoundOr(tx.DeleteTable(ctx, id), msgTableNotFound)
	})
	return txErr(err)
}

// SetAvailability overrides the availability flag regardless of
// reservations.
func (s *TableService) SetAvailability(ctx context.Context, id uint, raw json.RawMessage) (*models.Table, error) {
	if _, err := s.Repo.GetTable(ctx, id); err != nil {
		return nil, notFoundOr(err, msgTableNotFound)
	}
	available, err := parseAvailability(raw)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.ForceTableAvailability(ctx, id, available); err != nil {
		return nil, txErr(notFoundOr(err, msgTableNotFound))
	}
	t, err := s.Repo.GetTable(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, msgTableNotFound)
	}

	logging.FromContext(ctx).Info("table_availability_set", "table_id", id, "is_available", available)
	publish(ctx, s.Events, events.New(events.TableAvailabilitySet, "table", id, map[string]any{
		"is_available": available,
	}))
	return t, nil
}
