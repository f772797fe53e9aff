package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/restaurant/internal/events"
	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

const msgReservationNotFound = "Reservation not found."

type ReservationService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
}

func (s *ReservationService) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	r, err := s.Repo.GetReservation(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, msgReservationNotFound)
	}
	return r, nil
}

func (s *ReservationService) List(ctx context.Context, f repo.ReservationFilter, p repo.Page) (int64, []models.Reservation, error) {
	return s.Repo.ListReservations(ctx, f, p)
}

func validateReservation(req transport.CreateReservationRequest) error {
	if req.Table == nil {
		return newErr(ErrValidation, "table is required")
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return newErr(ErrValidation, "customer_name is required")
	}
	if req.ReservationTime == nil || req.ReservationTime.IsZero() {
		return newErr(ErrValidation, "reservation_time is required")
	}
	if req.NumberOfGuests <= 0 {
		return newErr(ErrValidation, "number_of_guests must be a positive integer")
	}
	return nil
}

// Reserve books an available table and takes it out of service in the same
// transaction.
func (s *ReservationService) Reserve(ctx context.Context, req transport.CreateReservationRequest) (*models.Reservation, error) {
	l := logging.FromContext(ctx).With("svc", "reservation.reserve")

	if err := validateReservation(req); err != nil {
		return nil, err
	}

	res := models.Reservation{
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   req.CustomerPhone,
		TableID:         req.Table,
		ReservationTime: req.ReservationTime.UTC(),
		NumberOfGuests:  req.NumberOfGuests,
		Notes:           req.Notes,
		IsConfirmed:     req.IsConfirmed,
	}

	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		return holdTable(ctx, tx, *req.Table, func() error {
			return tx.CreateReservation(ctx, &res)
		})
	})
	if err != nil {
		return nil, txErr(err)
	}

	l.Info("reservation_created", "reservation_id", res.ID, "table_id", *res.TableID)
	publish(ctx, s.Events, events.New(events.ReservationCreated, "reservation", res.ID, map[string]any{
		"table_id":         *res.TableID,
		"reservation_time": res.ReservationTime,
		"number_of_guests": res.NumberOfGuests,
	}))
	return s.Repo.GetReservation(ctx, res.ID)
}

// holdTable locks an available table, runs write and marks the table
// unavailable. A table that is already held is a conflict.
func holdTable(ctx context.Context, tx *repo.GormRepo, tableID uint, write func() error) error {
	table, err := tx.LockTable(ctx, tableID)
	if err != nil {
		return notFoundOr(err, msgTableNotFound)
	}
	if !table.IsAvailable {
		return newErr(ErrConflict, "Table %d is not available.", table.TableNumber)
	}
	if err := write(); err != nil {
		return err
	}
	ok, err := tx.SetTableAvailability(ctx, tableID, false)
	if err != nil {
		return err
	}
	if !ok {
		return newErr(ErrConflict, "Table %d is not available.", table.TableNumber)
	}
	return nil
}

const lockAttempts = 3

// lockReservation locks the tables involved before the reservation row so
// that it takes locks in the same order as Reserve and table deletion.
// Tables are locked in ascending id order. A missing extra table is left for
// the caller to report.
func lockReservation(ctx context.Context, tx *repo.GormRepo, id uint, extra ...uint) (*models.Reservation, error) {
	for range lockAttempts {
		current, err := tx.GetReservation(ctx, id)
		if err != nil {
			return nil, notFoundOr(err, msgReservationNotFound)
		}

		ids := slices.Clone(extra)
		if current.TableID != nil {
			ids = append(ids, *current.TableID)
		}
		slices.Sort(ids)
		for _, tid := range slices.Compact(ids) {
			if _, err := tx.LockTable(ctx, tid); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		}

		res, err := tx.LockReservation(ctx, id)
		if err != nil {
			return nil, notFoundOr(err, msgReservationNotFound)
		}
		if sameTable(res.TableID, current.TableID) {
			return res, nil
		}
	}
	return nil, errors.New("reservation table kept changing while locking")
}

func sameTable(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Cancel deletes the reservation and frees its table, if it still has one.
func (s *ReservationService) Cancel(ctx context.Context, id uint) error {
	var tableID *uint
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		res, err := lockReservation(ctx, tx, id)
		if err != nil {
			return err
		}
		tableID = res.TableID
		if err := tx.DeleteReservation(ctx, id); err != nil {
			return notFoundOr(err, msgReservationNotFound)
		}
		if tableID == nil {
			return nil
		}
		return tx.ForceTableAvailability(ctx, *tableID, true)
	})
	if err != nil {
		return txErr(err)
	}

	data := map[string]any{}
	if tableID != nil {
		data["table_id"] = *tableID
	}
	logging.FromContext(ctx).Info("reservation_cancelled", "reservation_id", id)
	publish(ctx, s.Events, events.New(events.ReservationCancelled, "reservation", id, data))
	return nil
}

// Update edits a reservation. Pointing it at another table moves the hold:
// the new table must be available and the old one is released.
func (s *ReservationService) Update(ctx context.Context, id uint, req transport.PatchReservationRequest) (*models.Reservation, error) {
	fields := map[string]any{}
	if req.CustomerName != nil {
		name := strings.TrimSpace(*req.CustomerName)
		if name == "" {
			return nil, newErr(ErrValidation, "customer_name is required")
		}
		fields["customer_name"] = name
	}
	if req.CustomerPhone != nil {
		fields["customer_phone"] = *req.CustomerPhone
	}
	if req.ReservationTime != nil {
		if req.ReservationTime.IsZero() {
			return nil, newErr(ErrValidation, "reservation_time is required")
		}
		fields["reservation_time"] = req.ReservationTime.UTC()
	}
	if req.NumberOfGuests != nil {
		if *req.NumberOfGuests <= 0 {
			return nil, newErr(ErrValidation, "number_of_guests must be a positive integer")
		}
		fields["number_of_guests"] = *req.NumberOfGuests
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.IsConfirmed != nil {
		fields["is_confirmed"] = *req.IsConfirmed
	}

	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		var extra []uint
		if req.Table != nil {
			extra = append(extra, *req.Table)
		}
		res, err := lockReservation(ctx, tx, id, extra...)
		if err != nil {
			return err
		}

		if req.Table != nil && (res.TableID == nil || *res.TableID != *req.Table) {
			fields["table_id"] = *req.Table
			err := holdTable(ctx, tx, *req.Table, func() error {
				return tx.UpdateReservation(ctx, id, fields)
			})
			if err != nil {
				return err
			}
			if res.TableID != nil {
				return tx.ForceTableAvailability(ctx, *res.TableID, true)
			}
			return nil
		}
		return tx.UpdateReservation(ctx, id, fields)
	})
	if err != nil {
		return nil, txErr(err)
	}
	return s.Repo.GetReservation(ctx, id)
}
