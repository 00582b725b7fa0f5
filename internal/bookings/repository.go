package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSkipUpdate can be returned from an UpdateWithLock mutator to commit
// nothing while still reporting success. Used by the expiry path when the
// booking advanced past SEAT_HELD before the lock was acquired.
var ErrSkipUpdate = errors.New("skip update")

type Repository interface {
	// Create persists a new booking in INITIATED state
	Create(ctx context.Context, booking *Booking) error

	// GetByID fetches a booking without locking it
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// UpdateWithLock runs mutate against the row for id while holding an
	// exclusive row lock (SELECT ... FOR UPDATE) inside a transaction. The
	// lock spans the full read-mutate-save and is released on every exit
	// path. A mutate error aborts the transaction and is returned as-is,
	// except ErrSkipUpdate which commits nothing and returns the booking as
	// read under the lock.
	UpdateWithLock(ctx context.Context, id uuid.UUID, mutate func(*Booking) error) (*Booking, error)

	// FindExpiredHolds returns ids of bookings still in SEAT_HELD that
	// were held at or before cutoff (cutoff = now - hold TTL)
	FindExpiredHolds(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	if booking.Status == "" {
		booking.Status = StatusInitiated
	}
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{BookingID: id}
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *repository) UpdateWithLock(ctx context.Context, id uuid.UUID, mutate func(*Booking) error) (*Booking, error) {
	var booking Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the booking row; concurrent callers on the same id block
		// here until this transaction commits or rolls back.
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{BookingID: id}
			}
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if err := mutate(&booking); err != nil {
			return err
		}

		booking.UpdatedAt = time.Now().UTC()
		if err := tx.Save(&booking).Error; err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		return nil
	})

	if errors.Is(err, ErrSkipUpdate) {
		return &booking, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) FindExpiredHolds(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("status = ?", StatusSeatHeld).
		Where("held_at <= ?", cutoff).
		Order("held_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query expired holds: %w", err)
	}
	return ids, nil
}
