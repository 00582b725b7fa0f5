package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking defines the seat booking entity. Status must never be assigned
// directly; TransitionTo is the only mutation path so the transition table
// cannot be bypassed.
type Booking struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SeatID    string     `gorm:"type:varchar(10);not null;index" json:"seat_id"`
	Status    Status     `gorm:"type:varchar(20);not null;default:'INITIATED';check:status IN ('INITIATED', 'SEAT_HELD', 'PAYMENT_PENDING', 'CONFIRMED', 'CANCELLED', 'EXPIRED', 'REFUNDED')" json:"status"`
	HeldAt    *time.Time `gorm:"index" json:"held_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// TransitionTo applies a validated status change. It fails with
// *InvalidTransitionError when the edge is not in the transition table,
// leaving the booking unmodified. Entering SEAT_HELD stamps HeldAt; the
// stamp is never cleared by later transitions (audit trail).
func (b *Booking) TransitionTo(target Status) error {
	if !b.Status.CanTransitionTo(target) {
		return &InvalidTransitionError{
			BookingID: b.ID,
			From:      b.Status,
			To:        target,
		}
	}

	b.Status = target
	if target == StatusSeatHeld {
		now := time.Now().UTC()
		b.HeldAt = &now
	}
	return nil
}

// IsTerminal reports whether the booking's active lifecycle has ended
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

// HoldDeadline returns the instant the current hold expires, or false when
// the booking has never been held.
func (b *Booking) HoldDeadline(ttl time.Duration) (time.Time, bool) {
	if b.HeldAt == nil {
		return time.Time{}, false
	}
	return b.HeldAt.Add(ttl), true
}
