package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TransitionOutcome marks whether a transition attempt was applied
type TransitionOutcome string

const (
	OutcomeApplied  TransitionOutcome = "APPLIED"
	OutcomeRejected TransitionOutcome = "REJECTED"
)

// TransitionEvent is the structured record of a booking status transition
// attempt, published for the observability/audit consumers. Emitted on both
// success and failure.
type TransitionEvent struct {
	EventID    uuid.UUID         `json:"event_id"`
	BookingID  uuid.UUID         `json:"booking_id"`
	SeatID     string            `json:"seat_id,omitempty"`
	FromStatus string            `json:"from_status"`
	ToStatus   string            `json:"to_status"`
	Outcome    TransitionOutcome `json:"outcome"`
	Reason     string            `json:"reason,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NewTransitionEvent builds an event with a fresh id and timestamp
func NewTransitionEvent(bookingID uuid.UUID, seatID, from, to string, outcome TransitionOutcome, reason string) TransitionEvent {
	return TransitionEvent{
		EventID:    uuid.New(),
		BookingID:  bookingID,
		SeatID:     seatID,
		FromStatus: from,
		ToStatus:   to,
		Outcome:    outcome,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
}

// ToJSON serializes the event for the wire
func (e TransitionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// GetPartitionKey routes all events for one booking to the same partition
// so consumers observe transitions for a booking in order
func (e TransitionEvent) GetPartitionKey() string {
	return e.BookingID.String()
}
