package bookings

// Status represents the lifecycle stage of a booking. It is the single
// source of truth for where a booking sits in the seat-hold/payment flow.
type Status string

const (
	StatusInitiated      Status = "INITIATED"
	StatusSeatHeld       Status = "SEAT_HELD"
	StatusPaymentPending Status = "PAYMENT_PENDING"
	StatusConfirmed      Status = "CONFIRMED"
	StatusCancelled      Status = "CANCELLED"
	StatusExpired        Status = "EXPIRED"
	StatusRefunded       Status = "REFUNDED"
)

// allowedTransitions is the full transition table. It is read-only after
// package init, so concurrent lookups need no synchronization. Statuses
// with no entry (CANCELLED, EXPIRED, REFUNDED) are terminal.
var allowedTransitions = map[Status][]Status{
	StatusInitiated:      {StatusSeatHeld, StatusCancelled},
	StatusSeatHeld:       {StatusPaymentPending, StatusExpired},
	StatusPaymentPending: {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusCancelled, StatusRefunded},
}

// IsValid checks if the booking status is one of the known variants
func (s Status) IsValid() bool {
	switch s {
	case StatusInitiated, StatusSeatHeld, StatusPaymentPending,
		StatusConfirmed, StatusCancelled, StatusExpired, StatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo reports whether the edge s -> target is in the
// transition table
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing edges
func (s Status) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0 && s.IsValid()
}
