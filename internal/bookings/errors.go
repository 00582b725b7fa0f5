package bookings

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// InvalidTransitionError reports a status change that is not in the
// transition table. The booking is left untouched when this is returned.
type InvalidTransitionError struct {
	BookingID uuid.UUID
	From      Status
	To        Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("booking %s: transition %s -> %s is not allowed", e.BookingID, e.From, e.To)
}

// NotFoundError reports a booking id with no record behind it
type NotFoundError struct {
	BookingID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("booking %s not found", e.BookingID)
}

// SchedulingError reports that a seat was held but the deferred expiry
// task could not be enqueued. The hold itself is already committed; the
// database sweep remains the guaranteed expiry path.
type SchedulingError struct {
	BookingID uuid.UUID
	Err       error
}

func (e *SchedulingError) Error() string {
	return fmt.Sprintf("booking %s: failed to schedule hold expiry: %v", e.BookingID, e.Err)
}

func (e *SchedulingError) Unwrap() error {
	return e.Err
}

// ErrPaymentDeclined is returned by ConfirmPayment when the caller reports
// a failed payment outcome. No transition is applied.
var ErrPaymentDeclined = errors.New("payment declined")

// IsNotFound reports whether err is a missing-booking error
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInvalidTransition reports whether err is a rejected transition
func IsInvalidTransition(err error) bool {
	var it *InvalidTransitionError
	return errors.As(err, &it)
}
