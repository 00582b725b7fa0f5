package bookings

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []Status{
	StatusInitiated,
	StatusSeatHeld,
	StatusPaymentPending,
	StatusConfirmed,
	StatusCancelled,
	StatusExpired,
	StatusRefunded,
}

// The only legal edges. Every other (from, to) pair must be rejected.
var legalEdges = map[Status][]Status{
	StatusInitiated:      {StatusSeatHeld, StatusCancelled},
	StatusSeatHeld:       {StatusPaymentPending, StatusExpired},
	StatusPaymentPending: {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusCancelled, StatusRefunded},
}

func isLegalEdge(from, to Status) bool {
	for _, t := range legalEdges[from] {
		if t == to {
			return true
		}
	}
	return false
}

func TestStatus_CanTransitionTo_FullTable(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			got := from.CanTransitionTo(to)
			want := isLegalEdge(from, to)
			assert.Equalf(t, want, got, "edge %s -> %s", from, to)
		}
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusExpired.IsTerminal())
	assert.True(t, StatusRefunded.IsTerminal())

	assert.False(t, StatusInitiated.IsTerminal())
	assert.False(t, StatusSeatHeld.IsTerminal())
	assert.False(t, StatusPaymentPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())

	// Unknown statuses are invalid, not terminal
	assert.False(t, Status("UNKNOWN").IsTerminal())
}

func TestStatus_IsValid(t *testing.T) {
	for _, s := range allStatuses {
		assert.Truef(t, s.IsValid(), "status %s", s)
	}
	assert.False(t, Status("").IsValid())
	assert.False(t, Status("BOOKED").IsValid())
}

func TestBooking_TransitionTo_RejectsIllegalEdgeUnchanged(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			if isLegalEdge(from, to) {
				continue
			}

			booking := &Booking{ID: uuid.New(), SeatID: "A1", Status: from}
			err := booking.TransitionTo(to)

			require.Errorf(t, err, "edge %s -> %s must be rejected", from, to)
			var invalidErr *InvalidTransitionError
			require.ErrorAs(t, err, &invalidErr)
			assert.Equal(t, from, invalidErr.From)
			assert.Equal(t, to, invalidErr.To)

			// No partial state change is observable
			assert.Equal(t, from, booking.Status)
			assert.Nil(t, booking.HeldAt)
		}
	}
}

func TestBooking_TransitionTo_AppliesLegalEdges(t *testing.T) {
	for from, targets := range legalEdges {
		for _, to := range targets {
			booking := &Booking{ID: uuid.New(), SeatID: "A1", Status: from}
			require.NoError(t, booking.TransitionTo(to))
			assert.Equal(t, to, booking.Status)
		}
	}
}

func TestBooking_TransitionTo_SetsHeldAtOnSeatHeldOnly(t *testing.T) {
	booking := &Booking{ID: uuid.New(), SeatID: "A1", Status: StatusInitiated}
	require.Nil(t, booking.HeldAt)

	before := time.Now().UTC()
	require.NoError(t, booking.TransitionTo(StatusSeatHeld))
	after := time.Now().UTC()

	require.NotNil(t, booking.HeldAt)
	assert.False(t, booking.HeldAt.Before(before))
	assert.False(t, booking.HeldAt.After(after))

	// HeldAt survives later transitions as an audit trail
	heldAt := *booking.HeldAt
	require.NoError(t, booking.TransitionTo(StatusPaymentPending))
	require.NoError(t, booking.TransitionTo(StatusConfirmed))
	require.NotNil(t, booking.HeldAt)
	assert.Equal(t, heldAt, *booking.HeldAt)
}

func TestBooking_TransitionTo_DirectConfirmFromInitiatedRejected(t *testing.T) {
	booking := &Booking{ID: uuid.New(), SeatID: "B2", Status: StatusInitiated}

	err := booking.TransitionTo(StatusConfirmed)
	require.Error(t, err)
	assert.True(t, IsInvalidTransition(err))
	assert.Equal(t, StatusInitiated, booking.Status)
}

func TestBooking_HoldDeadline(t *testing.T) {
	booking := &Booking{ID: uuid.New(), SeatID: "A1", Status: StatusInitiated}

	_, ok := booking.HoldDeadline(10 * time.Minute)
	assert.False(t, ok)

	require.NoError(t, booking.TransitionTo(StatusSeatHeld))
	deadline, ok := booking.HoldDeadline(10 * time.Minute)
	require.True(t, ok)
	assert.Equal(t, booking.HeldAt.Add(10*time.Minute), deadline)
}
