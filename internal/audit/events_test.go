package audit

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransitionEvent(t *testing.T) {
	bookingID := uuid.New()
	event := NewTransitionEvent(bookingID, "A1", "SEAT_HELD", "EXPIRED", OutcomeApplied, "hold TTL elapsed")

	assert.NotEqual(t, uuid.Nil, event.EventID)
	assert.Equal(t, bookingID, event.BookingID)
	assert.Equal(t, "SEAT_HELD", event.FromStatus)
	assert.Equal(t, "EXPIRED", event.ToStatus)
	assert.Equal(t, OutcomeApplied, event.Outcome)
	assert.False(t, event.OccurredAt.IsZero())

	// Two events for the same transition still get distinct ids
	other := NewTransitionEvent(bookingID, "A1", "SEAT_HELD", "EXPIRED", OutcomeApplied, "hold TTL elapsed")
	assert.NotEqual(t, event.EventID, other.EventID)
}

func TestTransitionEvent_PartitionKeyIsBookingID(t *testing.T) {
	bookingID := uuid.New()

	// All events of one booking must share a key so consumers see its
	// transitions in order
	applied := NewTransitionEvent(bookingID, "A1", "INITIATED", "SEAT_HELD", OutcomeApplied, "")
	rejected := NewTransitionEvent(bookingID, "A1", "SEAT_HELD", "REFUNDED", OutcomeRejected, "transition not allowed")

	assert.Equal(t, bookingID.String(), applied.GetPartitionKey())
	assert.Equal(t, applied.GetPartitionKey(), rejected.GetPartitionKey())
}

func TestTransitionEvent_ToJSONOmitsEmptyReason(t *testing.T) {
	event := NewTransitionEvent(uuid.New(), "A1", "INITIATED", "SEAT_HELD", OutcomeApplied, "")

	payload, err := event.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.NotContains(t, decoded, "reason")
	assert.Equal(t, "APPLIED", decoded["outcome"])
}
