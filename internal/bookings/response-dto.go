package bookings

import "time"

// BookingResponse is the API representation of a booking
type BookingResponse struct {
	ID        string     `json:"id"`
	SeatID    string     `json:"seat_id"`
	Status    string     `json:"status"`
	HeldAt    *time.Time `json:"held_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToResponse converts a booking entity to its API representation
func (b *Booking) ToResponse() BookingResponse {
	return BookingResponse{
		ID:        b.ID.String(),
		SeatID:    b.SeatID,
		Status:    b.Status.String(),
		HeldAt:    b.HeldAt,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
