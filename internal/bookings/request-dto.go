package bookings

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// seatIDPattern matches seat labels like "A1", "B12" or "ROW3-4"
var seatIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,10}$`)

// RegisterValidations wires booking-specific checks into gin's binding
// engine. Must be called before any route using the seat_id tag is bound.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("seat_id", func(fl validator.FieldLevel) bool {
			return seatIDPattern.MatchString(fl.Field().String())
		})
	}
}

// CreateBookingRequest represents a booking creation request
type CreateBookingRequest struct {
	SeatID string `json:"seat_id" binding:"required,seat_id"`
}

// PaymentRequest carries the mocked payment outcome supplied by the caller
type PaymentRequest struct {
	Success *bool `json:"success" binding:"required"`
}
