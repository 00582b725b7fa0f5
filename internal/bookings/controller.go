package bookings

import (
	"errors"
	"net/http"

	"seatly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateBooking handles POST /api/v1/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	booking, err := c.service.CreateBooking(ctx.Request.Context(), req.SeatID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create booking", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created", booking.ToResponse(), nil)
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	bookingID, ok := c.bookingID(ctx)
	if !ok {
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), bookingID)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved", booking.ToResponse(), nil)
}

// HoldSeat handles POST /api/v1/bookings/:id/hold
func (c *Controller) HoldSeat(ctx *gin.Context) {
	bookingID, ok := c.bookingID(ctx)
	if !ok {
		return
	}

	booking, err := c.service.HoldSeat(ctx.Request.Context(), bookingID)
	if err != nil {
		var schedErr *SchedulingError
		if errors.As(err, &schedErr) {
			// The seat is held but the deferred expiry could not be
			// enqueued; the sweep loop covers the release. Surface the
			// degraded state instead of pretending the hold is healthy.
			response.RespondJSON(ctx, "error", http.StatusBadGateway,
				"Seat held but expiry scheduling failed", booking.ToResponse(), schedErr.Error())
			return
		}
		c.respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat locked", booking.ToResponse(), nil)
}

// Pay handles POST /api/v1/bookings/:id/pay
func (c *Controller) Pay(ctx *gin.Context) {
	bookingID, ok := c.bookingID(ctx)
	if !ok {
		return
	}

	var req PaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	booking, err := c.service.ConfirmPayment(ctx.Request.Context(), bookingID, *req.Success)
	if err != nil {
		if errors.Is(err, ErrPaymentDeclined) {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Payment failed", nil, nil)
			return
		}
		c.respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking confirmed", booking.ToResponse(), nil)
}

// Refund handles POST /api/v1/bookings/:id/refund
func (c *Controller) Refund(ctx *gin.Context) {
	bookingID, ok := c.bookingID(ctx)
	if !ok {
		return
	}

	booking, err := c.service.Refund(ctx.Request.Context(), bookingID)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking refunded", booking.ToResponse(), nil)
}

// Cancel handles POST /api/v1/bookings/:id/cancel
func (c *Controller) Cancel(ctx *gin.Context) {
	bookingID, ok := c.bookingID(ctx)
	if !ok {
		return
	}

	booking, err := c.service.Cancel(ctx.Request.Context(), bookingID)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled", booking.ToResponse(), nil)
}

func (c *Controller) bookingID(ctx *gin.Context) (uuid.UUID, bool) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return uuid.Nil, false
	}
	return bookingID, true
}

// respondError maps core errors onto HTTP statuses
func (c *Controller) respondError(ctx *gin.Context, err error) {
	switch {
	case IsNotFound(err):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, err.Error())
	case IsInvalidTransition(err):
		response.RespondJSON(ctx, "error", http.StatusConflict, "Transition not allowed", nil, err.Error())
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Internal error", nil, err.Error())
	}
}
