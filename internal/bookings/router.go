package bookings

import (
	"seatly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	RegisterValidations()

	bookings := rg.Group("/bookings")
	{
		bookings.POST("", controller.CreateBooking)     // POST /api/v1/bookings
		bookings.GET("/:id", controller.GetBooking)     // GET  /api/v1/bookings/:id
		bookings.POST("/:id/hold", controller.HoldSeat) // POST /api/v1/bookings/:id/hold
		bookings.POST("/:id/pay", controller.Pay)       // POST /api/v1/bookings/:id/pay
	}

	// Refund and out-of-band cancellation are back-office operations;
	// tokens are minted by the external identity service.
	admin := rg.Group("/bookings")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("/:id/refund", controller.Refund) // POST /api/v1/bookings/:id/refund
		admin.POST("/:id/cancel", controller.Cancel) // POST /api/v1/bookings/:id/cancel
	}
}
