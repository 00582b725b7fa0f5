package routes

import (
	"net/http"
	"time"

	"seatly/internal/audit"
	"seatly/internal/bookings"
	"seatly/internal/shared/config"
	"seatly/internal/shared/database"
	"seatly/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	recorder audit.Recorder
	log      *logger.Logger

	// BookingService and ExpiryQueue are exposed so main can wire the
	// expiry processor to the same instances serving requests
	BookingService bookings.Service
	ExpiryQueue    *bookings.RedisExpiryQueue
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, recorder audit.Recorder, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		recorder: recorder,
		log:      log,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupBookingRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "seatly",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "seatly",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupBookingRoutes configures booking lifecycle routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	expiryQueue := bookings.NewRedisExpiryQueue(r.db.GetRedisClient())
	bookingService := bookings.NewService(bookingRepo, expiryQueue, r.recorder, r.log, r.config.Hold.TTL)
	bookingController := bookings.NewController(bookingService)

	r.BookingService = bookingService
	r.ExpiryQueue = expiryQueue

	bookings.SetupBookingRoutes(rg, bookingController)
}
