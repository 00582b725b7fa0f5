package bookings

import (
	"context"
	"log/slog"
	"time"

	"seatly/pkg/logger"

	"github.com/google/uuid"
)

// expiryQueue is the processor-side view of the scheduled expiry store
type expiryQueue interface {
	Due(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	Remove(ctx context.Context, bookingID uuid.UUID) error
}

// ExpiryProcessor drives the deferred expiry checks. Two loops:
// the queue poller fires scheduled checks close to their due time, and the
// database sweep catches holds whose queue entry was lost (scheduling
// failure, Redis data loss, process crash between transition and enqueue).
// Every check goes through Service.TryExpire, so a booking that advanced
// past SEAT_HELD is always a no-op.
type ExpiryProcessor struct {
	service Service
	queue   expiryQueue
	config  *ExpiryJobConfig
	log     *logger.Logger
	done    chan struct{}
}

// ExpiryJobConfig contains configuration for the expiry background jobs
type ExpiryJobConfig struct {
	PollInterval  time.Duration
	SweepInterval time.Duration
	BatchSize     int
}

// DefaultExpiryJobConfig returns default expiry job configuration
func DefaultExpiryJobConfig() *ExpiryJobConfig {
	return &ExpiryJobConfig{
		PollInterval:  5 * time.Second,
		SweepInterval: 1 * time.Minute,
		BatchSize:     100,
	}
}

// NewExpiryProcessor creates a new expiry processor
func NewExpiryProcessor(service Service, queue expiryQueue, config *ExpiryJobConfig, log *logger.Logger) *ExpiryProcessor {
	if config == nil {
		config = DefaultExpiryJobConfig()
	}
	return &ExpiryProcessor{
		service: service,
		queue:   queue,
		config:  config,
		log:     log,
		done:    make(chan struct{}),
	}
}

// Start starts the poller and sweep loops
func (ep *ExpiryProcessor) Start(ctx context.Context) {
	ep.log.Info("starting hold expiry processor",
		slog.Duration("poll_interval", ep.config.PollInterval),
		slog.Duration("sweep_interval", ep.config.SweepInterval),
	)
	go ep.runQueuePoller(ctx)
	go ep.runDatabaseSweep(ctx)
}

// Stop stops both loops
func (ep *ExpiryProcessor) Stop() {
	close(ep.done)
	ep.log.Info("hold expiry processor stopped")
}

func (ep *ExpiryProcessor) runQueuePoller(ctx context.Context) {
	ticker := time.NewTicker(ep.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ep.processDueExpiries(ctx)
		case <-ep.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (ep *ExpiryProcessor) processDueExpiries(ctx context.Context) {
	due, err := ep.queue.Due(ctx, time.Now(), ep.config.BatchSize)
	if err != nil {
		ep.log.Error("failed to read due expiries", slog.Any("error", err))
		return
	}

	for _, id := range due {
		if _, err := ep.service.TryExpire(ctx, id); err != nil {
			// Leave the entry queued; it is retried next tick and the
			// sweep loop backstops it either way.
			ep.log.Error("expiry check failed",
				slog.String("booking_id", id.String()),
				slog.Any("error", err),
			)
			continue
		}
		if err := ep.queue.Remove(ctx, id); err != nil {
			ep.log.Error("failed to dequeue handled expiry",
				slog.String("booking_id", id.String()),
				slog.Any("error", err),
			)
		}
	}
}

func (ep *ExpiryProcessor) runDatabaseSweep(ctx context.Context) {
	ticker := time.NewTicker(ep.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ep.sweepExpiredHolds(ctx)
		case <-ep.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (ep *ExpiryProcessor) sweepExpiredHolds(ctx context.Context) {
	ids, err := ep.service.ListExpiredHolds(ctx, time.Now(), ep.config.BatchSize)
	if err != nil {
		ep.log.Error("expired hold sweep query failed", slog.Any("error", err))
		return
	}

	if len(ids) > 0 {
		ep.log.Info("sweeping overdue holds", slog.Int("count", len(ids)))
	}

	for _, id := range ids {
		if _, err := ep.service.TryExpire(ctx, id); err != nil {
			ep.log.Error("sweep expiry check failed",
				slog.String("booking_id", id.String()),
				slog.Any("error", err),
			)
			continue
		}
		// Drop any still-pending queue entry so the poller does not
		// re-check a booking the sweep already handled.
		if err := ep.queue.Remove(ctx, id); err != nil {
			ep.log.Error("failed to dequeue swept expiry",
				slog.String("booking_id", id.String()),
				slog.Any("error", err),
			)
		}
	}
}
