package bookings

import (
	"context"
	"log/slog"
	"time"

	"seatly/internal/audit"
	"seatly/pkg/logger"

	"github.com/google/uuid"
)

// Service interface defines the contract for the booking lifecycle
type Service interface {
	// CreateBooking creates a new booking in INITIATED for the given seat
	CreateBooking(ctx context.Context, seatID string) (*Booking, error)

	// GetBooking fetches a booking by id
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*Booking, error)

	// HoldSeat transitions INITIATED -> SEAT_HELD under the row lock and
	// schedules the deferred expiry check at held_at + hold TTL. A
	// *SchedulingError is returned together with the held booking when the
	// expiry task could not be enqueued.
	HoldSeat(ctx context.Context, bookingID uuid.UUID) (*Booking, error)

	// ConfirmPayment applies SEAT_HELD -> PAYMENT_PENDING -> CONFIRMED when
	// success is true; on a declined payment no transition occurs and
	// ErrPaymentDeclined is returned.
	ConfirmPayment(ctx context.Context, bookingID uuid.UUID, success bool) (*Booking, error)

	// Refund applies CONFIRMED -> REFUNDED. A second refund attempt fails
	// with *InvalidTransitionError because REFUNDED is terminal.
	Refund(ctx context.Context, bookingID uuid.UUID) (*Booking, error)

	// Cancel applies the CANCELLED transition from any status that allows it
	Cancel(ctx context.Context, bookingID uuid.UUID) (*Booking, error)

	// TryExpire re-reads the booking under the row lock and applies
	// SEAT_HELD -> EXPIRED only if the booking is still SEAT_HELD. Any
	// other status, and a missing booking, are benign no-ops.
	TryExpire(ctx context.Context, bookingID uuid.UUID) (*Booking, error)

	// ListExpiredHolds returns ids of SEAT_HELD bookings whose hold TTL
	// elapsed, for the sweep loop of the expiry processor
	ListExpiredHolds(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
}

// service implements the Service interface
type service struct {
	repo      Repository
	scheduler ExpiryScheduler
	recorder  audit.Recorder
	log       *logger.Logger
	holdTTL   time.Duration
}

// NewService creates a new booking lifecycle service
func NewService(repo Repository, scheduler ExpiryScheduler, recorder audit.Recorder, log *logger.Logger, holdTTL time.Duration) Service {
	return &service{
		repo:      repo,
		scheduler: scheduler,
		recorder:  recorder,
		log:       log,
		holdTTL:   holdTTL,
	}
}

func (s *service) CreateBooking(ctx context.Context, seatID string) (*Booking, error) {
	booking := &Booking{
		SeatID: seatID,
		Status: StatusInitiated,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "booking created",
		slog.String("booking_id", booking.ID.String()),
		slog.String("seat_id", booking.SeatID),
	)
	return booking, nil
}

func (s *service) GetBooking(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, bookingID)
}

func (s *service) HoldSeat(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	booking, err := s.applyTransition(ctx, bookingID, StatusSeatHeld)
	if err != nil {
		return nil, err
	}

	fireAt := booking.HeldAt.Add(s.holdTTL)
	if err := s.scheduler.ScheduleExpiry(ctx, booking.ID, fireAt); err != nil {
		// The hold is already committed. Surface the failure loudly; the
		// database sweep still guarantees the seat is released eventually.
		schedErr := &SchedulingError{BookingID: booking.ID, Err: err}
		s.log.ErrorContext(ctx, "hold expiry scheduling failed, sweep loop is the fallback",
			slog.String("booking_id", booking.ID.String()),
			slog.Time("fire_at", fireAt),
			slog.Any("error", err),
		)
		return booking, schedErr
	}

	s.log.InfoContext(ctx, "seat held",
		slog.String("booking_id", booking.ID.String()),
		slog.String("seat_id", booking.SeatID),
		slog.Time("expires_at", fireAt),
	)
	return booking, nil
}

func (s *service) ConfirmPayment(ctx context.Context, bookingID uuid.UUID, success bool) (*Booking, error) {
	if !success {
		s.log.InfoContext(ctx, "payment declined, booking left unchanged",
			slog.String("booking_id", bookingID.String()),
		)
		return nil, ErrPaymentDeclined
	}

	// Two independently locked transitions. Only one party should drive
	// payment for a booking at a time; an illegal starting state is
	// rejected by the transition table itself.
	if _, err := s.applyTransition(ctx, bookingID, StatusPaymentPending); err != nil {
		return nil, err
	}
	return s.applyTransition(ctx, bookingID, StatusConfirmed)
}

func (s *service) Refund(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	return s.applyTransition(ctx, bookingID, StatusRefunded)
}

func (s *service) Cancel(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	return s.applyTransition(ctx, bookingID, StatusCancelled)
}

func (s *service) TryExpire(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	var (
		from    Status
		seatID  string
		expired bool
	)

	booking, err := s.repo.UpdateWithLock(ctx, bookingID, func(b *Booking) error {
		from = b.Status
		seatID = b.SeatID
		if b.Status != StatusSeatHeld {
			// Superseded: the booking advanced (or was cancelled) before
			// the timer fired. Nothing to do.
			return ErrSkipUpdate
		}
		expired = true
		return b.TransitionTo(StatusExpired)
	})
	if err != nil {
		if IsNotFound(err) {
			// Booking deleted or never existed; the expiry task absorbs
			// this rather than crashing the processor.
			s.log.DebugContext(ctx, "expiry check for unknown booking",
				slog.String("booking_id", bookingID.String()),
			)
			return nil, nil
		}
		return nil, err
	}

	if expired {
		s.recordTransition(ctx, bookingID, seatID, from, StatusExpired, audit.OutcomeApplied, "hold TTL elapsed")
		s.log.InfoContext(ctx, "hold expired",
			slog.String("booking_id", bookingID.String()),
			slog.String("seat_id", seatID),
		)
	} else {
		s.log.DebugContext(ctx, "expiry superseded by later transition",
			slog.String("booking_id", bookingID.String()),
			slog.String("status", from.String()),
		)
	}
	return booking, nil
}

func (s *service) ListExpiredHolds(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	return s.repo.FindExpiredHolds(ctx, now.Add(-s.holdTTL), limit)
}

// applyTransition performs one validated transition under the per-id row
// lock and emits the audit event for the attempt, applied or rejected.
func (s *service) applyTransition(ctx context.Context, bookingID uuid.UUID, target Status) (*Booking, error) {
	var (
		from   Status
		seatID string
	)

	booking, err := s.repo.UpdateWithLock(ctx, bookingID, func(b *Booking) error {
		from = b.Status
		seatID = b.SeatID
		return b.TransitionTo(target)
	})
	if err != nil {
		if IsInvalidTransition(err) {
			s.recordTransition(ctx, bookingID, seatID, from, target, audit.OutcomeRejected, err.Error())
			s.log.WarnContext(ctx, "illegal transition rejected",
				slog.String("booking_id", bookingID.String()),
				slog.String("from_status", from.String()),
				slog.String("to_status", target.String()),
			)
		}
		return nil, err
	}

	s.recordTransition(ctx, booking.ID, booking.SeatID, from, target, audit.OutcomeApplied, "")
	s.log.InfoContext(ctx, "booking transitioned",
		slog.String("booking_id", booking.ID.String()),
		slog.String("from_status", from.String()),
		slog.String("to_status", target.String()),
	)
	return booking, nil
}

// recordTransition publishes the audit event best-effort; a recorder
// failure must never fail the transition that already committed
func (s *service) recordTransition(ctx context.Context, bookingID uuid.UUID, seatID string, from, to Status, outcome audit.TransitionOutcome, reason string) {
	event := audit.NewTransitionEvent(bookingID, seatID, from.String(), to.String(), outcome, reason)
	if err := s.recorder.RecordTransition(ctx, event); err != nil {
		s.log.ErrorContext(ctx, "failed to record transition event",
			slog.String("booking_id", bookingID.String()),
			slog.Any("error", err),
		)
	}
}
