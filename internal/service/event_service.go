package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/helpora/helpora-api/internal/models"
	"github.com/helpora/helpora-api/pkg/jobs"
)

const (
	eventBookingCreated = "booking.created"
	eventBookingStatus  = "booking.status_changed"
	eventReviewCreated  = "review.created"
)

type bookingEvent struct {
	BookingID  string
	CustomerID string
	ProviderID string
	Status     models.BookingStatus
	At         time.Time
}

type reviewEvent struct {
	ReviewID  string
	BookingID string
	ListingID string
	Rating    int
}

// EventService records domain events off the request path. Events are
// appended to the structured log by a background worker so slow sinks never
// delay a response. A nil receiver drops events silently.
type EventService struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewEventService builds the recorder and its queue. Call Start before use.
func NewEventService(logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &EventService{logger: logger}
	s.queue = jobs.NewQueue("events", s.record, jobs.Options{
		Workers: 2,
		Logger:  logger,
	})
	return s
}

// Start launches the background workers.
func (s *EventService) Start(ctx context.Context) {
	if s == nil {
		return
	}
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *EventService) Stop() {
	if s == nil {
		return
	}
	s.queue.Stop()
}

// BookingCreated records a new reservation.
func (s *EventService) BookingCreated(booking *models.Booking) {
	if s == nil || booking == nil {
		return
	}
	s.enqueue(eventBookingCreated, bookingEvent{
		BookingID:  booking.ID,
		CustomerID: booking.CustomerID,
		ProviderID: booking.ProviderID,
		Status:     booking.Status,
		At:         booking.BookingTime,
	})
}

// BookingStatusChanged records a lifecycle transition.
func (s *EventService) BookingStatusChanged(bookingID, providerID string, status models.BookingStatus) {
	if s == nil {
		return
	}
	s.enqueue(eventBookingStatus, bookingEvent{
		BookingID:  bookingID,
		ProviderID: providerID,
		Status:     status,
	})
}

// ReviewCreated records a submitted review.
func (s *EventService) ReviewCreated(review *models.Review) {
	if s == nil || review == nil {
		return
	}
	s.enqueue(eventReviewCreated, reviewEvent{
		ReviewID:  review.ID,
		BookingID: review.BookingID,
		ListingID: review.ListingID,
		Rating:    review.Rating,
	})
}

func (s *EventService) enqueue(kind string, payload interface{}) {
	job := jobs.Job{ID: uuid.NewString(), Kind: kind, Payload: payload}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("event dropped", zap.String("kind", kind), zap.Error(err))
	}
}

func (s *EventService) record(ctx context.Context, job jobs.Job) error {
	switch payload := job.Payload.(type) {
	case bookingEvent:
		s.logger.Info("domain event",
			zap.String("event", job.Kind),
			zap.String("booking_id", payload.BookingID),
			zap.String("provider_id", payload.ProviderID),
			zap.String("status", string(payload.Status)))
	case reviewEvent:
		s.logger.Info("domain event",
			zap.String("event", job.Kind),
			zap.String("review_id", payload.ReviewID),
			zap.String("booking_id", payload.BookingID),
			zap.Int("rating", payload.Rating))
	default:
		s.logger.Info("domain event", zap.String("event", job.Kind))
	}
	return nil
}
