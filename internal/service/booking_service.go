package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/helpora/helpora-api/internal/models"
	"github.com/helpora/helpora-api/internal/repository"
	appErrors "github.com/helpora/helpora-api/pkg/errors"
	"github.com/helpora/helpora-api/pkg/export"
)

type bookingRepository interface {
	GetAvailability(ctx context.Context, providerID string) ([]models.AvailabilityWindow, error)
	ReplaceAvailability(ctx context.Context, providerID string, windows []models.AvailabilityWindow) error
	ListBookedTimes(ctx context.Context, providerID string, from time.Time) ([]time.Time, error)
	Create(ctx context.Context, booking *models.Booking) error
	ListForCustomer(ctx context.Context, customerID string) ([]models.CustomerBooking, error)
	ListForProvider(ctx context.Context, providerID string) ([]models.ProviderBooking, error)
	UpdateStatus(ctx context.Context, bookingID, providerID string, status models.BookingStatus) error
}

type bookingListingRepository interface {
	FindByID(ctx context.Context, id string) (*models.Listing, string, error)
}

type slotsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// BookingConfig tunes slot computation and caching.
type BookingConfig struct {
	HorizonDays   int
	CacheEnabled  bool
	SlotsCacheTTL time.Duration
}

// BookingService manages availability schedules, slot computation and the
// booking lifecycle.
type BookingService struct {
	repo      bookingRepository
	listings  bookingListingRepository
	cache     slotsCache
	metrics   *MetricsService
	events    *EventService
	validator *validator.Validate
	logger    *zap.Logger
	config    BookingConfig
	now       func() time.Time
}

// NewBookingService constructs a BookingService instance. cache, metrics and
// events may be nil.
func NewBookingService(repo bookingRepository, listings bookingListingRepository, cache slotsCache, metrics *MetricsService, events *EventService, validate *validator.Validate, logger *zap.Logger, config BookingConfig) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.HorizonDays <= 0 {
		config.HorizonDays = 7
	}
	return &BookingService{
		repo:      repo,
		listings:  listings,
		cache:     cache,
		metrics:   metrics,
		events:    events,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       time.Now,
	}
}

// Availability returns the provider's weekly schedule.
func (s *BookingService) Availability(ctx context.Context, providerID string) ([]models.AvailabilityWindow, error) {
	windows, err := s.repo.GetAvailability(ctx, providerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}
	return windows, nil
}

// SetAvailability replaces the provider's weekly schedule atomically.
func (s *BookingService) SetAvailability(ctx context.Context, providerID string, req models.SetAvailabilityRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}

	windows := make([]models.AvailabilityWindow, 0, len(req.Availability))
	for _, in := range req.Availability {
		windows = append(windows, models.AvailabilityWindow{
			ProviderID: providerID,
			DayOfWeek:  in.DayOfWeek,
			StartTime:  in.StartTime,
			EndTime:    in.EndTime,
		})
	}

	if err := s.repo.ReplaceAvailability(ctx, providerID, windows); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace availability")
	}

	s.invalidateSlots(ctx, providerID)
	s.logger.Info("availability replaced", zap.String("provider_id", providerID), zap.Int("windows", len(windows)))
	return nil
}

// Slots computes the provider's bookable slots over the configured horizon.
func (s *BookingService) Slots(ctx context.Context, providerID string) ([]time.Time, error) {
	cacheKey := fmt.Sprintf("slots:%s", providerID)

	if s.config.CacheEnabled && s.cache != nil {
		var cached []time.Time
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.metrics.RecordCacheOperation(true)
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("slots cache read failed", zap.Error(err))
		} else {
			s.metrics.RecordCacheOperation(false)
		}
	}

	windows, err := s.repo.GetAvailability(ctx, providerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}

	now := s.now()
	booked, err := s.repo.ListBookedTimes(ctx, providerID, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booked times")
	}

	started := time.Now()
	slots := AvailableSlots(windows, booked, s.config.HorizonDays, now)
	s.metrics.ObserveSlotComputation(time.Since(started))

	if s.config.CacheEnabled && s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, slots, s.config.SlotsCacheTTL); err != nil {
			s.logger.Warn("slots cache write failed", zap.Error(err))
		}
	}

	return slots, nil
}

// Create reserves a slot on a listing for the customer. A collision with an
// existing non-cancelled booking at the same instant yields ErrSlotTaken.
func (s *BookingService) Create(ctx context.Context, customerID string, req models.CreateBookingRequest) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	if !req.BookingTime.After(s.now()) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "booking time must be in the future")
	}

	listing, _, err := s.listings.FindByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "listing not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load listing")
	}

	if listing.ProviderID != req.ProviderID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "provider does not match listing")
	}
	if listing.ProviderID == customerID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "providers cannot book their own listings")
	}

	booking := &models.Booking{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		ProviderID:  listing.ProviderID,
		ListingID:   listing.ID,
		BookingTime: req.BookingTime.UTC(),
		Status:      models.BookingPending,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, appErrors.Clone(appErrors.ErrSlotTaken, "the requested slot is already booked")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create booking")
	}

	s.invalidateSlots(ctx, listing.ProviderID)
	s.metrics.RecordBookingCreated()
	s.events.BookingCreated(booking)
	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("provider_id", booking.ProviderID),
		zap.Time("booking_time", booking.BookingTime))
	return booking, nil
}

// CustomerBookings returns the customer's bookings, newest first.
func (s *BookingService) CustomerBookings(ctx context.Context, customerID string) ([]models.CustomerBooking, error) {
	bookings, err := s.repo.ListForCustomer(ctx, customerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
	}
	return bookings, nil
}

// ProviderBookings returns bookings made against the provider, newest first.
func (s *BookingService) ProviderBookings(ctx context.Context, providerID string) ([]models.ProviderBooking, error) {
	bookings, err := s.repo.ListForProvider(ctx, providerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
	}
	return bookings, nil
}

// UpdateStatus moves a booking owned by the provider to a new state.
func (s *BookingService) UpdateStatus(ctx context.Context, providerID, bookingID string, req models.UpdateBookingStatusRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}

	if !req.Status.TransitionAllowed() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("status %q is not an allowed transition", req.Status))
	}

	if err := s.repo.UpdateStatus(ctx, bookingID, providerID, req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update booking status")
	}

	// Cancelling frees the slot again.
	if req.Status == models.BookingCancelled {
		s.invalidateSlots(ctx, providerID)
	}

	s.events.BookingStatusChanged(bookingID, providerID, req.Status)
	s.logger.Info("booking status updated",
		zap.String("booking_id", bookingID),
		zap.String("status", string(req.Status)))
	return nil
}

// ExportProviderBookings renders the provider's bookings as CSV or PDF.
func (s *BookingService) ExportProviderBookings(ctx context.Context, providerID, format string) ([]byte, string, error) {
	bookings, err := s.repo.ListForProvider(ctx, providerID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
	}

	dataset := export.Dataset{
		Headers: []string{"Booking ID", "Service", "Customer", "Time", "Status"},
		Rows:    make([]map[string]string, 0, len(bookings)),
	}
	for _, b := range bookings {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Booking ID": b.ID,
			"Service":    b.ServiceTitle,
			"Customer":   b.CustomerEmail,
			"Time":       b.BookingTime.UTC().Format(time.RFC3339),
			"Status":     string(b.Status),
		})
	}

	switch format {
	case "csv", "":
		payload, err := export.NewCSVExporter().Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := export.NewPDFExporter().Render(dataset, "Bookings")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func (s *BookingService) invalidateSlots(ctx context.Context, providerID string) {
	if !s.config.CacheEnabled || s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, fmt.Sprintf("slots:%s", providerID)); err != nil {
		s.logger.Warn("slots cache invalidation failed", zap.Error(err))
	}
}
