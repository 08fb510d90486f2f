package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/helpora/helpora-api/internal/models"
	"github.com/helpora/helpora-api/internal/repository"
	appErrors "github.com/helpora/helpora-api/pkg/errors"
)

type reviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ListForListing(ctx context.Context, listingID string) ([]models.ReviewItem, error)
}

type reviewBookingRepository interface {
	FindCompletedForCustomer(ctx context.Context, bookingID, customerID string) (*models.Booking, error)
}

// ReviewService gates reviews behind completed bookings.
type ReviewService struct {
	repo      reviewRepository
	bookings  reviewBookingRepository
	events    *EventService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReviewService constructs a ReviewService instance. events may be nil.
func NewReviewService(repo reviewRepository, bookings reviewBookingRepository, events *EventService, validate *validator.Validate, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ReviewService{repo: repo, bookings: bookings, events: events, validator: validate, logger: logger}
}

// Create submits a review. The booking must belong to the customer, be
// Completed, reference the reviewed listing, and not be reviewed already.
func (s *ReviewService) Create(ctx context.Context, customerID string, req models.CreateReviewRequest) (*models.Review, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}

	booking, err := s.bookings.FindCompletedForCustomer(ctx, req.BookingID, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "only completed bookings can be reviewed")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking")
	}

	if booking.ListingID != req.ListingID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "booking does not belong to this listing")
	}

	review := &models.Review{
		ID:         uuid.NewString(),
		BookingID:  req.BookingID,
		ListingID:  req.ListingID,
		CustomerID: customerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "this booking has already been reviewed")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create review")
	}

	s.events.ReviewCreated(review)
	s.logger.Info("review created", zap.String("review_id", review.ID), zap.String("listing_id", review.ListingID))
	return review, nil
}

// ForListing returns the reviews for a listing, newest first.
func (s *ReviewService) ForListing(ctx context.Context, listingID string) ([]models.ReviewItem, error) {
	reviews, err := s.repo.ListForListing(ctx, listingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reviews")
	}
	return reviews, nil
}
