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
	appErrors "github.com/helpora/helpora-api/pkg/errors"
)

type listingRepository interface {
	List(ctx context.Context, filter models.ListingFilter) ([]models.ListingSummary, int, error)
	FindByID(ctx context.Context, id string) (*models.Listing, string, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.ListingSummary, error)
	Create(ctx context.Context, listing *models.Listing) error
	Update(ctx context.Context, listing *models.Listing) error
	Delete(ctx context.Context, id, providerID string) error
}

type listingReviewRepository interface {
	ListForListing(ctx context.Context, listingID string) ([]models.ReviewItem, error)
}

type listingProviderRepository interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// ListingService manages the public catalogue and provider-owned listings.
type ListingService struct {
	repo      listingRepository
	reviews   listingReviewRepository
	providers listingProviderRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewListingService constructs a ListingService instance.
func NewListingService(repo listingRepository, reviews listingReviewRepository, providers listingProviderRepository, validate *validator.Validate, logger *zap.Logger) *ListingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ListingService{repo: repo, reviews: reviews, providers: providers, validator: validate, logger: logger}
}

// Search returns catalogue listings matching the filter plus pagination info.
func (s *ListingService) Search(ctx context.Context, filter models.ListingFilter) ([]models.ListingSummary, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	listings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search listings")
	}

	pagination := &models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		Total:      total,
		TotalPages: (total + filter.PageSize - 1) / filter.PageSize,
	}
	return listings, pagination, nil
}

// Get returns a single listing with provider name and reviews.
func (s *ListingService) Get(ctx context.Context, id string) (*models.ListingDetail, error) {
	listing, providerName, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "listing not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load listing")
	}

	reviews, err := s.reviews.ListForListing(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reviews")
	}

	return &models.ListingDetail{
		Listing:      *listing,
		ProviderName: providerName,
		Reviews:      reviews,
	}, nil
}

// Mine returns the calling provider's own listings.
func (s *ListingService) Mine(ctx context.Context, providerID string) ([]models.ListingSummary, error) {
	listings, err := s.repo.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load listings")
	}
	return listings, nil
}

// Create adds a listing for the provider. The provider must have completed
// profile setup first.
func (s *ListingService) Create(ctx context.Context, providerID string, req models.SaveListingRequest) (*models.Listing, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid listing payload")
	}

	hasProfile, err := s.providers.Exists(ctx, providerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check provider profile")
	}
	if !hasProfile {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "complete your provider profile before creating listings")
	}

	now := time.Now().UTC()
	listing := &models.Listing{
		ID:          uuid.NewString(),
		ProviderID:  providerID,
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create listing")
	}

	s.logger.Info("listing created", zap.String("listing_id", listing.ID), zap.String("provider_id", providerID))
	return listing, nil
}

// Update modifies a listing owned by the provider.
func (s *ListingService) Update(ctx context.Context, providerID, listingID string, req models.SaveListingRequest) (*models.Listing, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid listing payload")
	}

	listing := &models.Listing{
		ID:          listingID,
		ProviderID:  providerID,
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		UpdatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Update(ctx, listing); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "listing not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update listing")
	}

	updated, _, err := s.repo.FindByID(ctx, listingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload listing")
	}
	return updated, nil
}

// Delete removes a listing owned by the provider.
func (s *ListingService) Delete(ctx context.Context, providerID, listingID string) error {
	if err := s.repo.Delete(ctx, listingID, providerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "listing not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete listing")
	}

	s.logger.Info("listing deleted", zap.String("listing_id", listingID), zap.String("provider_id", providerID))
	return nil
}
