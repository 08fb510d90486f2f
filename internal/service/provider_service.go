package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/helpora/helpora-api/internal/models"
	appErrors "github.com/helpora/helpora-api/pkg/errors"
)

type providerRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	SaveProfile(ctx context.Context, userID, name, location string, categoryIDs []int64) error
	FindProfile(ctx context.Context, userID string) (*models.ProviderProfileDetail, error)
}

// ProviderService manages provider profiles and the category catalogue.
type ProviderService struct {
	repo      providerRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProviderService constructs a ProviderService instance.
func NewProviderService(repo providerRepository, validate *validator.Validate, logger *zap.Logger) *ProviderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProviderService{repo: repo, validator: validate, logger: logger}
}

// Categories returns all service categories.
func (s *ProviderService) Categories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	return categories, nil
}

// SaveProfile creates or replaces the provider's profile and category
// selection in a single transaction.
func (s *ProviderService) SaveProfile(ctx context.Context, userID string, req models.SaveProviderProfileRequest) (*models.ProviderProfileDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	if err := s.repo.SaveProfile(ctx, userID, req.Name, req.Location, req.Categories); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save provider profile")
	}

	s.logger.Info("provider profile saved", zap.String("user_id", userID))
	return s.Profile(ctx, userID)
}

// Profile returns the provider's own profile with categories.
func (s *ProviderService) Profile(ctx context.Context, userID string) (*models.ProviderProfileDetail, error) {
	profile, err := s.repo.FindProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "provider profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load provider profile")
	}
	return profile, nil
}
