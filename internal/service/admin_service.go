package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/helpora/helpora-api/internal/models"
	appErrors "github.com/helpora/helpora-api/pkg/errors"
)

const analyticsCacheKey = "admin:analytics"

type adminUserRepository interface {
	ListNonAdmins(ctx context.Context) ([]models.UserSummary, error)
	UpdateStatus(ctx context.Context, id string, status models.UserStatus) error
}

type adminProviderRepository interface {
	List(ctx context.Context) ([]models.ProviderSummary, error)
	UpdateStatus(ctx context.Context, userID string, status models.ProviderStatus) error
}

type analyticsRepository interface {
	Snapshot(ctx context.Context) (*models.PlatformAnalytics, error)
}

type analyticsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// AdminConfig tunes admin-facing caching.
type AdminConfig struct {
	AnalyticsCacheTTL time.Duration
}

// AdminService provides platform moderation and analytics.
type AdminService struct {
	users     adminUserRepository
	providers adminProviderRepository
	analytics analyticsRepository
	cache     analyticsCache
	logger    *zap.Logger
	config    AdminConfig
}

// NewAdminService constructs an AdminService instance. cache may be nil.
func NewAdminService(users adminUserRepository, providers adminProviderRepository, analytics analyticsRepository, cache analyticsCache, logger *zap.Logger, config AdminConfig) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{users: users, providers: providers, analytics: analytics, cache: cache, logger: logger, config: config}
}

// Users lists all non-admin accounts.
func (s *AdminService) Users(ctx context.Context) ([]models.UserSummary, error) {
	users, err := s.users.ListNonAdmins(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return users, nil
}

// SetUserStatus activates or suspends a non-admin account.
func (s *AdminService) SetUserStatus(ctx context.Context, userID string, status models.UserStatus) error {
	if !status.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown user status")
	}

	if err := s.users.UpdateStatus(ctx, userID, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user status")
	}

	s.logger.Info("user status updated", zap.String("user_id", userID), zap.String("status", string(status)))
	return nil
}

// Providers lists all provider accounts with their moderation state.
func (s *AdminService) Providers(ctx context.Context) ([]models.ProviderSummary, error) {
	providers, err := s.providers.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list providers")
	}
	return providers, nil
}

// SetProviderStatus moves a provider profile between moderation states.
func (s *AdminService) SetProviderStatus(ctx context.Context, providerID string, status models.ProviderStatus) error {
	if !status.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown provider status")
	}

	if err := s.providers.UpdateStatus(ctx, providerID, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "provider not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update provider status")
	}

	s.logger.Info("provider status updated", zap.String("provider_id", providerID), zap.String("status", string(status)))
	return nil
}

// Analytics returns platform-wide counters, cached briefly when a cache
// is configured.
func (s *AdminService) Analytics(ctx context.Context) (*models.PlatformAnalytics, error) {
	if s.cache != nil {
		var cached models.PlatformAnalytics
		if err := s.cache.Get(ctx, analyticsCacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("analytics cache read failed", zap.Error(err))
		}
	}

	snapshot, err := s.analytics.Snapshot(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute analytics")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, analyticsCacheKey, snapshot, s.config.AnalyticsCacheTTL); err != nil {
			s.logger.Warn("analytics cache write failed", zap.Error(err))
		}
	}

	return snapshot, nil
}
