package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/helpora/helpora-api/internal/models"
	appErrors "github.com/helpora/helpora-api/pkg/errors"
)

type mockAdminUsers struct {
	rows      []models.UserSummary
	statusSet models.UserStatus
	statusErr error
}

func (m *mockAdminUsers) ListNonAdmins(ctx context.Context) ([]models.UserSummary, error) {
	return m.rows, nil
}

func (m *mockAdminUsers) UpdateStatus(ctx context.Context, id string, status models.UserStatus) error {
	if m.statusErr != nil {
		return m.statusErr
	}
	m.statusSet = status
	return nil
}

type mockAdminProviders struct {
	rows      []models.ProviderSummary
	statusSet models.ProviderStatus
}

func (m *mockAdminProviders) List(ctx context.Context) ([]models.ProviderSummary, error) {
	return m.rows, nil
}

func (m *mockAdminProviders) UpdateStatus(ctx context.Context, userID string, status models.ProviderStatus) error {
	m.statusSet = status
	return nil
}

type mockAnalyticsRepo struct {
	snapshot *models.PlatformAnalytics
	calls    int
}

func (m *mockAnalyticsRepo) Snapshot(ctx context.Context) (*models.PlatformAnalytics, error) {
	m.calls++
	return m.snapshot, nil
}

type mockAnalyticsCache struct {
	store map[string][]byte
}

func (m *mockAnalyticsCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockAnalyticsCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.store == nil {
		m.store = make(map[string][]byte)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = raw
	return nil
}

func TestAdminServiceSetUserStatus(t *testing.T) {
	users := &mockAdminUsers{}
	svc := NewAdminService(users, &mockAdminProviders{}, &mockAnalyticsRepo{}, nil, zap.NewNop(), AdminConfig{})

	require.NoError(t, svc.SetUserStatus(context.Background(), "u1", models.UserSuspended))
	assert.Equal(t, models.UserSuspended, users.statusSet)
}

func TestAdminServiceSetUserStatusUnknown(t *testing.T) {
	svc := NewAdminService(&mockAdminUsers{}, &mockAdminProviders{}, &mockAnalyticsRepo{}, nil, zap.NewNop(), AdminConfig{})

	err := svc.SetUserStatus(context.Background(), "u1", models.UserStatus("Banned"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAdminServiceSetUserStatusNotFound(t *testing.T) {
	users := &mockAdminUsers{statusErr: sql.ErrNoRows}
	svc := NewAdminService(users, &mockAdminProviders{}, &mockAnalyticsRepo{}, nil, zap.NewNop(), AdminConfig{})

	err := svc.SetUserStatus(context.Background(), "missing", models.UserActive)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAdminServiceSetProviderStatus(t *testing.T) {
	providers := &mockAdminProviders{}
	svc := NewAdminService(&mockAdminUsers{}, providers, &mockAnalyticsRepo{}, nil, zap.NewNop(), AdminConfig{})

	require.NoError(t, svc.SetProviderStatus(context.Background(), "p1", models.ProviderApproved))
	assert.Equal(t, models.ProviderApproved, providers.statusSet)
}

func TestAdminServiceAnalyticsCaches(t *testing.T) {
	repo := &mockAnalyticsRepo{snapshot: &models.PlatformAnalytics{TotalUsers: 10, TotalProviders: 3, TotalBookings: 42}}
	cache := &mockAnalyticsCache{}
	svc := NewAdminService(&mockAdminUsers{}, &mockAdminProviders{}, repo, cache, zap.NewNop(), AdminConfig{AnalyticsCacheTTL: time.Minute})

	first, err := svc.Analytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, first.TotalBookings)

	second, err := svc.Analytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.TotalBookings, second.TotalBookings)
	assert.Equal(t, 1, repo.calls)
}
