package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/helpora/helpora-api/internal/models"
	appErrors "github.com/helpora/helpora-api/pkg/errors"
)

type mockCatalogueRepo struct {
	rows      []models.ListingSummary
	total     int
	listing   *models.Listing
	provider  string
	findErr   error
	created   *models.Listing
	updated   *models.Listing
	updateErr error
	deleteErr error
	filter    models.ListingFilter
}

func (m *mockCatalogueRepo) List(ctx context.Context, filter models.ListingFilter) ([]models.ListingSummary, int, error) {
	m.filter = filter
	return m.rows, m.total, nil
}

func (m *mockCatalogueRepo) FindByID(ctx context.Context, id string) (*models.Listing, string, error) {
	if m.findErr != nil {
		return nil, "", m.findErr
	}
	return m.listing, m.provider, nil
}

func (m *mockCatalogueRepo) ListByProvider(ctx context.Context, providerID string) ([]models.ListingSummary, error) {
	return m.rows, nil
}

func (m *mockCatalogueRepo) Create(ctx context.Context, listing *models.Listing) error {
	m.created = listing
	return nil
}

func (m *mockCatalogueRepo) Update(ctx context.Context, listing *models.Listing) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = listing
	return nil
}

func (m *mockCatalogueRepo) Delete(ctx context.Context, id, providerID string) error {
	return m.deleteErr
}

type mockListingReviews struct {
	items []models.ReviewItem
}

func (m *mockListingReviews) ListForListing(ctx context.Context, listingID string) ([]models.ReviewItem, error) {
	return m.items, nil
}

type mockProviderExists struct {
	exists bool
}

func (m *mockProviderExists) Exists(ctx context.Context, userID string) (bool, error) {
	return m.exists, nil
}

func newListingService(repo *mockCatalogueRepo, hasProfile bool) *ListingService {
	return NewListingService(repo, &mockListingReviews{}, &mockProviderExists{exists: hasProfile}, validator.New(), zap.NewNop())
}

func TestListingServiceSearchDefaults(t *testing.T) {
	repo := &mockCatalogueRepo{rows: []models.ListingSummary{{ID: "l1"}}, total: 45}
	svc := newListingService(repo, true)

	rows, pagination, err := svc.Search(context.Background(), models.ListingFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 1, repo.filter.Page)
	assert.Equal(t, 20, repo.filter.PageSize)
	assert.Equal(t, 45, pagination.Total)
	assert.Equal(t, 3, pagination.TotalPages)
}

func TestListingServiceGet(t *testing.T) {
	repo := &mockCatalogueRepo{listing: &models.Listing{ID: "l1", Title: "Plumbing"}, provider: "Alice"}
	svc := NewListingService(repo, &mockListingReviews{items: []models.ReviewItem{{Rating: 5}}}, &mockProviderExists{}, validator.New(), zap.NewNop())

	detail, err := svc.Get(context.Background(), "l1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", detail.ProviderName)
	require.Len(t, detail.Reviews, 1)
	assert.Equal(t, 5, detail.Reviews[0].Rating)
}

func TestListingServiceGetNotFound(t *testing.T) {
	repo := &mockCatalogueRepo{findErr: sql.ErrNoRows}
	svc := newListingService(repo, true)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestListingServiceCreate(t *testing.T) {
	repo := &mockCatalogueRepo{listing: &models.Listing{ID: "whatever"}}
	svc := newListingService(repo, true)

	listing, err := svc.Create(context.Background(), "p1", models.SaveListingRequest{
		CategoryID: 2, Title: "Deep cleaning", Description: "Full house", Price: 80,
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", listing.ProviderID)
	assert.NotEmpty(t, listing.ID)
	require.NotNil(t, repo.created)
}

func TestListingServiceCreateWithoutProfile(t *testing.T) {
	svc := newListingService(&mockCatalogueRepo{}, false)

	_, err := svc.Create(context.Background(), "p1", models.SaveListingRequest{
		CategoryID: 2, Title: "Deep cleaning", Price: 80,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestListingServiceCreateInvalidPrice(t *testing.T) {
	svc := newListingService(&mockCatalogueRepo{}, true)

	_, err := svc.Create(context.Background(), "p1", models.SaveListingRequest{
		CategoryID: 2, Title: "Deep cleaning", Price: -5,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestListingServiceUpdateNotOwned(t *testing.T) {
	repo := &mockCatalogueRepo{updateErr: sql.ErrNoRows}
	svc := newListingService(repo, true)

	_, err := svc.Update(context.Background(), "p1", "l1", models.SaveListingRequest{
		CategoryID: 2, Title: "Deep cleaning", Price: 80,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestListingServiceDeleteNotOwned(t *testing.T) {
	repo := &mockCatalogueRepo{deleteErr: sql.ErrNoRows}
	svc := newListingService(repo, true)

	err := svc.Delete(context.Background(), "p1", "l1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
