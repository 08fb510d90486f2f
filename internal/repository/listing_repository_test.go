package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpora/helpora-api/internal/models"
)

func TestListListings(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewListingRepository(db)

	rows := sqlmock.NewRows([]string{"id", "provider_id", "title", "description", "price", "provider_name", "provider_location", "category_name", "average_rating"}).
		AddRow("l1", "p1", "Pipe repair", "desc", 60.0, "Alice", "Rotterdam", "Plumbing", 4.5)
	mock.ExpectQuery("SELECT sl.id, sl.provider_id, sl.title").
		WithArgs("%pipe%").
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("%pipe%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	listings, total, err := repo.List(context.Background(), models.ListingFilter{Search: "pipe", Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Plumbing", listings[0].CategoryName)
	require.NotNil(t, listings[0].AverageRating)
	assert.InDelta(t, 4.5, *listings[0].AverageRating, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListListingsNoRating(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewListingRepository(db)

	rows := sqlmock.NewRows([]string{"id", "provider_id", "title", "description", "price", "provider_name", "provider_location", "category_name", "average_rating"}).
		AddRow("l1", "p1", "Pipe repair", "desc", 60.0, "Alice", "Rotterdam", "Plumbing", nil)
	mock.ExpectQuery("SELECT sl.id, sl.provider_id, sl.title").WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	listings, _, err := repo.List(context.Background(), models.ListingFilter{})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Nil(t, listings[0].AverageRating)
}

func TestFindListingByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewListingRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "provider_id", "category_id", "title", "description", "price", "created_at", "updated_at", "provider_name"}).
		AddRow("l1", "p1", int64(2), "Pipe repair", "desc", 60.0, now, now, "Alice")
	mock.ExpectQuery("SELECT sl.id, sl.provider_id, sl.category_id").
		WithArgs("l1").
		WillReturnRows(rows)

	listing, providerName, err := repo.FindByID(context.Background(), "l1")
	require.NoError(t, err)
	assert.Equal(t, "Pipe repair", listing.Title)
	assert.Equal(t, "Alice", providerName)
}

func TestUpdateListingNotOwned(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewListingRepository(db)

	mock.ExpectExec("UPDATE service_listings").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Listing{ID: "l1", ProviderID: "someone-else"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDeleteListing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewListingRepository(db)

	mock.ExpectExec("DELETE FROM service_listings").
		WithArgs("l1", "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "l1", "p1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
