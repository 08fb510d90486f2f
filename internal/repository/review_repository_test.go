package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpora/helpora-api/internal/models"
)

func TestCreateReview(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectExec("INSERT INTO reviews").WillReturnResult(sqlmock.NewResult(1, 1))

	review := &models.Review{BookingID: "b1", ListingID: "l1", CustomerID: "c1", Rating: 5}
	err := repo.Create(context.Background(), review)
	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReviewDuplicateBooking(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectExec("INSERT INTO reviews").WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Review{BookingID: "b1"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestListReviewsForListing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"rating", "comment", "created_at", "customer_email"}).
		AddRow(5, "great", now, "c@example.com").
		AddRow(3, "", now, "d@example.com")
	mock.ExpectQuery("SELECT r.rating, r.comment, r.created_at").
		WithArgs("l1").
		WillReturnRows(rows)

	reviews, err := repo.ListForListing(context.Background(), "l1")
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "c@example.com", reviews[0].CustomerEmail)
}
