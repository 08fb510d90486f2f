package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsSnapshot(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(120))
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(14))
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(300))
	mock.ExpectQuery("SELECT sc.name, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"name", "booking_count"}).
			AddRow("Plumbing", 90).
			AddRow("Cleaning", 60))

	snapshot, err := repo.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120, snapshot.TotalUsers)
	assert.Equal(t, 14, snapshot.TotalProviders)
	assert.Equal(t, 300, snapshot.TotalBookings)
	require.Len(t, snapshot.TopCategories, 2)
	assert.Equal(t, "Plumbing", snapshot.TopCategories[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
