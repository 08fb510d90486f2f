package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpora/helpora-api/internal/models"
)

func TestGetAvailability(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	rows := sqlmock.NewRows([]string{"provider_id", "day_of_week", "start_time", "end_time"}).
		AddRow("p1", "Monday", "09:00", "17:00").
		AddRow("p1", "Friday", "10:00", "14:00")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT provider_id, day_of_week, start_time, end_time FROM provider_availability WHERE provider_id = $1")).
		WithArgs("p1").
		WillReturnRows(rows)

	windows, err := repo.GetAvailability(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, models.Monday, windows[0].DayOfWeek)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceAvailability(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM provider_availability WHERE provider_id = $1")).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO provider_availability").
		WithArgs("p1", models.Monday, "09:00", "17:00").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO provider_availability").
		WithArgs("p1", models.Friday, "10:00", "14:00").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.ReplaceAvailability(context.Background(), "p1", []models.AvailabilityWindow{
		{DayOfWeek: models.Monday, StartTime: "09:00", EndTime: "17:00"},
		{DayOfWeek: models.Friday, StartTime: "10:00", EndTime: "14:00"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceAvailabilityRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM provider_availability").
		WithArgs("p1").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.ReplaceAvailability(context.Background(), "p1", nil)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBookedTimes(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	at := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"booking_time"}).AddRow(at)
	mock.ExpectQuery("SELECT booking_time FROM bookings WHERE provider_id").
		WillReturnRows(rows)

	times, err := repo.ListBookedTimes(context.Background(), "p1", at.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, times, 1)
	assert.True(t, times[0].Equal(at))
}

func TestCreateBooking(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	booking := &models.Booking{
		CustomerID:  "c1",
		ProviderID:  "p1",
		ListingID:   "l1",
		BookingTime: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
	}
	err := repo.Create(context.Background(), booking)
	require.NoError(t, err)
	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, models.BookingPending, booking.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingSlotTakenProbe(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Booking{ProviderID: "p1"})
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingSlotTakenUniqueIndex(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO bookings").WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Booking{ProviderID: "p1"})
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingUpdateStatusNotOwned(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectExec("UPDATE bookings SET status").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "b1", "someone-else", models.BookingConfirmed)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListForCustomer(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	at := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "listing_id", "booking_time", "status", "service_title", "provider_name"}).
		AddRow("b1", "l1", at, string(models.BookingConfirmed), "Plumbing", "Alice")
	mock.ExpectQuery("SELECT b.id, b.listing_id, b.booking_time").
		WithArgs("c1").
		WillReturnRows(rows)

	bookings, err := repo.ListForCustomer(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "Plumbing", bookings[0].ServiceTitle)
	assert.Equal(t, "Alice", bookings[0].ProviderName)
}

func TestFindCompletedForCustomer(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectQuery("SELECT id, customer_id, provider_id").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindCompletedForCustomer(context.Background(), "b1", "c1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
