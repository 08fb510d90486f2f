package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpora/helpora-api/internal/models"
)

func TestSaveProfile(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProviderRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO provider_profiles").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM provider_categories WHERE user_id = $1")).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO provider_categories").
		WithArgs("p1", int64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO provider_categories").
		WithArgs("p1", int64(3)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.SaveProfile(context.Background(), "p1", "Alice Plumbing", "Rotterdam", []int64{1, 3})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindProfile(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProviderRepository(db)

	now := time.Now()
	profileRows := sqlmock.NewRows([]string{"user_id", "name", "location", "status", "created_at", "updated_at"}).
		AddRow("p1", "Alice Plumbing", "Rotterdam", string(models.ProviderApproved), now, now)
	mock.ExpectQuery("SELECT user_id, name, location, status").
		WithArgs("p1").
		WillReturnRows(profileRows)

	categoryRows := sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "Plumbing")
	mock.ExpectQuery("SELECT sc.id, sc.name FROM service_categories").
		WithArgs("p1").
		WillReturnRows(categoryRows)

	profile, err := repo.FindProfile(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, models.ProviderApproved, profile.Status)
	require.Len(t, profile.Categories, 1)
	assert.Equal(t, "Plumbing", profile.Categories[0].Name)
}

func TestFindProfileNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProviderRepository(db)

	mock.ExpectQuery("SELECT user_id, name, location").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestProviderUpdateStatusNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProviderRepository(db)

	mock.ExpectExec("UPDATE provider_profiles SET status").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", models.ProviderSuspended)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
