package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/helpora/helpora-api/internal/models"
	"github.com/helpora/helpora-api/pkg/database"
)

// ErrSlotTaken is returned when a booking collides with an existing
// non-cancelled booking for the same provider and instant.
var ErrSlotTaken = errors.New("slot already booked")

// BookingRepository provides database access for bookings and the weekly
// availability schedule.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new instance of BookingRepository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// GetAvailability returns the stored weekly windows for a provider.
func (r *BookingRepository) GetAvailability(ctx context.Context, providerID string) ([]models.AvailabilityWindow, error) {
	const query = `SELECT provider_id, day_of_week, start_time, end_time FROM provider_availability WHERE provider_id = $1`
	windows := make([]models.AvailabilityWindow, 0)
	if err := r.db.SelectContext(ctx, &windows, query, providerID); err != nil {
		return nil, fmt.Errorf("get availability: %w", err)
	}
	return windows, nil
}

// ReplaceAvailability swaps the provider's full weekly schedule in one
// transaction so concurrent readers never observe a half-written schedule.
func (r *BookingRepository) ReplaceAvailability(ctx context.Context, providerID string, windows []models.AvailabilityWindow) error {
	return database.Transact(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM provider_availability WHERE provider_id = $1`, providerID); err != nil {
			return fmt.Errorf("clear availability: %w", err)
		}

		const insert = `INSERT INTO provider_availability (provider_id, day_of_week, start_time, end_time) VALUES ($1, $2, $3, $4)`
		for _, w := range windows {
			if _, err := tx.ExecContext(ctx, insert, providerID, w.DayOfWeek, w.StartTime, w.EndTime); err != nil {
				return fmt.Errorf("insert availability %s: %w", w.DayOfWeek, err)
			}
		}
		return nil
	})
}

// ListBookedTimes returns the instants of every non-cancelled booking for
// the provider at or after the given cutoff.
func (r *BookingRepository) ListBookedTimes(ctx context.Context, providerID string, from time.Time) ([]time.Time, error) {
	const query = `SELECT booking_time FROM bookings WHERE provider_id = $1 AND status != $2 AND booking_time >= $3`
	times := make([]time.Time, 0)
	if err := r.db.SelectContext(ctx, &times, query, providerID, models.BookingCancelled, from); err != nil {
		return nil, fmt.Errorf("list booked times: %w", err)
	}
	return times, nil
}

// Create inserts a booking inside a transaction that re-validates the
// slot is free. A partial unique index on (provider_id, booking_time)
// for non-cancelled rows backs the check under concurrency; either the
// explicit probe or the index violation surfaces as ErrSlotTaken.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	if booking.Status == "" {
		booking.Status = models.BookingPending
	}

	return database.Transact(ctx, r.db, func(tx *sqlx.Tx) error {
		const probe = `SELECT EXISTS (SELECT 1 FROM bookings WHERE provider_id = $1 AND booking_time = $2 AND status != $3)`
		var taken bool
		if err := tx.GetContext(ctx, &taken, probe, booking.ProviderID, booking.BookingTime, models.BookingCancelled); err != nil {
			return fmt.Errorf("probe booking slot: %w", err)
		}
		if taken {
			return ErrSlotTaken
		}

		const insert = `INSERT INTO bookings (id, customer_id, provider_id, listing_id, booking_time, status, created_at, updated_at)
			VALUES (:id, :customer_id, :provider_id, :listing_id, :booking_time, :status, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, insert, booking); err != nil {
			if isUniqueViolation(err) {
				return ErrSlotTaken
			}
			return fmt.Errorf("create booking: %w", err)
		}
		return nil
	})
}

// ListForCustomer returns the customer's bookings, newest first.
func (r *BookingRepository) ListForCustomer(ctx context.Context, customerID string) ([]models.CustomerBooking, error) {
	const query = `SELECT b.id, b.listing_id, b.booking_time, b.status,
		sl.title AS service_title, pp.name AS provider_name
		FROM bookings b
		JOIN service_listings sl ON b.listing_id = sl.id
		JOIN provider_profiles pp ON b.provider_id = pp.user_id
		WHERE b.customer_id = $1
		ORDER BY b.booking_time DESC`
	bookings := make([]models.CustomerBooking, 0)
	if err := r.db.SelectContext(ctx, &bookings, query, customerID); err != nil {
		return nil, fmt.Errorf("list customer bookings: %w", err)
	}
	return bookings, nil
}

// ListForProvider returns bookings against the provider, newest first.
func (r *BookingRepository) ListForProvider(ctx context.Context, providerID string) ([]models.ProviderBooking, error) {
	const query = `SELECT b.id, b.booking_time, b.status,
		sl.title AS service_title, u.email AS customer_email
		FROM bookings b
		JOIN service_listings sl ON b.listing_id = sl.id
		JOIN users u ON b.customer_id = u.id
		WHERE b.provider_id = $1
		ORDER BY b.booking_time DESC`
	bookings := make([]models.ProviderBooking, 0)
	if err := r.db.SelectContext(ctx, &bookings, query, providerID); err != nil {
		return nil, fmt.Errorf("list provider bookings: %w", err)
	}
	return bookings, nil
}

// UpdateStatus sets a booking's status. Ownership is enforced in the
// WHERE clause; zero affected rows maps to not-found.
func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID, providerID string, status models.BookingStatus) error {
	const query = `UPDATE bookings SET status = $3, updated_at = $4 WHERE id = $1 AND provider_id = $2`
	res, err := r.db.ExecContext(ctx, query, bookingID, providerID, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update booking status rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindCompletedForCustomer loads a booking only when it belongs to the
// customer and has been completed. Used to gate review creation.
func (r *BookingRepository) FindCompletedForCustomer(ctx context.Context, bookingID, customerID string) (*models.Booking, error) {
	const query = `SELECT id, customer_id, provider_id, listing_id, booking_time, status, created_at, updated_at
		FROM bookings WHERE id = $1 AND customer_id = $2 AND status = $3 LIMIT 1`
	var booking models.Booking
	if err := r.db.GetContext(ctx, &booking, query, bookingID, customerID, models.BookingCompleted); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find completed booking: %w", err)
	}
	return &booking, nil
}
