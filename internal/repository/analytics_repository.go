package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/helpora/helpora-api/internal/models"
)

// AnalyticsRepository aggregates platform-wide counts for the admin
// dashboard.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository creates a new instance of AnalyticsRepository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// Snapshot gathers the platform analytics counters.
func (r *AnalyticsRepository) Snapshot(ctx context.Context) (*models.PlatformAnalytics, error) {
	var analytics models.PlatformAnalytics

	if err := r.db.GetContext(ctx, &analytics.TotalUsers, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	const providersQuery = `SELECT COUNT(*) FROM provider_profiles WHERE status = $1`
	if err := r.db.GetContext(ctx, &analytics.TotalProviders, providersQuery, models.ProviderApproved); err != nil {
		return nil, fmt.Errorf("count providers: %w", err)
	}

	if err := r.db.GetContext(ctx, &analytics.TotalBookings, `SELECT COUNT(*) FROM bookings`); err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	const topQuery = `SELECT sc.name, COUNT(b.id) AS booking_count
		FROM bookings b
		JOIN service_listings sl ON b.listing_id = sl.id
		JOIN service_categories sc ON sl.category_id = sc.id
		GROUP BY sc.name
		ORDER BY booking_count DESC
		LIMIT 5`
	analytics.TopCategories = make([]models.CategoryBookings, 0, 5)
	if err := r.db.SelectContext(ctx, &analytics.TopCategories, topQuery); err != nil {
		return nil, fmt.Errorf("top categories: %w", err)
	}

	return &analytics, nil
}
