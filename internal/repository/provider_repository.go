package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/helpora/helpora-api/internal/models"
	"github.com/helpora/helpora-api/pkg/database"
)

// ProviderRepository provides database access for provider profiles and
// service categories.
type ProviderRepository struct {
	db *sqlx.DB
}

// NewProviderRepository creates a new instance of ProviderRepository.
func NewProviderRepository(db *sqlx.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

// ListCategories returns all service categories ordered by name.
func (r *ProviderRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	const query = `SELECT id, name FROM service_categories ORDER BY name`
	categories := make([]models.Category, 0)
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// SaveProfile upserts the provider profile and replaces its category
// selection in a single transaction.
func (r *ProviderRepository) SaveProfile(ctx context.Context, userID, name, location string, categoryIDs []int64) error {
	return database.Transact(ctx, r.db, func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		const upsert = `INSERT INTO provider_profiles (user_id, name, location, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			ON CONFLICT (user_id) DO UPDATE SET name = EXCLUDED.name, location = EXCLUDED.location, updated_at = EXCLUDED.updated_at`
		if _, err := tx.ExecContext(ctx, upsert, userID, name, location, models.ProviderPending, now); err != nil {
			return fmt.Errorf("upsert provider profile: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM provider_categories WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("clear provider categories: %w", err)
		}

		const insert = `INSERT INTO provider_categories (user_id, category_id) VALUES ($1, $2)`
		for _, categoryID := range categoryIDs {
			if _, err := tx.ExecContext(ctx, insert, userID, categoryID); err != nil {
				return fmt.Errorf("insert provider category %d: %w", categoryID, err)
			}
		}
		return nil
	})
}

// FindProfile returns a provider profile with its categories.
func (r *ProviderRepository) FindProfile(ctx context.Context, userID string) (*models.ProviderProfileDetail, error) {
	const query = `SELECT user_id, name, location, status, created_at, updated_at FROM provider_profiles WHERE user_id = $1 LIMIT 1`
	var profile models.ProviderProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find provider profile: %w", err)
	}

	const categoriesQuery = `SELECT sc.id, sc.name FROM service_categories sc
		JOIN provider_categories pc ON pc.category_id = sc.id
		WHERE pc.user_id = $1 ORDER BY sc.name`
	categories := make([]models.Category, 0)
	if err := r.db.SelectContext(ctx, &categories, categoriesQuery, userID); err != nil {
		return nil, fmt.Errorf("find provider categories: %w", err)
	}

	return &models.ProviderProfileDetail{ProviderProfile: profile, Categories: categories}, nil
}

// Exists reports whether a provider profile exists for the given user.
func (r *ProviderRepository) Exists(ctx context.Context, userID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM provider_profiles WHERE user_id = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID); err != nil {
		return false, fmt.Errorf("check provider exists: %w", err)
	}
	return exists, nil
}

// List returns the admin view of every provider account, newest first.
func (r *ProviderRepository) List(ctx context.Context) ([]models.ProviderSummary, error) {
	const query = `SELECT u.id, u.email, pp.name, pp.location, pp.status, pp.created_at
		FROM users u
		JOIN provider_profiles pp ON pp.user_id = u.id
		WHERE u.role = $1
		ORDER BY pp.created_at DESC`
	providers := make([]models.ProviderSummary, 0)
	if err := r.db.SelectContext(ctx, &providers, query, models.RoleProvider); err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	return providers, nil
}

// UpdateStatus sets a provider's moderation status.
func (r *ProviderRepository) UpdateStatus(ctx context.Context, userID string, status models.ProviderStatus) error {
	const query = `UPDATE provider_profiles SET status = $2, updated_at = $3 WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, query, userID, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update provider status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update provider status rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
