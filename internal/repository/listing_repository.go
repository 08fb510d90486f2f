package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/helpora/helpora-api/internal/models"
)

// ListingRepository provides database access for service listings.
type ListingRepository struct {
	db *sqlx.DB
}

// NewListingRepository creates a new instance of ListingRepository.
func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// List returns the customer-facing catalogue with filters applied.
func (r *ListingRepository) List(ctx context.Context, filter models.ListingFilter) ([]models.ListingSummary, int, error) {
	baseQuery := `FROM service_listings sl
		JOIN provider_profiles pp ON sl.provider_id = pp.user_id
		JOIN service_categories sc ON sl.category_id = sc.id
		WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(sl.title ILIKE $%d OR pp.name ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Category > 0 {
		conditions = append(conditions, fmt.Sprintf("sl.category_id = $%d", len(args)+1))
		args = append(args, filter.Category)
	}
	if filter.Location != "" {
		conditions = append(conditions, fmt.Sprintf("pp.location ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Location+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf(`SELECT sl.id, sl.provider_id, sl.title, sl.description, sl.price,
		pp.name AS provider_name, pp.location AS provider_location, sc.name AS category_name,
		(SELECT AVG(r.rating) FROM reviews r WHERE r.listing_id = sl.id) AS average_rating
		%s ORDER BY sl.created_at DESC LIMIT %d OFFSET %d`, baseQuery, pageSize, offset)

	listings := make([]models.ListingSummary, 0)
	if err := r.db.SelectContext(ctx, &listings, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list listings: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	return listings, total, nil
}

// FindByID returns a single listing joined with its provider name.
func (r *ListingRepository) FindByID(ctx context.Context, id string) (*models.Listing, string, error) {
	const query = `SELECT sl.id, sl.provider_id, sl.category_id, sl.title, sl.description, sl.price, sl.created_at, sl.updated_at, pp.name AS provider_name
		FROM service_listings sl
		JOIN provider_profiles pp ON sl.provider_id = pp.user_id
		WHERE sl.id = $1 LIMIT 1`
	var row struct {
		models.Listing
		ProviderName string `db:"provider_name"`
	}
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("find listing by id: %w", err)
	}
	return &row.Listing, row.ProviderName, nil
}

// ListByProvider returns every listing owned by a provider.
func (r *ListingRepository) ListByProvider(ctx context.Context, providerID string) ([]models.ListingSummary, error) {
	const query = `SELECT sl.id, sl.provider_id, sl.title, sl.description, sl.price,
		pp.name AS provider_name, pp.location AS provider_location, sc.name AS category_name,
		(SELECT AVG(r.rating) FROM reviews r WHERE r.listing_id = sl.id) AS average_rating
		FROM service_listings sl
		JOIN provider_profiles pp ON sl.provider_id = pp.user_id
		JOIN service_categories sc ON sl.category_id = sc.id
		WHERE sl.provider_id = $1
		ORDER BY sl.created_at DESC`
	listings := make([]models.ListingSummary, 0)
	if err := r.db.SelectContext(ctx, &listings, query, providerID); err != nil {
		return nil, fmt.Errorf("list provider listings: %w", err)
	}
	return listings, nil
}

// Create inserts a new listing.
func (r *ListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	const query = `INSERT INTO service_listings (id, provider_id, category_id, title, description, price, created_at, updated_at)
		VALUES (:id, :provider_id, :category_id, :title, :description, :price, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, listing); err != nil {
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

// Update modifies a listing owned by the given provider. Ownership is
// enforced in the WHERE clause; zero affected rows maps to not-found.
func (r *ListingRepository) Update(ctx context.Context, listing *models.Listing) error {
	const query = `UPDATE service_listings SET title = $3, description = $4, price = $5, category_id = $6, updated_at = $7
		WHERE id = $1 AND provider_id = $2`
	res, err := r.db.ExecContext(ctx, query, listing.ID, listing.ProviderID, listing.Title, listing.Description, listing.Price, listing.CategoryID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update listing rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a listing owned by the given provider.
func (r *ListingRepository) Delete(ctx context.Context, id, providerID string) error {
	const query = `DELETE FROM service_listings WHERE id = $1 AND provider_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, providerID)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete listing rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
