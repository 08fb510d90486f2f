package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/helpora/helpora-api/internal/models"
)

// ReviewRepository provides database access for listing reviews.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new instance of ReviewRepository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review. Each booking may be reviewed once; the unique
// constraint on booking_id surfaces as ErrDuplicate.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	review.CreatedAt = time.Now().UTC()

	const query = `INSERT INTO reviews (id, booking_id, listing_id, customer_id, rating, comment, created_at)
		VALUES (:id, :booking_id, :listing_id, :customer_id, :rating, :comment, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, review); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// ListForListing returns the reviews for a listing, newest first.
func (r *ReviewRepository) ListForListing(ctx context.Context, listingID string) ([]models.ReviewItem, error) {
	const query = `SELECT r.rating, r.comment, r.created_at, u.email AS customer_email
		FROM reviews r
		JOIN users u ON r.customer_id = u.id
		WHERE r.listing_id = $1
		ORDER BY r.created_at DESC`
	reviews := make([]models.ReviewItem, 0)
	if err := r.db.SelectContext(ctx, &reviews, query, listingID); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
