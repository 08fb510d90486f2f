package models

import "time"

// Review is a customer's rating of a completed booking.
type Review struct {
	ID         string    `db:"id" json:"id"`
	BookingID  string    `db:"booking_id" json:"booking_id"`
	ListingID  string    `db:"listing_id" json:"listing_id"`
	CustomerID string    `db:"customer_id" json:"customer_id"`
	Rating     int       `db:"rating" json:"rating"`
	Comment    string    `db:"comment" json:"comment"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ReviewItem is the public view of a review on a listing page.
type ReviewItem struct {
	Rating        int       `db:"rating" json:"rating"`
	Comment       string    `db:"comment" json:"comment"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	CustomerEmail string    `db:"customer_email" json:"customer_email"`
}

// CreateReviewRequest is the payload for submitting a review.
type CreateReviewRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
	ListingID string `json:"listing_id" validate:"required,uuid"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}
