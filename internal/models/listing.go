package models

import "time"

// Listing represents a service offered by a provider.
type Listing struct {
	ID          string    `db:"id" json:"id"`
	ProviderID  string    `db:"provider_id" json:"provider_id"`
	CategoryID  int64     `db:"category_id" json:"category_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Price       float64   `db:"price" json:"price"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ListingSummary is the catalogue row shown to customers, joined with
// provider and category names and the average review rating.
type ListingSummary struct {
	ID               string   `db:"id" json:"id"`
	ProviderID       string   `db:"provider_id" json:"provider_id"`
	Title            string   `db:"title" json:"title"`
	Description      string   `db:"description" json:"description"`
	Price            float64  `db:"price" json:"price"`
	ProviderName     string   `db:"provider_name" json:"provider_name"`
	ProviderLocation string   `db:"provider_location" json:"provider_location"`
	CategoryName     string   `db:"category_name" json:"category_name"`
	AverageRating    *float64 `db:"average_rating" json:"average_rating"`
}

// ListingDetail is a single listing with its reviews attached.
type ListingDetail struct {
	Listing
	ProviderName string       `json:"provider_name"`
	Reviews      []ReviewItem `json:"reviews"`
}

// SaveListingRequest is the payload for creating or updating a listing.
type SaveListingRequest struct {
	CategoryID  int64   `json:"category_id" validate:"required,gt=0"`
	Title       string  `json:"title" validate:"required,min=3,max=160"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price" validate:"required,gt=0"`
}

// ListingFilter captures catalogue search criteria.
type ListingFilter struct {
	Search   string
	Category int64
	Location string
	Page     int
	PageSize int
}
