package models

import "time"

// ProviderStatus captures the moderation state of a provider profile.
type ProviderStatus string

const (
	ProviderPending   ProviderStatus = "Pending"
	ProviderApproved  ProviderStatus = "Approved"
	ProviderSuspended ProviderStatus = "Suspended"
)

// Valid reports whether the status is one of the closed set of values.
func (s ProviderStatus) Valid() bool {
	switch s {
	case ProviderPending, ProviderApproved, ProviderSuspended:
		return true
	}
	return false
}

// ProviderProfile is the public-facing profile a provider sets up after signup.
type ProviderProfile struct {
	UserID    string         `db:"user_id" json:"user_id"`
	Name      string         `db:"name" json:"name"`
	Location  string         `db:"location" json:"location"`
	Status    ProviderStatus `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// ProviderProfileDetail bundles a profile with its category selection.
type ProviderProfileDetail struct {
	ProviderProfile
	Categories []Category `json:"categories"`
}

// Category is a service category providers attach themselves to.
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// SaveProviderProfileRequest creates or replaces the caller's profile.
type SaveProviderProfileRequest struct {
	Name       string  `json:"name" validate:"required,min=2,max=120"`
	Location   string  `json:"location" validate:"required,min=2,max=120"`
	Categories []int64 `json:"categories" validate:"required,min=1,dive,gt=0"`
}

// ProviderSummary is the admin view of a provider account.
type ProviderSummary struct {
	ID        string         `db:"id" json:"id"`
	Email     string         `db:"email" json:"email"`
	Name      string         `db:"name" json:"name"`
	Location  string         `db:"location" json:"location"`
	Status    ProviderStatus `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
