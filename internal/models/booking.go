package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCompleted BookingStatus = "Completed"
	BookingCancelled BookingStatus = "Cancelled"
)

// Valid reports whether the status is one of the closed set of values.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// TransitionAllowed reports whether a provider may set this status on an
// existing booking. Pending is the creation state and cannot be re-entered.
func (s BookingStatus) TransitionAllowed() bool {
	switch s {
	case BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Booking is a reservation of a provider at a specific instant.
type Booking struct {
	ID          string        `db:"id" json:"id"`
	CustomerID  string        `db:"customer_id" json:"customer_id"`
	ProviderID  string        `db:"provider_id" json:"provider_id"`
	ListingID   string        `db:"listing_id" json:"listing_id"`
	BookingTime time.Time     `db:"booking_time" json:"booking_time"`
	Status      BookingStatus `db:"status" json:"status"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// CreateBookingRequest reserves a slot on a listing.
type CreateBookingRequest struct {
	ProviderID  string    `json:"provider_id" validate:"required"`
	ListingID   string    `json:"listing_id" validate:"required"`
	BookingTime time.Time `json:"booking_time" validate:"required"`
}

// UpdateBookingStatusRequest moves a booking to a new lifecycle state.
type UpdateBookingStatusRequest struct {
	Status BookingStatus `json:"status" validate:"required"`
}

// CustomerBooking is the customer's view of their bookings.
type CustomerBooking struct {
	ID           string        `db:"id" json:"id"`
	ListingID    string        `db:"listing_id" json:"listing_id"`
	BookingTime  time.Time     `db:"booking_time" json:"booking_time"`
	Status       BookingStatus `db:"status" json:"status"`
	ServiceTitle string        `db:"service_title" json:"service_title"`
	ProviderName string        `db:"provider_name" json:"provider_name"`
}

// ProviderBooking is the provider's view of bookings against them.
type ProviderBooking struct {
	ID            string        `db:"id" json:"id"`
	BookingTime   time.Time     `db:"booking_time" json:"booking_time"`
	Status        BookingStatus `db:"status" json:"status"`
	ServiceTitle  string        `db:"service_title" json:"service_title"`
	CustomerEmail string        `db:"customer_email" json:"customer_email"`
}
