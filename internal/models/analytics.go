package models

import "time"

// CategoryBookings counts bookings attributed to one category.
type CategoryBookings struct {
	Name         string `db:"name" json:"name"`
	BookingCount int    `db:"booking_count" json:"booking_count"`
}

// PlatformAnalytics is the admin dashboard snapshot.
type PlatformAnalytics struct {
	TotalUsers     int                `json:"total_users"`
	TotalProviders int                `json:"total_providers"`
	TotalBookings  int                `json:"total_bookings"`
	TopCategories  []CategoryBookings `json:"top_categories"`
}

// UserSummary is the admin view of an account.
type UserSummary struct {
	ID        string     `db:"id" json:"id"`
	Email     string     `db:"email" json:"email"`
	Role      UserRole   `db:"role" json:"role"`
	Status    UserStatus `db:"status" json:"status"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// SystemMetrics aggregates runtime counters for the admin metrics endpoint.
type SystemMetrics struct {
	CacheHitRatio        float64 `json:"cache_hit_ratio"`
	RequestCount         uint64  `json:"request_count"`
	AvgRequestDurationMs float64 `json:"avg_request_duration_ms"`
	DBQueryCount         uint64  `json:"db_query_count"`
	AvgDBQueryDurationMs float64 `json:"avg_db_query_duration_ms"`
	Goroutines           int     `json:"goroutines"`
}
