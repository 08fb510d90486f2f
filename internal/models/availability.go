package models

import "time"

// Weekday names a day of the recurring weekly schedule. Values match the
// day_of_week column, which stores full English weekday names.
type Weekday string

const (
	Sunday    Weekday = "Sunday"
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
)

// Valid reports whether the weekday is one of the seven known names.
func (w Weekday) Valid() bool {
	switch w {
	case Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday:
		return true
	}
	return false
}

// WeekdayOf converts a time.Weekday into the stored representation.
func WeekdayOf(d time.Weekday) Weekday {
	return Weekday(d.String())
}

// AvailabilityWindow is one recurring weekly window of bookable hours.
// Times are "HH:MM" or "HH:MM:SS" strings; only the hour component is
// meaningful to the slot calculator.
type AvailabilityWindow struct {
	ProviderID string  `db:"provider_id" json:"-"`
	DayOfWeek  Weekday `db:"day_of_week" json:"day_of_week"`
	StartTime  string  `db:"start_time" json:"start_time"`
	EndTime    string  `db:"end_time" json:"end_time"`
}

// SetAvailabilityRequest replaces the provider's full weekly schedule.
type SetAvailabilityRequest struct {
	Availability []AvailabilityWindowInput `json:"availability" validate:"dive"`
}

// AvailabilityWindowInput is one window in a schedule-replace payload.
type AvailabilityWindowInput struct {
	DayOfWeek Weekday `json:"day_of_week" validate:"required,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	StartTime string  `json:"start_time" validate:"required"`
	EndTime   string  `json:"end_time" validate:"required"`
}
