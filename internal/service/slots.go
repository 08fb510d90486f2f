package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/helpora/helpora-api/internal/models"
)

// AvailableSlots computes the bookable instants for a provider over the
// next horizonDays calendar days, starting at now.
//
// Candidates are generated at the top of each hour inside the weekly
// window matching the candidate's weekday, then filtered to instants
// strictly after now that do not coincide exactly with a booked instant.
// Days without a window, or with unparseable or inverted bounds,
// contribute nothing. The result is in chronological order.
//
// The function is pure: no I/O, no clock reads, deterministic for a
// given input.
func AvailableSlots(windows []models.AvailabilityWindow, booked []time.Time, horizonDays int, now time.Time) []time.Time {
	byDay := make(map[models.Weekday]models.AvailabilityWindow, len(windows))
	for _, w := range windows {
		if _, exists := byDay[w.DayOfWeek]; !exists {
			byDay[w.DayOfWeek] = w
		}
	}

	occupied := make(map[int64]struct{}, len(booked))
	for _, b := range booked {
		occupied[b.UnixNano()] = struct{}{}
	}

	slots := make([]time.Time, 0)
	for offset := 0; offset < horizonDays; offset++ {
		day := now.AddDate(0, 0, offset)

		window, ok := byDay[models.WeekdayOf(day.Weekday())]
		if !ok {
			continue
		}

		startHour := parseHour(window.StartTime)
		endHour := parseHour(window.EndTime)
		if startHour < 0 || endHour < 0 {
			continue
		}

		// An empty or inverted window yields no iterations.
		for hour := startHour; hour < endHour; hour++ {
			candidate := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
			if !candidate.After(now) {
				continue
			}
			if _, taken := occupied[candidate.UnixNano()]; taken {
				continue
			}
			slots = append(slots, candidate)
		}
	}

	return slots
}

// parseHour extracts the hour component from a "HH:MM" or "HH:MM:SS"
// string. It returns -1 for anything that does not parse to an hour in
// [0, 23]; minutes and seconds are ignored.
func parseHour(t string) int {
	head, _, found := strings.Cut(t, ":")
	if !found {
		head = t
	}
	if head == "" {
		return -1
	}
	hour, err := strconv.Atoi(head)
	if err != nil || hour < 0 || hour > 23 {
		return -1
	}
	return hour
}
