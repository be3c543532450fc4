package services

import (
	"time"

	"github.com/yeremiapane/restaurant-booking/models"
)

// Today is the calendar date in loc, formatted like booking_date.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(models.DateLayout)
}

// WeekStart is Monday 00:00 of the ISO week containing now, in loc.
func WeekStart(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	offset := (int(local.Weekday()) + 6) % 7
	y, m, d := local.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
}

// ResolveLocation reads a viewer timezone, falling back when empty or unknown.
func ResolveLocation(name string, fallback *time.Location) *time.Location {
	if name == "" {
		return fallback
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fallback
	}
	return loc
}
