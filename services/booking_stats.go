package services

import (
	"fmt"

	"github.com/yeremiapane/restaurant-booking/models"
)

type Filter string

const (
	FilterToday    Filter = "today"
	FilterUpcoming Filter = "upcoming"
	FilterAll      Filter = "all"
)

func ParseFilter(raw string) (Filter, error) {
	switch Filter(raw) {
	case "":
		return FilterToday, nil
	case FilterToday, FilterUpcoming, FilterAll:
		return Filter(raw), nil
	}
	return "", fmt.Errorf("unknown filter %q", raw)
}

// Matches compares booking_date with today as calendar strings. YYYY-MM-DD
// sorts lexically, so string comparison is date comparison.
func (f Filter) Matches(date, today string, upcomingInclusive bool) bool {
	switch f {
	case FilterToday:
		return date == today
	case FilterUpcoming:
		if upcomingInclusive {
			return date >= today
		}
		return date > today
	default:
		return true
	}
}

type Stats struct {
	Total         int `json:"total"`
	Pending       int `json:"pending"`
	Confirmed     int `json:"confirmed"`
	Seated        int `json:"seated"`
	NoShow        int `json:"no_show"`
	Cancelled     int `json:"cancelled"`
	ExpectedToday int `json:"expected_today"`
}

// ComputeStats counts a snapshot. ExpectedToday sums party sizes of
// confirmed bookings dated today.
func ComputeStats(bookings []models.Booking, today string) Stats {
	var s Stats
	for _, b := range bookings {
		s.Total++
		switch b.Status {
		case models.BookingPending:
			s.Pending++
		case models.BookingConfirmed:
			s.Confirmed++
			if b.BookingDate == today {
				s.ExpectedToday += b.PartySize
			}
		case models.BookingSeated:
			s.Seated++
		case models.BookingNoShow:
			s.NoShow++
		case models.BookingCancelled:
			s.Cancelled++
		}
	}
	return s
}

// Other is every booking that is neither pending nor seated.
func (s Stats) Other() int {
	return s.Total - s.Pending - s.Seated
}

func FilterBookings(bookings []models.Booking, f Filter, today string, upcomingInclusive bool) []models.Booking {
	out := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if f.Matches(b.BookingDate, today, upcomingInclusive) {
			out = append(out, b)
		}
	}
	return out
}
