package services

import (
	"fmt"
	"time"

	"github.com/yeremiapane/restaurant-booking/models"
	"github.com/yeremiapane/restaurant-booking/utils"
)

const RunningLabel = "Running…"

// ShiftMinutes is the whole minutes worked, truncated. ok is false while the shift runs.
func ShiftMinutes(ts models.Timesheet) (minutes int, ok bool) {
	if ts.ClockOut == nil {
		return 0, false
	}
	return int(ts.ClockOut.Sub(ts.ClockIn) / time.Minute), true
}

func SplitMinutes(total int) (hours, minutes int) {
	return total / 60, total % 60
}

func FormatMinutes(total int) string {
	h, m := SplitMinutes(total)
	return fmt.Sprintf("%dh %dm", h, m)
}

func FormatShiftDuration(ts models.Timesheet) string {
	minutes, ok := ShiftMinutes(ts)
	if !ok {
		return RunningLabel
	}
	return FormatMinutes(minutes)
}

// EstimatePay is minutes/60 * rate.
func EstimatePay(minutes int, rate float64) float64 {
	return float64(minutes) / 60 * rate
}

type WeeklySummary struct {
	UserID       string  `json:"user_id"`
	FullName     string  `json:"full_name"`
	Role         string  `json:"role"`
	Minutes      int     `json:"minutes"`
	Duration     string  `json:"duration"`
	HourlyRate   float64 `json:"hourly_rate"`
	EstimatedPay string  `json:"estimated_pay"`
	IsWorking    bool    `json:"is_working"`
}

// SummarizeWeek totals closed shifts whose clock-in falls in the ISO week of now.
// Any open shift marks the person as working and adds nothing. The current
// rate is applied to the whole week since rates are not kept per shift.
func SummarizeWeek(role models.UserRole, sheets []models.Timesheet, now time.Time, loc *time.Location) WeeklySummary {
	start := WeekStart(now, loc)
	end := start.AddDate(0, 0, 7)

	summary := WeeklySummary{
		UserID:     role.UserID,
		FullName:   role.FullName,
		Role:       role.Role,
		HourlyRate: role.Rate(),
	}
	for _, ts := range sheets {
		if ts.UserID != role.UserID {
			continue
		}
		minutes, closed := ShiftMinutes(ts)
		if !closed {
			summary.IsWorking = true
			continue
		}
		if ts.ClockIn.Before(start) || !ts.ClockIn.Before(end) {
			continue
		}
		summary.Minutes += minutes
	}

	summary.Duration = FormatMinutes(summary.Minutes)
	summary.EstimatedPay = utils.FormatAmount(EstimatePay(summary.Minutes, summary.HourlyRate))
	return summary
}
