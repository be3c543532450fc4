package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/restaurant-booking/models"
)

func shift(user string, in time.Time, out *time.Time) models.Timesheet {
	return models.Timesheet{UserID: user, ClockIn: in, ClockOut: out}
}

func ptr(t time.Time) *time.Time { return &t }

func TestShiftDuration(t *testing.T) {
	ts := shift("u", clock(9, 0), ptr(clock(17, 30)))

	minutes, ok := ShiftMinutes(ts)
	assert.True(t, ok)
	assert.Equal(t, 510, minutes)
	h, m := SplitMinutes(minutes)
	assert.Equal(t, minutes, h*60+m)
	assert.Equal(t, "8h 30m", FormatShiftDuration(ts))

	assert.Equal(t, RunningLabel, FormatShiftDuration(shift("u", clock(9, 0), nil)))
}

func TestShiftMinutesTruncates(t *testing.T) {
	ts := shift("u", clock(9, 0), ptr(clock(9, 0).Add(90*time.Second)))
	minutes, _ := ShiftMinutes(ts)
	assert.Equal(t, 1, minutes)
}

func TestSplitMinutesProperty(t *testing.T) {
	for total := 0; total < 2000; total += 7 {
		h, m := SplitMinutes(total)
		assert.Equal(t, total, h*60+m)
		assert.True(t, m >= 0 && m < 60)
	}
}

func TestSummarizeWeek(t *testing.T) {
	role := models.UserRole{UserID: "u", FullName: "Sam", Role: "staff", HourlyRate: rate(10)}
	now := clock(18, 0)

	s := SummarizeWeek(role, []models.Timesheet{shift("u", clock(9, 0), ptr(clock(17, 30)))}, now, time.UTC)
	assert.Equal(t, "8h 30m", s.Duration)
	assert.Equal(t, "85.00", s.EstimatedPay)
	assert.False(t, s.IsWorking)
}

func TestSummarizeWeekWindowAndOpenShifts(t *testing.T) {
	role := models.UserRole{UserID: "u", FullName: "Sam", Role: "staff", HourlyRate: rate(12.5)}
	now := clock(18, 0) // Wednesday 2024-06-05
	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	nextMonday := monday.AddDate(0, 0, 7)
	sheets := []models.Timesheet{
		shift("u", monday, ptr(monday.Add(2*time.Hour))),
		// last week and next week are ignored
		shift("u", monday.Add(-time.Minute), ptr(monday.Add(time.Hour))),
		shift("u", nextMonday, ptr(nextMonday.Add(time.Hour))),
		// running now
		shift("u", clock(17, 0), nil),
		shift("other", monday, ptr(monday.Add(5*time.Hour))),
	}

	s := SummarizeWeek(role, sheets, now, time.UTC)
	assert.Equal(t, 120, s.Minutes)
	assert.Equal(t, "2h 0m", s.Duration)
	assert.Equal(t, "25.00", s.EstimatedPay)
	assert.True(t, s.IsWorking)
}

func TestSummarizeWeekWithoutRate(t *testing.T) {
	role := models.UserRole{UserID: "u", FullName: "Sam"}
	s := SummarizeWeek(role, []models.Timesheet{shift("u", clock(9, 0), ptr(clock(10, 0)))}, clock(12, 0), time.UTC)
	assert.Equal(t, "0.00", s.EstimatedPay)
}

func TestWeekStart(t *testing.T) {
	sunday := time.Date(2024, 6, 9, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), WeekStart(sunday, time.UTC))

	monday := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, WeekStart(monday, time.UTC))
}
