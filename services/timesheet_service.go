package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-booking/events"
	"github.com/yeremiapane/restaurant-booking/models"
	"github.com/yeremiapane/restaurant-booking/utils"
	"gorm.io/gorm"
)

type ManualShiftInput struct {
	UserID string  `json:"-" validate:"required"`
	Date   string  `json:"date" binding:"required" validate:"required,datetime=2006-01-02"`
	Start  string  `json:"start_time" binding:"required" validate:"required,datetime=15:04"`
	End    string  `json:"end_time" binding:"required" validate:"required,datetime=15:04"`
	Notes  *string `json:"admin_notes"`
}

type ShiftRow struct {
	models.Timesheet
	Duration string `json:"duration"`
	Minutes  int    `json:"minutes"`
}

type TimesheetService struct {
	DB       *gorm.DB
	Events   events.Publisher
	Location *time.Location
	Now      func() time.Time
}

func NewTimesheetService(db *gorm.DB, loc *time.Location) *TimesheetService {
	if loc == nil {
		loc = time.UTC
	}
	return &TimesheetService{DB: db, Events: events.Noop{}, Location: loc, Now: time.Now}
}

// ClockIn opens a shift. A user with a running shift gets ErrAlreadyClockedIn.
func (s *TimesheetService) ClockIn(ctx context.Context, userID string) (*models.Timesheet, error) {
	var sheet models.Timesheet
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open int64
		if err := tx.Model(&models.Timesheet{}).
			Where("user_id = ? AND clock_out IS NULL", userID).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return ErrAlreadyClockedIn
		}
		sheet = models.Timesheet{UserID: userID, ClockIn: s.Now().UTC()}
		return tx.Create(&sheet).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{"user_id": userID, "timesheet_id": sheet.ID}).Println("Clocked in")
	s.publish(ctx, events.EventShiftStarted, userID, sheet)
	return &sheet, nil
}

// ClockOut closes the latest running shift.
func (s *TimesheetService) ClockOut(ctx context.Context, userID string) (*models.Timesheet, error) {
	current, err := s.CurrentShift(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotClockedIn
	}

	out := s.Now().UTC()
	if err := s.DB.WithContext(ctx).Model(current).Update("clock_out", out).Error; err != nil {
		return nil, err
	}
	current.ClockOut = &out

	utils.InfoLogger.WithFields(logrus.Fields{"user_id": userID, "timesheet_id": current.ID}).
		Printf("Clocked out after %s", FormatShiftDuration(*current))
	s.publish(ctx, events.EventShiftEnded, userID, current)
	return current, nil
}

// CurrentShift returns the running shift or nil.
func (s *TimesheetService) CurrentShift(ctx context.Context, userID string) (*models.Timesheet, error) {
	var sheet models.Timesheet
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND clock_out IS NULL", userID).
		Order("clock_in DESC").
		First(&sheet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sheet, nil
}

// AddManualShift records a shift entered by the owner. Times are local to
// the restaurant; an end earlier than the start runs past midnight.
func (s *TimesheetService) AddManualShift(ctx context.Context, in ManualShiftInput) (*models.Timesheet, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	if in.Start == in.End {
		return nil, fieldError("End", "Must differ from start time")
	}

	clockIn, err := time.ParseInLocation(models.DateLayout+" "+models.TimeLayout, in.Date+" "+in.Start, s.Location)
	if err != nil {
		return nil, fieldError("Start", err.Error())
	}
	clockOut, err := time.ParseInLocation(models.DateLayout+" "+models.TimeLayout, in.Date+" "+in.End, s.Location)
	if err != nil {
		return nil, fieldError("End", err.Error())
	}
	if clockOut.Before(clockIn) {
		clockOut = clockOut.AddDate(0, 0, 1)
	}

	if err := s.DB.WithContext(ctx).First(&models.UserRole{}, "user_id = ?", in.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if in.Notes != nil {
		trimmed := strings.TrimSpace(*in.Notes)
		in.Notes = &trimmed
	}
	outUTC := clockOut.UTC()
	sheet := models.Timesheet{
		UserID:     in.UserID,
		ClockIn:    clockIn.UTC(),
		ClockOut:   &outUTC,
		IsManual:   true,
		AdminNotes: in.Notes,
	}
	if err := s.DB.WithContext(ctx).Create(&sheet).Error; err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventShiftAdded, in.UserID, sheet)
	return &sheet, nil
}

// History lists one person's shifts newest first.
func (s *TimesheetService) History(ctx context.Context, userID string) ([]ShiftRow, error) {
	var sheets []models.Timesheet
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("clock_in DESC").
		Find(&sheets).Error; err != nil {
		return nil, err
	}

	rows := make([]ShiftRow, 0, len(sheets))
	for _, ts := range sheets {
		minutes, _ := ShiftMinutes(ts)
		rows = append(rows, ShiftRow{Timesheet: ts, Duration: FormatShiftDuration(ts), Minutes: minutes})
	}
	return rows, nil
}

// WeeklyPayroll summarises the current week for every staff member.
func (s *TimesheetService) WeeklyPayroll(ctx context.Context) ([]WeeklySummary, error) {
	var roles []models.UserRole
	if err := s.DB.WithContext(ctx).
		Where("role = ?", utils.RoleStaff).
		Order("full_name ASC").
		Find(&roles).Error; err != nil {
		return nil, err
	}

	now := s.Now()
	start := WeekStart(now, s.Location)
	var sheets []models.Timesheet
	if err := s.DB.WithContext(ctx).
		Where("clock_in >= ? OR clock_out IS NULL", start.UTC()).
		Find(&sheets).Error; err != nil {
		return nil, err
	}

	out := make([]WeeklySummary, 0, len(roles))
	for _, role := range roles {
		out = append(out, SummarizeWeek(role, sheets, now, s.Location))
	}
	return out, nil
}

func (s *TimesheetService) publish(ctx context.Context, eventType, key string, payload interface{}) {
	if err := s.Events.Publish(ctx, eventType, key, payload); err != nil {
		utils.ErrorLogger.Printf("Error publishing %s: %v", eventType, err)
	}
}
