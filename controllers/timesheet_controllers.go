package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-booking/models"
	"github.com/yeremiapane/restaurant-booking/services"
	"github.com/yeremiapane/restaurant-booking/utils"
)

type TimesheetController struct {
	Timesheets *services.TimesheetService
	Restaurant string
}

func NewTimesheetController(timesheets *services.TimesheetService, restaurant string) *TimesheetController {
	return &TimesheetController{Timesheets: timesheets, Restaurant: restaurant}
}

func (tc *TimesheetController) ClockIn(c *gin.Context) {
	sheet, err := tc.Timesheets.ClockIn(c.Request.Context(), session(c).UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Clocked in", sheet)
}

func (tc *TimesheetController) ClockOut(c *gin.Context) {
	sheet, err := tc.Timesheets.ClockOut(c.Request.Context(), session(c).UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Clocked out", gin.H{
		"timesheet": sheet,
		"duration":  services.FormatShiftDuration(*sheet),
	})
}

// CurrentShift returns the running shift and the caller's own history.
func (tc *TimesheetController) CurrentShift(c *gin.Context) {
	ctx := c.Request.Context()
	userID := session(c).UserID

	current, err := tc.Timesheets.CurrentShift(ctx, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	history, err := tc.Timesheets.History(ctx, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Shift status", gin.H{
		"current":     current,
		"is_clocked":  current != nil,
		"history":     history,
		"running_tag": services.RunningLabel,
	})
}

// WeeklyPayroll is the owner's timesheet overview for the current week.
func (tc *TimesheetController) WeeklyPayroll(c *gin.Context) {
	rows, err := tc.Timesheets.WeeklyPayroll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Weekly payroll", rows)
}

func (tc *TimesheetController) StaffHistory(c *gin.Context) {
	rows, err := tc.Timesheets.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Shift history", rows)
}

func (tc *TimesheetController) AddManualShift(c *gin.Context) {
	var input services.ManualShiftInput
	if !bindJSON(c, &input) {
		return
	}
	input.UserID = c.Param("id")

	sheet, err := tc.Timesheets.AddManualShift(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Manual shift added", sheet)
}

// PayrollReport renders the weekly payroll as a PDF download.
func (tc *TimesheetController) PayrollReport(c *gin.Context) {
	var buf bytes.Buffer
	if err := tc.Timesheets.PayrollReport(c.Request.Context(), &buf, tc.Restaurant); err != nil {
		respondServiceError(c, err)
		return
	}

	week := services.WeekStart(tc.Timesheets.Now(), tc.Timesheets.Location).Format(models.DateLayout)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="payroll-%s.pdf"`, week))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
