package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-booking/services"
	"github.com/yeremiapane/restaurant-booking/utils"
)

type StaffController struct {
	Staff *services.StaffService
}

func NewStaffController(staff *services.StaffService) *StaffController {
	return &StaffController{Staff: staff}
}

// CreateStaff provisions the login identity and the staff role together.
func (sc *StaffController) CreateStaff(c *gin.Context) {
	var input services.StaffInput
	if !bindJSON(c, &input) {
		return
	}

	role, err := sc.Staff.CreateStaff(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Staff account created", role)
}

func (sc *StaffController) GetAllStaff(c *gin.Context) {
	staff, err := sc.Staff.ListStaff(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All staff", staff)
}

func (sc *StaffController) UpdateRate(c *gin.Context) {
	var input struct {
		HourlyRate *float64 `json:"hourly_rate" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}

	role, err := sc.Staff.UpdateRate(c.Request.Context(), c.Param("id"), *input.HourlyRate)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Hourly rate updated", role)
}
