package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-booking/config"
	"github.com/yeremiapane/restaurant-booking/realtime"
	"github.com/yeremiapane/restaurant-booking/services"
	"github.com/yeremiapane/restaurant-booking/utils"
)

type AdminController struct {
	Bookings   *BookingController
	Timesheets *services.TimesheetService
	Hub        *realtime.Hub
	Restaurant config.RestaurantConfig
}

func NewAdminController(bookings *BookingController, timesheets *services.TimesheetService, hub *realtime.Hub, restaurant config.RestaurantConfig) *AdminController {
	return &AdminController{Bookings: bookings, Timesheets: timesheets, Hub: hub, Restaurant: restaurant}
}

// GetDashboardStats is the landing view of /admin: today's counters for
// everyone, plus who is on shift for the owner.
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	s := session(c)
	today := ac.Bookings.today(c)

	dashboard, err := ac.Bookings.Bookings.Dashboard(c.Request.Context(), services.FilterToday, today)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	data := gin.H{
		"today":        today,
		"stats":        dashboard.Stats,
		"live_clients": ac.Hub.Count(),
		"session_role": s.Role,
		"restaurant":   ac.Restaurant.Name,
	}

	if s.IsOwner() {
		payroll, err := ac.Timesheets.WeeklyPayroll(c.Request.Context())
		if err != nil {
			respondServiceError(c, err)
			return
		}
		var onShift []string
		for _, row := range payroll {
			if row.IsWorking {
				onShift = append(onShift, row.FullName)
			}
		}
		data["on_shift"] = onShift
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", data)
}

// RestaurantInfo is the public contact block shown on every page.
func (ac *AdminController) RestaurantInfo(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Restaurant", gin.H{
		"name":       ac.Restaurant.Name,
		"phone":      ac.Restaurant.Phone,
		"whatsapp":   ac.Restaurant.WhatsApp,
		"address":    ac.Restaurant.Address,
		"review_url": ac.Restaurant.ReviewURL,
		"languages":  []string{utils.LangEnglish, utils.LangFrench, utils.LangArabic},
	})
}
