package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-booking/models"
	"github.com/yeremiapane/restaurant-booking/realtime"
	"github.com/yeremiapane/restaurant-booking/services"
	"github.com/yeremiapane/restaurant-booking/utils"
)

type BookingController struct {
	Bookings *services.BookingService
	Board    *realtime.List[models.Booking]
	Location *time.Location
	Now      func() time.Time
}

func NewBookingController(bookings *services.BookingService, board *realtime.List[models.Booking], loc *time.Location) *BookingController {
	return &BookingController{Bookings: bookings, Board: board, Location: loc, Now: time.Now}
}

// today is the calendar date of the viewer: ?tz when valid, else the restaurant zone.
func (bc *BookingController) today(c *gin.Context) string {
	return services.Today(bc.Now(), services.ResolveLocation(c.Query("tz"), bc.Location))
}

// CreatePublic handles the booking form. A resubmission inside the dedup
// window answers 200 with the first booking instead of 201.
func (bc *BookingController) CreatePublic(c *gin.Context) {
	var input services.BookingInput
	if !bindJSON(c, &input) {
		return
	}

	booking, duplicate, err := bc.Bookings.Create(c.Request.Context(), input, services.SourcePublic)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	lang := session(c).Language
	code := http.StatusCreated
	if duplicate {
		code = http.StatusOK
	}
	utils.RespondJSON(c, code, utils.T(lang, "booking_confirmed"), gin.H{
		"booking":   booking,
		"duplicate": duplicate,
		"note":      utils.T(lang, "booking_await", booking.CustomerName),
	})
}

// CreateManual lets staff enter a phone booking.
func (bc *BookingController) CreateManual(c *gin.Context) {
	var input services.BookingInput
	if !bindJSON(c, &input) {
		return
	}

	booking, _, err := bc.Bookings.Create(c.Request.Context(), input, services.SourceAdmin)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Booking created", booking)
}

func (bc *BookingController) Slots(c *gin.Context) {
	date := c.Query("date")
	if date != "" {
		if _, err := time.Parse(models.DateLayout, date); err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
			return
		}
	}
	utils.RespondJSON(c, http.StatusOK, "Booking slots", gin.H{
		"date":           date,
		"slots":          services.BookingSlots(),
		"min_party_size": services.MinPartySize,
		"max_party_size": services.MaxPartySize,
	})
}

// List is the owner dashboard: ?filter=today|upcoming|all, ?tz=Area/City.
func (bc *BookingController) List(c *gin.Context) {
	filter, err := services.ParseFilter(c.Query("filter"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	dashboard, err := bc.Bookings.Dashboard(c.Request.Context(), filter, bc.today(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bookings", dashboard)
}

func (bc *BookingController) Get(c *gin.Context) {
	booking, err := bc.Bookings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking", gin.H{
		"booking": booking,
		"actions": services.AvailableActions(booking.Status),
	})
}

// UpdateStatus writes any valid status directly.
func (bc *BookingController) UpdateStatus(c *gin.Context) {
	var input struct {
		Status models.BookingStatus `json:"status" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}

	id := c.Param("id")
	if input.Status.Valid() {
		bc.showPending(id, input.Status)
	}
	booking, err := bc.Bookings.SetStatus(c.Request.Context(), id, input.Status)
	bc.settle(id, booking, err)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	bc.respondWithStats(c, "Booking status updated", booking)
}

// ApplyAction runs a dashboard button. Actions not offered for the current status get 409.
func (bc *BookingController) ApplyAction(c *gin.Context) {
	id := c.Param("id")
	action := services.Action(c.Param("action"))
	if held, ok := bc.Board.Get(id); ok {
		if next, err := services.NextStatus(held.Status, action); err == nil {
			bc.showPending(id, next)
		}
	}
	booking, err := bc.Bookings.ApplyAction(c.Request.Context(), id, action)
	bc.settle(id, booking, err)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	bc.respondWithStats(c, "Booking status updated", booking)
}

// showPending puts the requested status on the live board while the write runs.
func (bc *BookingController) showPending(id string, status models.BookingStatus) {
	held, ok := bc.Board.Get(id)
	if !ok {
		return
	}
	held.Status = status
	bc.Board.ApplyOptimistic(held)
}

// settle drops the overlay when the write failed, otherwise replaces it with the stored row.
func (bc *BookingController) settle(id string, booking *models.Booking, err error) {
	if err != nil || booking == nil {
		bc.Board.Rollback(id)
		return
	}
	bc.Board.Upsert(*booking)
}

func (bc *BookingController) Delete(c *gin.Context) {
	if err := bc.Bookings.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking deleted", nil)
}

// Live returns the board kept current by the change monitor, with its counters.
func (bc *BookingController) Live(c *gin.Context) {
	filter, err := services.ParseFilter(c.DefaultQuery("filter", string(services.FilterAll)))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	today := bc.today(c)
	items := bc.Board.Items()
	visible := services.FilterBookings(items, filter, today, bc.Bookings.UpcomingInclusive)

	// counters follow the listed rows; Expected Today always looks at today
	stats := services.ComputeStats(visible, today)
	if filter != services.FilterToday {
		stats.ExpectedToday = services.ComputeStats(items, today).ExpectedToday
	}

	actions := make(map[string][]services.Action, len(visible))
	for _, b := range visible {
		actions[b.ID] = services.AvailableActions(b.Status)
	}
	utils.RespondJSON(c, http.StatusOK, "Live bookings", gin.H{
		"today":    today,
		"bookings": visible,
		"stats":    stats,
		"actions":  actions,
	})
}

// respondWithStats answers a status write with the fresh booking and today's counters.
func (bc *BookingController) respondWithStats(c *gin.Context, message string, booking *models.Booking) {
	data := gin.H{"booking": booking, "actions": services.AvailableActions(booking.Status)}
	dashboard, err := bc.Bookings.Dashboard(c.Request.Context(), services.FilterToday, bc.today(c))
	if err != nil {
		utils.ErrorLogger.Printf("Error recomputing stats after booking %s update: %v", booking.ID, err)
	} else {
		data["stats"] = dashboard.Stats
	}
	utils.RespondJSON(c, http.StatusOK, message, data)
}
