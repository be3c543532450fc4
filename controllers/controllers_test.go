package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/restaurant-booking/controllers"
	"github.com/yeremiapane/restaurant-booking/database"
	"github.com/yeremiapane/restaurant-booking/middlewares"
	"github.com/yeremiapane/restaurant-booking/models"
	"github.com/yeremiapane/restaurant-booking/realtime"
	"github.com/yeremiapane/restaurant-booking/services"
	"github.com/yeremiapane/restaurant-booking/storage"
	"github.com/yeremiapane/restaurant-booking/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupTestDB menggunakan SQLite in-memory untuk testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:ctl_%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// asUser stands in for the auth middleware.
func asUser(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.SetSession(c, utils.Session{UserID: userID, Role: role, Language: utils.RequestLanguage(c)})
		c.Next()
	}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil && len(env.Data) > 0 {
		assert.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func bookingBody(size int) gin.H {
	return gin.H{
		"customer_name": "Ada",
		"phone_number":  "+33 6 12 34 56 78",
		"booking_date":  "2024-06-05",
		"booking_time":  "19:30",
		"party_size":    size,
	}
}

func bookingRouter(t *testing.T) (*gin.Engine, *services.BookingService) {
	r, svc, _ := boardRouter(t)
	return r, svc
}

// boardRouter also hands back the live board the controller reads.
func boardRouter(t *testing.T) (*gin.Engine, *services.BookingService, *realtime.List[models.Booking]) {
	db := setupTestDB(t)
	svc := services.NewBookingService(db)
	board := realtime.NewList[models.Booking]()
	ctrl := controllers.NewBookingController(svc, board, time.UTC)
	ctrl.Now = func() time.Time { return time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC) }

	r := gin.New()
	r.POST("/book", middlewares.LanguageMiddleware(), ctrl.CreatePublic)
	r.GET("/book/slots", ctrl.Slots)
	admin := r.Group("/admin", asUser("owner-1", utils.RoleOwner))
	admin.GET("/bookings", ctrl.List)
	admin.GET("/bookings/live", ctrl.Live)
	admin.POST("/bookings", ctrl.CreateManual)
	admin.GET("/bookings/:id", ctrl.Get)
	admin.PATCH("/bookings/:id/status", ctrl.UpdateStatus)
	admin.POST("/bookings/:id/actions/:action", ctrl.ApplyAction)
	admin.DELETE("/bookings/:id", ctrl.Delete)
	return r, svc, board
}

func TestPublicBookingDedupAndLanguage(t *testing.T) {
	r, _ := bookingRouter(t)

	w := doJSON(r, "POST", "/book?lang=fr", bookingBody(4))
	assert.Equal(t, http.StatusCreated, w.Code)
	var first struct {
		Booking   models.Booking `json:"booking"`
		Duplicate bool           `json:"duplicate"`
		Note      string         `json:"note"`
	}
	env := decode(t, w, &first)
	assert.Equal(t, "Réservation confirmée !", env.Message)
	assert.Contains(t, first.Note, "Ada")
	assert.Equal(t, models.BookingPending, first.Booking.Status)

	w = doJSON(r, "POST", "/book", bookingBody(4))
	assert.Equal(t, http.StatusOK, w.Code)
	var second struct {
		Booking   models.Booking `json:"booking"`
		Duplicate bool           `json:"duplicate"`
	}
	decode(t, w, &second)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.Booking.ID, second.Booking.ID)
}

func TestPublicBookingValidation(t *testing.T) {
	r, _ := bookingRouter(t)

	w := doJSON(r, "POST", "/book", bookingBody(25))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var data struct {
		Fields map[string]string `json:"fields"`
	}
	decode(t, w, &data)
	assert.Contains(t, data.Fields, "PartySize")

	body := bookingBody(2)
	body["booking_date"] = "05/06/2024"
	w = doJSON(r, "POST", "/book", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSlots(t *testing.T) {
	r, _ := bookingRouter(t)

	w := doJSON(r, "GET", "/book/slots?date=2024-06-05", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Slots []string `json:"slots"`
	}
	decode(t, w, &data)
	assert.Len(t, data.Slots, 29)
	assert.Equal(t, "10:00", data.Slots[0])
	assert.Equal(t, "00:00", data.Slots[28])

	w = doJSON(r, "GET", "/book/slots?date=tomorrow", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingStatusFlow(t *testing.T) {
	r, svc := bookingRouter(t)
	b, _, _ := svc.Create(bg(), services.BookingInput{
		CustomerName: "Ada", PhoneNumber: "1", BookingDate: "2024-06-05", BookingTime: "19:00", PartySize: 4,
	}, services.SourceAdmin)

	// seat is not offered for a pending booking
	w := doJSON(r, "POST", "/admin/bookings/"+b.ID+"/actions/seat", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, "POST", "/admin/bookings/"+b.ID+"/actions/dance", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, "POST", "/admin/bookings/"+b.ID+"/actions/confirm", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var confirmed struct {
		Booking models.Booking    `json:"booking"`
		Actions []services.Action `json:"actions"`
		Stats   services.Stats    `json:"stats"`
	}
	decode(t, w, &confirmed)
	assert.Equal(t, models.BookingConfirmed, confirmed.Booking.Status)
	assert.Equal(t, 4, confirmed.Stats.ExpectedToday)
	assert.Equal(t, []services.Action{services.ActionSeat, services.ActionNoShow, services.ActionCancel}, confirmed.Actions)

	// direct writes accept any valid status
	w = doJSON(r, "PATCH", "/admin/bookings/"+b.ID+"/status", gin.H{"status": "pending"})
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, "PATCH", "/admin/bookings/"+b.ID+"/status", gin.H{"status": "eaten"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, "POST", "/admin/bookings/missing/actions/confirm", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, "DELETE", "/admin/bookings/"+b.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, "GET", "/admin/bookings/"+b.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingListFilters(t *testing.T) {
	r, svc := bookingRouter(t)
	for _, date := range []string{"2024-06-04", "2024-06-05", "2024-06-06"} {
		svc.Create(bg(), services.BookingInput{CustomerName: "G", PhoneNumber: date, BookingDate: date, BookingTime: "19:00", PartySize: 2}, services.SourceAdmin)
	}

	cases := map[string]int{"": 1, "today": 1, "upcoming": 1, "all": 3}
	for filter, want := range cases {
		w := doJSON(r, "GET", "/admin/bookings?filter="+filter, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		var d services.Dashboard
		decode(t, w, &d)
		assert.Len(t, d.Bookings, want, "filter %q", filter)
		assert.Equal(t, "2024-06-05", d.Today)
	}

	// 12:00 UTC is already the next day in Kiritimati (UTC+14)
	w := doJSON(r, "GET", "/admin/bookings?filter=today&tz=Pacific/Kiritimati", nil)
	var d services.Dashboard
	decode(t, w, &d)
	assert.Equal(t, "2024-06-06", d.Today)

	w = doJSON(r, "GET", "/admin/bookings?filter=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeedbackBranches(t *testing.T) {
	db := setupTestDB(t)
	ctrl := controllers.NewReviewController(services.NewReviewService(db, "https://g.page/r/x"))
	r := gin.New()
	r.POST("/feedback", middlewares.LanguageMiddleware(), ctrl.SubmitFeedback)
	r.GET("/admin/reviews", ctrl.GetAllReviews)

	w := doJSON(r, "POST", "/feedback", gin.H{"rating": 5})
	assert.Equal(t, http.StatusOK, w.Code)
	var high struct {
		Branch    string `json:"branch"`
		ReviewURL string `json:"review_url"`
	}
	decode(t, w, &high)
	assert.Equal(t, "external_review", high.Branch)
	assert.Equal(t, "https://g.page/r/x", high.ReviewURL)

	w = doJSON(r, "POST", "/feedback?lang=ar", gin.H{"rating": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, utils.T(utils.LangArabic, "feedback_comment_empty"), env.Message)

	w = doJSON(r, "POST", "/feedback", gin.H{"rating": 2, "comment": "Cold soup"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, "GET", "/admin/reviews", nil)
	var reviews []models.Review
	decode(t, w, &reviews)
	assert.Len(t, reviews, 1)
}

func seedStaff(t *testing.T, db *gorm.DB, id, role, name string) {
	t.Helper()
	db.Create(&models.User{ID: id, Email: id + "@example.com", Password: "x"})
	rate := 10.0
	if err := db.Create(&models.UserRole{UserID: id, Role: role, FullName: name, HourlyRate: &rate}).Error; err != nil {
		t.Fatalf("seed role: %v", err)
	}
}

func TestClockInOutConflicts(t *testing.T) {
	db := setupTestDB(t)
	seedStaff(t, db, "sam", utils.RoleStaff, "Sam")
	ctrl := controllers.NewTimesheetController(services.NewTimesheetService(db, time.UTC), "La Bella Cucina")

	r := gin.New()
	staff := r.Group("/staff", asUser("sam", utils.RoleStaff))
	staff.POST("/clock-in", ctrl.ClockIn)
	staff.POST("/clock-out", ctrl.ClockOut)
	staff.GET("/shift", ctrl.CurrentShift)
	r.GET("/admin/timesheets/report.pdf", ctrl.PayrollReport)
	r.POST("/admin/staff/:id/manual-shift", ctrl.AddManualShift)

	assert.Equal(t, http.StatusConflict, doJSON(r, "POST", "/staff/clock-out", nil).Code)
	assert.Equal(t, http.StatusCreated, doJSON(r, "POST", "/staff/clock-in", nil).Code)
	assert.Equal(t, http.StatusConflict, doJSON(r, "POST", "/staff/clock-in", nil).Code)

	w := doJSON(r, "GET", "/staff/shift", nil)
	var shift struct {
		IsClocked bool `json:"is_clocked"`
	}
	decode(t, w, &shift)
	assert.True(t, shift.IsClocked)

	assert.Equal(t, http.StatusOK, doJSON(r, "POST", "/staff/clock-out", nil).Code)

	w = doJSON(r, "POST", "/admin/staff/sam/manual-shift", gin.H{"date": "2024-06-03", "start_time": "09:00", "end_time": "09:00"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(r, "POST", "/admin/staff/sam/manual-shift", gin.H{"date": "2024-06-03", "start_time": "09:00", "end_time": "17:00"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, "GET", "/admin/timesheets/report.pdf", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
}

func TestChatSendAndOpenThread(t *testing.T) {
	db := setupTestDB(t)
	seedStaff(t, db, "owner", utils.RoleOwner, "Olga")
	seedStaff(t, db, "sam", utils.RoleStaff, "Sam")
	ctrl := controllers.NewChatController(services.NewChatService(db))

	asSam := gin.New()
	asSam.Use(asUser("sam", utils.RoleStaff))
	asSam.POST("/chat/threads/:peer/messages", ctrl.Send)

	asOwner := gin.New()
	asOwner.Use(asUser("owner", utils.RoleOwner))
	asOwner.GET("/chat/unread", ctrl.Unread)
	asOwner.GET("/chat/threads/:peer", ctrl.OpenThread)
	asOwner.GET("/chat/contacts", ctrl.Contacts)

	assert.Equal(t, http.StatusBadRequest, doJSON(asSam, "POST", "/chat/threads/owner/messages", gin.H{"content": "  "}).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(asSam, "POST", "/chat/threads/ghost/messages", gin.H{"content": "hi"}).Code)
	assert.Equal(t, http.StatusCreated, doJSON(asSam, "POST", "/chat/threads/owner/messages", gin.H{"content": "running late"}).Code)

	var unread map[string]int
	decode(t, doJSON(asOwner, "GET", "/chat/unread", nil), &unread)
	assert.Equal(t, 1, unread["sam"])

	var view services.ThreadView
	decode(t, doJSON(asOwner, "GET", "/chat/threads/sam", nil), &view)
	assert.Equal(t, 0, view.Unread)
	assert.Len(t, view.Messages, 1)

	unread = nil
	decode(t, doJSON(asOwner, "GET", "/chat/unread", nil), &unread)
	assert.Empty(t, unread)

	var contacts []models.UserRole
	decode(t, doJSON(asOwner, "GET", "/chat/contacts", nil), &contacts)
	assert.Len(t, contacts, 1)
}

func multipartImage(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	assert.NoError(t, err)
	part.Write(content)
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestMenuCRUDAndUpload(t *testing.T) {
	db := setupTestDB(t)
	dir := t.TempDir()
	ctrl := controllers.NewMenuController(services.NewMenuService(db), storage.NewLocal(dir, "/uploads", 1<<20), 1<<20)

	r := gin.New()
	r.GET("/menu", ctrl.GetPublicMenu)
	r.POST("/admin/menu", ctrl.CreateMenu)
	r.PUT("/admin/menu/:id", ctrl.UpdateMenu)
	r.DELETE("/admin/menu/:id", ctrl.DeleteMenu)
	r.POST("/admin/menu/upload", ctrl.UploadImage)

	w := doJSON(r, "POST", "/admin/menu", gin.H{"name": "Risotto", "category": "Main", "price": 16.5})
	assert.Equal(t, http.StatusCreated, w.Code)
	var item models.MenuItem
	decode(t, w, &item)
	assert.True(t, item.IsAvailable)

	var menu services.PublicMenu
	decode(t, doJSON(r, "GET", "/menu", nil), &menu)
	assert.Equal(t, []string{"All", "Main"}, menu.Categories)

	w = doJSON(r, "PUT", "/admin/menu/"+item.ID, gin.H{"name": "Risotto", "category": "Main", "price": 17, "is_available": false})
	assert.Equal(t, http.StatusOK, w.Code)
	menu = services.PublicMenu{}
	decode(t, doJSON(r, "GET", "/menu", nil), &menu)
	assert.Empty(t, menu.Items)

	body, contentType := multipartImage(t, "image", "dish.PNG", []byte("\x89PNG fake"))
	req, _ := http.NewRequest("POST", "/admin/menu/upload", body)
	req.Header.Set("Content-Type", contentType)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	var uploaded struct {
		URL string `json:"url"`
	}
	decode(t, w, &uploaded)
	assert.True(t, strings.HasPrefix(uploaded.URL, "/uploads/menu_images/"))
	_, err := os.Stat(filepath.Join(dir, "menu_images", filepath.Base(uploaded.URL)))
	assert.NoError(t, err)

	body, contentType = multipartImage(t, "image", "notes.txt", []byte("hello"))
	req, _ = http.NewRequest("POST", "/admin/menu/upload", body)
	req.Header.Set("Content-Type", contentType)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusOK, doJSON(r, "DELETE", "/admin/menu/"+item.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, "DELETE", "/admin/menu/"+item.ID, nil).Code)
}

func TestStaffEndpoints(t *testing.T) {
	db := setupTestDB(t)
	ctrl := controllers.NewStaffController(services.NewStaffService(db))
	r := gin.New()
	r.POST("/admin/staff", ctrl.CreateStaff)
	r.GET("/admin/staff", ctrl.GetAllStaff)
	r.PATCH("/admin/staff/:id/rate", ctrl.UpdateRate)

	body := gin.H{"email": "jo@example.com", "password": "secret1", "full_name": "Jo"}
	w := doJSON(r, "POST", "/admin/staff", body)
	assert.Equal(t, http.StatusCreated, w.Code)
	var role models.UserRole
	decode(t, w, &role)

	assert.Equal(t, http.StatusConflict, doJSON(r, "POST", "/admin/staff", body).Code)

	w = doJSON(r, "PATCH", "/admin/staff/"+role.UserID+"/rate", gin.H{"hourly_rate": 12.5})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, "PATCH", "/admin/staff/"+role.UserID+"/rate", gin.H{}).Code)

	var staff []models.UserRole
	decode(t, doJSON(r, "GET", "/admin/staff", nil), &staff)
	assert.Len(t, staff, 1)
	assert.Equal(t, 12.5, staff[0].Rate())
}

func bg() context.Context { return context.Background() }

func seedBoard(t *testing.T, svc *services.BookingService, board *realtime.List[models.Booking], date, at string, size int) models.Booking {
	t.Helper()
	b := models.Booking{CustomerName: "Ada", PhoneNumber: "0612345678", BookingDate: date, BookingTime: at, PartySize: size}
	if err := svc.DB.Create(&b).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	board.Upsert(b)
	return b
}

func TestLiveBoardCountsFilteredRows(t *testing.T) {
	r, svc, board := boardRouter(t)
	today := seedBoard(t, svc, board, "2024-06-05", "19:00", 2)
	seedBoard(t, svc, board, "2024-06-07", "20:00", 6)
	svc.SetStatus(bg(), today.ID, models.BookingConfirmed)
	fresh, _ := svc.Get(bg(), today.ID)
	board.Upsert(*fresh)

	var live struct {
		Bookings []models.Booking `json:"bookings"`
		Stats    services.Stats   `json:"stats"`
	}
	w := doJSON(r, "GET", "/admin/bookings/live?filter=today", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &live)
	assert.Len(t, live.Bookings, 1)
	assert.Equal(t, len(live.Bookings), live.Stats.Total)
	assert.Equal(t, 1, live.Stats.Confirmed)
	assert.Equal(t, 0, live.Stats.Pending)
	assert.Equal(t, 2, live.Stats.ExpectedToday)

	w = doJSON(r, "GET", "/admin/bookings/live?filter=upcoming", nil)
	decode(t, w, &live)
	assert.Len(t, live.Bookings, 1)
	assert.Equal(t, 1, live.Stats.Total)
	assert.Equal(t, 1, live.Stats.Pending)
	assert.Equal(t, 2, live.Stats.ExpectedToday)
}

func TestStatusWriteFailureRestoresBoard(t *testing.T) {
	r, svc, board := boardRouter(t)
	b := seedBoard(t, svc, board, "2024-06-05", "19:00", 2)

	svc.DB.Callback().Update().Before("gorm:update").Register("fail_bookings", func(tx *gorm.DB) {
		if tx.Statement.Table == "bookings" {
			tx.AddError(fmt.Errorf("database is locked"))
		}
	})
	w := doJSON(r, "POST", "/admin/bookings/"+b.ID+"/actions/confirm", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	held, _ := board.Get(b.ID)
	assert.Equal(t, models.BookingPending, held.Status)

	w = doJSON(r, "PATCH", "/admin/bookings/"+b.ID+"/status", gin.H{"status": "seated"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	held, _ = board.Get(b.ID)
	assert.Equal(t, models.BookingPending, held.Status)

	svc.DB.Callback().Update().Remove("fail_bookings")
	w = doJSON(r, "POST", "/admin/bookings/"+b.ID+"/actions/confirm", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	held, _ = board.Get(b.ID)
	assert.Equal(t, models.BookingConfirmed, held.Status)
}
