package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-booking/config"
	"github.com/yeremiapane/restaurant-booking/controllers"
	"github.com/yeremiapane/restaurant-booking/middlewares"
	"github.com/yeremiapane/restaurant-booking/models"
	"github.com/yeremiapane/restaurant-booking/realtime"
	"github.com/yeremiapane/restaurant-booking/services"
	"github.com/yeremiapane/restaurant-booking/storage"
	"github.com/yeremiapane/restaurant-booking/utils"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer needs. main builds it once.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Hub    *realtime.Hub
	Board  *realtime.List[models.Booking]
	Store  storage.ObjectStore

	Bookings   *services.BookingService
	Timesheets *services.TimesheetService
	Chat       *services.ChatService
	Staff      *services.StaffService
	Menu       *services.MenuService
	Reviews    *services.ReviewService
}

var imageSuffixes = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// uploadsOnlyImages forbids anything but images under the upload prefix.
func uploadsOnlyImages(prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := strings.ToLower(c.Request.URL.Path)
		if strings.HasPrefix(path, prefix+"/") {
			for _, suffix := range imageSuffixes {
				if strings.HasSuffix(path, suffix) {
					c.Next()
					return
				}
			}
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

func SetupRouter(d Deps) *gin.Engine {
	cfg := d.Config
	r := gin.New()
	r.Use(gin.Recovery())

	if err := r.SetTrustedProxies(cfg.App.TrustedProxies); err != nil {
		utils.ErrorLogger.Printf("Error setting trusted proxies: %v", err)
	}

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.App.AllowedOrigin))
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	if cfg.Storage.PublicURL != "" && strings.HasPrefix(cfg.Storage.PublicURL, "/") {
		r.Use(uploadsOnlyImages(cfg.Storage.PublicURL))
		r.Static(cfg.Storage.PublicURL, cfg.Storage.UploadDir)
	}

	loc := cfg.App.Location()

	// Inisialisasi controller
	authCtrl := controllers.NewAuthController(d.Staff)
	bookingCtrl := controllers.NewBookingController(d.Bookings, d.Board, loc)
	menuCtrl := controllers.NewMenuController(d.Menu, d.Store, cfg.Storage.MaxBytes)
	reviewCtrl := controllers.NewReviewController(d.Reviews)
	staffCtrl := controllers.NewStaffController(d.Staff)
	timesheetCtrl := controllers.NewTimesheetController(d.Timesheets, cfg.Restaurant.Name)
	chatCtrl := controllers.NewChatController(d.Chat)
	adminCtrl := controllers.NewAdminController(bookingCtrl, d.Timesheets, d.Hub, cfg.Restaurant)
	realtimeCtrl := controllers.NewRealtimeController(d.Hub, cfg.App.AllowedOrigin)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.LanguageMiddleware())
	{
		public.GET("/info", adminCtrl.RestaurantInfo)
		public.GET("/menu", menuCtrl.GetPublicMenu)
		public.GET("/book/slots", bookingCtrl.Slots)
		public.POST("/book", bookingCtrl.CreatePublic)
		public.POST("/feedback", reviewCtrl.SubmitFeedback)
	}

	// Rate limiter untuk login
	login := r.Group("/")
	login.Use(middlewares.NewStrictRateLimiter().RateLimit())
	{
		login.POST("/login", authCtrl.Login)
	}
	r.POST("/logout", middlewares.AuthMiddleware(), authCtrl.Logout)

	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware(), middlewares.RoleCheck(d.DB, utils.RoleOwner, utils.RoleStaff))
	{
		ws.GET("", realtimeCtrl.Serve)
	}

	// ----------------------------------------------------------------
	//                      STAFF ROUTES (owner may track time too)
	// ----------------------------------------------------------------
	staff := r.Group("/staff")
	staff.Use(middlewares.AuthMiddleware(), middlewares.RoleCheck(d.DB, utils.RoleStaff, utils.RoleOwner))
	{
		staff.POST("/clock-in", timesheetCtrl.ClockIn)
		staff.POST("/clock-out", timesheetCtrl.ClockOut)
		staff.GET("/shift", timesheetCtrl.CurrentShift)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES (owner and staff)
	// ----------------------------------------------------------------
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RoleCheck(d.DB, utils.RoleOwner, utils.RoleStaff))
	{
		admin.GET("", adminCtrl.GetDashboardStats)
		admin.GET("/profile", authCtrl.GetProfile)

		admin.GET("/bookings", bookingCtrl.List)
		admin.POST("/bookings", bookingCtrl.CreateManual)
		admin.GET("/bookings/live", bookingCtrl.Live)
		admin.GET("/bookings/:id", bookingCtrl.Get)
		admin.PATCH("/bookings/:id/status", bookingCtrl.UpdateStatus)
		admin.POST("/bookings/:id/actions/:action", bookingCtrl.ApplyAction)

		admin.GET("/chat/contacts", chatCtrl.Contacts)
		admin.GET("/chat/unread", chatCtrl.Unread)
		admin.GET("/chat/threads/:peer", chatCtrl.OpenThread)
		admin.POST("/chat/threads/:peer/messages", chatCtrl.Send)
	}

	// ----------------------------------------------------------------
	//                      OWNER ROUTES
	// ----------------------------------------------------------------
	owner := admin.Group("")
	owner.Use(middlewares.RoleCheck(d.DB, utils.RoleOwner))
	{
		owner.DELETE("/bookings/:id", bookingCtrl.Delete)

		owner.GET("/menu", menuCtrl.GetAllMenus)
		owner.POST("/menu", menuCtrl.CreateMenu)
		owner.POST("/menu/upload", menuCtrl.UploadImage)
		owner.GET("/menu/:id", menuCtrl.GetMenuByID)
		owner.PUT("/menu/:id", menuCtrl.UpdateMenu)
		owner.DELETE("/menu/:id", menuCtrl.DeleteMenu)

		owner.GET("/reviews", reviewCtrl.GetAllReviews)

		owner.GET("/staff", staffCtrl.GetAllStaff)
		owner.POST("/staff", staffCtrl.CreateStaff)
		owner.PATCH("/staff/:id/rate", staffCtrl.UpdateRate)
		owner.GET("/staff/:id/shifts", timesheetCtrl.StaffHistory)
		owner.POST("/staff/:id/manual-shift", timesheetCtrl.AddManualShift)

		owner.GET("/timesheets", timesheetCtrl.WeeklyPayroll)
		owner.GET("/timesheets/report.pdf", timesheetCtrl.PayrollReport)
	}

	return r
}
