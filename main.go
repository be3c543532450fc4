package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/restaurant-booking/cache"
	"github.com/yeremiapane/restaurant-booking/config"
	"github.com/yeremiapane/restaurant-booking/database"
	"github.com/yeremiapane/restaurant-booking/events"
	"github.com/yeremiapane/restaurant-booking/models"
	"github.com/yeremiapane/restaurant-booking/notify"
	"github.com/yeremiapane/restaurant-booking/realtime"
	"github.com/yeremiapane/restaurant-booking/router"
	"github.com/yeremiapane/restaurant-booking/services"
	"github.com/yeremiapane/restaurant-booking/storage"
	"github.com/yeremiapane/restaurant-booking/telemetry"
	"github.com/yeremiapane/restaurant-booking/utils"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func init() {
	// Load .env file di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}
	utils.InitLogger()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.App.LogPath != "" {
		utils.SetLogFile(cfg.App.LogPath)
	}
	if cfg.App.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWT.Secret == "change-me" {
		utils.ErrorLogger.Println("Warning: JWT_SECRET is not set, using the development default")
	}
	utils.InitJWT(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour, cfg.JWT.Issuer)

	shutdownTracing := telemetry.Setup(cfg.Telemetry.ServiceName, cfg.Telemetry.Endpoint, cfg.Telemetry.Insecure)

	db, err := config.InitDB(cfg.Database)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	ctx := context.Background()
	store := viewCache(ctx, cfg.Redis)
	publisher, closePublisher := eventPublisher(cfg.Kafka)
	dispatcher := notifier(cfg.Notify)
	loc := cfg.App.Location()

	staffSvc := services.NewStaffService(db)
	staffSvc.Events = publisher
	if err := staffSvc.EnsureOwner(ctx, cfg.App.OwnerEmail, cfg.App.OwnerPassword, cfg.App.OwnerFullName); err != nil {
		utils.ErrorLogger.Fatalf("Failed to create owner account: %v", err)
	}

	bookingSvc := services.NewBookingService(db)
	bookingSvc.Notifier = dispatcher
	bookingSvc.Events = publisher
	bookingSvc.Cache = store
	bookingSvc.UpcomingInclusive = cfg.Booking.UpcomingInclusive
	bookingSvc.DedupWindow = cfg.Booking.DedupWindow
	bookingSvc.CacheTTL = cfg.Redis.CacheTTL

	timesheetSvc := services.NewTimesheetService(db, loc)
	timesheetSvc.Events = publisher

	chatSvc := services.NewChatService(db)
	chatSvc.Events = publisher

	menuSvc := services.NewMenuService(db)
	menuSvc.Cache = store
	menuSvc.Events = publisher
	menuSvc.CacheTTL = cfg.Redis.CacheTTL

	reviewSvc := services.NewReviewService(db, cfg.Restaurant.ReviewURL)
	reviewSvc.Events = publisher

	hub := realtime.NewHub()
	board := realtime.NewList[models.Booking]()

	monitor := services.NewChangeMonitor(db, hub, board)
	if cfg.App.MonitorEvery > 0 {
		monitor.Interval = cfg.App.MonitorEvery
	}
	monitor.Location = loc
	if err := monitor.Seed(ctx); err != nil {
		utils.ErrorLogger.Fatalf("Failed to load live board: %v", err)
	}
	monitor.Start()

	stopCleanup := make(chan struct{})
	go cleanupLoop(board, stopCleanup)

	r := router.SetupRouter(router.Deps{
		DB:         db,
		Config:     cfg,
		Hub:        hub,
		Board:      board,
		Store:      storage.NewLocal(cfg.Storage.UploadDir, cfg.Storage.PublicURL, cfg.Storage.MaxBytes),
		Bookings:   bookingSvc,
		Timesheets: timesheetSvc,
		Chat:       chatSvc,
		Staff:      staffSvc,
		Menu:       menuSvc,
		Reviews:    reviewSvc,
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           otelhttp.NewHandler(r, cfg.Telemetry.ServiceName),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	utils.InfoLogger.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Printf("Server shutdown error: %v", err)
	}
	monitor.Stop()
	close(stopCleanup)
	dispatcher.Wait()
	closePublisher()
	if err := shutdownTracing(shutdownCtx); err != nil {
		utils.ErrorLogger.Printf("Tracing shutdown error: %v", err)
	}
}

// viewCache uses Redis when configured and reachable, the in-process cache otherwise.
func viewCache(ctx context.Context, cfg config.RedisConfig) cache.Store {
	if cfg.Addr == "" {
		return cache.NewMemory()
	}
	rdb := cache.NewRedis(cache.NewRedisClient(cfg.Addr, cfg.Password, cfg.DB))
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx); err != nil {
		utils.ErrorLogger.Printf("Redis unavailable at %s, using in-memory cache: %v", cfg.Addr, err)
		rdb.Close()
		return cache.NewMemory()
	}
	utils.InfoLogger.Printf("Using redis cache at %s", cfg.Addr)
	return rdb
}

func eventPublisher(cfg config.KafkaConfig) (events.Publisher, func()) {
	if len(cfg.Brokers) == 0 {
		return events.Noop{}, func() {}
	}
	p := events.NewKafkaPublisher(cfg.Brokers, cfg.Topic, cfg.Buffer)
	p.Start()
	utils.InfoLogger.Printf("Publishing domain events to %s", cfg.Topic)
	return p, p.Close
}

// notifier fans a new-booking alert out to every configured provider.
func notifier(cfg config.NotifyConfig) *notify.Dispatcher {
	providers := []notify.Provider{notify.LogProvider{}}
	if cfg.OneSignalAppID != "" && cfg.OneSignalAPIKey != "" {
		providers = append(providers, notify.NewOneSignal(cfg.OneSignalAppID, cfg.OneSignalAPIKey, cfg.OneSignalSegment, cfg.OneSignalURL))
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			utils.ErrorLogger.Printf("Telegram disabled: %v", err)
		} else {
			providers = append(providers, tg)
		}
	}
	return notify.NewDispatcher(10*time.Second, providers...)
}

// cleanupLoop drops expired revoked tokens and old board tombstones.
func cleanupLoop(board *realtime.List[models.Booking], stop <-chan struct{}) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			tokens := utils.CleanupBlacklist()
			tombstones := board.PruneTombstones(time.Now().Add(-time.Hour))
			if tokens > 0 || tombstones > 0 {
				utils.InfoLogger.Printf("Cleanup removed %d revoked tokens, %d tombstones", tokens, tombstones)
			}
		case <-stop:
			return
		}
	}
}
