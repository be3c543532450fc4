package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Restaurant RestaurantConfig
	Booking    BookingConfig
	Notify     NotifyConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Storage    StorageConfig
	Telemetry  TelemetryConfig
}

type AppConfig struct {
	Name           string
	Port           string
	GinMode        string
	LogPath        string
	Timezone       string
	AllowedOrigin  string
	MonitorEvery   time.Duration
	OwnerEmail     string
	OwnerPassword  string
	OwnerFullName  string
	TrustedProxies []string
}

type DatabaseConfig struct {
	Driver   string
	DSN      string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
	Issuer      string
}

// RestaurantConfig is the public contact card shown on the site.
type RestaurantConfig struct {
	Name      string
	Phone     string
	WhatsApp  string
	Address   string
	ReviewURL string
}

type BookingConfig struct {
	UpcomingInclusive bool
	DedupWindow       time.Duration
}

type NotifyConfig struct {
	OneSignalAppID   string
	OneSignalAPIKey  string
	OneSignalSegment string
	OneSignalURL     string
	TelegramToken    string
	TelegramChatID   int64
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	Buffer  int
}

type StorageConfig struct {
	UploadDir string
	PublicURL string
	MaxBytes  int64
}

type TelemetryConfig struct {
	ServiceName string
	Endpoint    string
	Insecure    bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "restaurant-booking")
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("LOG_PATH", "")
	v.SetDefault("APP_TIMEZONE", "UTC")
	v.SetDefault("ALLOWED_ORIGIN", "*")
	v.SetDefault("CHANGE_MONITOR_INTERVAL", "500ms")
	v.SetDefault("OWNER_FULL_NAME", "Owner")
	v.SetDefault("TRUSTED_PROXIES", "127.0.0.1")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "restaurant")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)

	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("JWT_ISSUER", "RestaurantBooking")

	v.SetDefault("RESTAURANT_NAME", "La Bella Cucina")
	v.SetDefault("RESTAURANT_PHONE", "")
	v.SetDefault("RESTAURANT_WHATSAPP", "")
	v.SetDefault("RESTAURANT_ADDRESS", "")
	v.SetDefault("RESTAURANT_REVIEW_URL", "")

	v.SetDefault("BOOKING_UPCOMING_INCLUSIVE", false)
	v.SetDefault("BOOKING_DEDUP_WINDOW", "10m")

	v.SetDefault("ONESIGNAL_SEGMENT", "Total Subscriptions")
	v.SetDefault("ONESIGNAL_URL", "https://onesignal.com/api/v1/notifications")
	v.SetDefault("TELEGRAM_CHAT_ID", 0)

	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_CACHE_TTL", "5m")

	v.SetDefault("KAFKA_TOPIC", "restaurant.events")
	v.SetDefault("KAFKA_BUFFER", 1024)

	v.SetDefault("UPLOAD_DIR", "public/uploads")
	v.SetDefault("UPLOAD_PUBLIC_URL", "/uploads")
	v.SetDefault("UPLOAD_MAX_BYTES", 5<<20)

	v.SetDefault("OTEL_SERVICE_NAME", "restaurant-booking")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
}

// Load reads configuration from the environment. An .env file, when present,
// is expected to be loaded into the process environment beforehand.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	loc := v.GetString("APP_TIMEZONE")
	if _, err := time.LoadLocation(loc); err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:           v.GetString("APP_NAME"),
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			LogPath:        v.GetString("LOG_PATH"),
			Timezone:       loc,
			AllowedOrigin:  v.GetString("ALLOWED_ORIGIN"),
			MonitorEvery:   v.GetDuration("CHANGE_MONITOR_INTERVAL"),
			OwnerEmail:     v.GetString("OWNER_EMAIL"),
			OwnerPassword:  v.GetString("OWNER_PASSWORD"),
			OwnerFullName:  v.GetString("OWNER_FULL_NAME"),
			TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:      v.GetString("DB_DSN"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			MaxConns: v.GetInt("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
			Issuer:      v.GetString("JWT_ISSUER"),
		},
		Restaurant: RestaurantConfig{
			Name:      v.GetString("RESTAURANT_NAME"),
			Phone:     v.GetString("RESTAURANT_PHONE"),
			WhatsApp:  v.GetString("RESTAURANT_WHATSAPP"),
			Address:   v.GetString("RESTAURANT_ADDRESS"),
			ReviewURL: v.GetString("RESTAURANT_REVIEW_URL"),
		},
		Booking: BookingConfig{
			UpcomingInclusive: v.GetBool("BOOKING_UPCOMING_INCLUSIVE"),
			DedupWindow:       v.GetDuration("BOOKING_DEDUP_WINDOW"),
		},
		Notify: NotifyConfig{
			OneSignalAppID:   v.GetString("ONESIGNAL_APP_ID"),
			OneSignalAPIKey:  v.GetString("ONESIGNAL_API_KEY"),
			OneSignalSegment: v.GetString("ONESIGNAL_SEGMENT"),
			OneSignalURL:     v.GetString("ONESIGNAL_URL"),
			TelegramToken:    v.GetString("TELEGRAM_BOT_TOKEN"),
			TelegramChatID:   v.GetInt64("TELEGRAM_CHAT_ID"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			CacheTTL: v.GetDuration("REDIS_CACHE_TTL"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
			Buffer:  v.GetInt("KAFKA_BUFFER"),
		},
		Storage: StorageConfig{
			UploadDir: v.GetString("UPLOAD_DIR"),
			PublicURL: strings.TrimRight(v.GetString("UPLOAD_PUBLIC_URL"), "/"),
			MaxBytes:  v.GetInt64("UPLOAD_MAX_BYTES"),
		},
		Telemetry: TelemetryConfig{
			ServiceName: v.GetString("OTEL_SERVICE_NAME"),
			Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Insecure:    v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
		},
	}

	return cfg, nil
}

// Location returns the restaurant timezone. Load has already validated it.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
