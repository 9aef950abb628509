package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	LogLevel    string

	// CronSecret is the bearer token expected by the externally scheduled
	// expiry and payout endpoints.
	CronSecret string

	// PinGrantSecret signs the short-lived PIN grants handed to clients.
	PinGrantSecret string
	PinGrantTTL    time.Duration

	// Redirect targets for the payment gateway's return callbacks.
	PaymentSuccessURL string
	PaymentCancelURL  string

	Monime MonimeConfig

	RedisAddr string

	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
}

// MonimeConfig carries credentials for the payout gateway.
type MonimeConfig struct {
	BaseURL  string
	APIKey   string
	SpaceID  string
	Currency string
	Timeout  time.Duration

	// WebhookSecret is the bearer token the gateway presents on payout
	// status callbacks.
	WebhookSecret string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "gatherup"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		LogLevel:    getenv("LOG_LEVEL", "info"),

		CronSecret:     strings.TrimSpace(getenv("CRON_SECRET", "")),
		PinGrantSecret: strings.TrimSpace(getenv("PIN_GRANT_SECRET", "")),
		PinGrantTTL:    getenvDuration("PIN_GRANT_TTL", 15*time.Minute),

		PaymentSuccessURL: getenv("PAYMENT_SUCCESS_URL", "/tickets/confirmed"),
		PaymentCancelURL:  getenv("PAYMENT_CANCEL_URL", "/tickets/retry"),

		Monime: MonimeConfig{
			BaseURL:  getenv("MONIME_BASE_URL", "https://api.monime.io"),
			APIKey:   strings.TrimSpace(getenv("MONIME_API_KEY", "")),
			SpaceID:  strings.TrimSpace(getenv("MONIME_SPACE_ID", "")),
			Currency: getenv("MONIME_CURRENCY", "SLE"),
			Timeout:  getenvDuration("MONIME_TIMEOUT", 30*time.Second),

			WebhookSecret: strings.TrimSpace(getenv("MONIME_WEBHOOK_SECRET", "")),
		},

		RedisAddr: getenv("REDIS_ADDR", ""),

		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "gatherup"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 10),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 50),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
