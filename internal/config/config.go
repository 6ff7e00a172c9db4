package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	ServiceName string
	LogLevel    string
	LogFormat   string

	HTTPPort int

	DatabaseURL   string
	MigrationsDir string

	JWTSecret string
	TokenTTL  time.Duration

	RedisAddr       string
	RedisPassword   string
	VehicleCacheTTL time.Duration

	AuthRateRPS   float64
	AuthRateBurst int

	PendingBookingTTL time.Duration
	JobInterval       time.Duration

	StripeKey        string
	StripeSuccessURL string
	StripeCancelURL  string

	SendgridAPIKey    string
	SendgridFromEmail string
	SendgridFromName  string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
}

func Load() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "rentfleet"))
	cfg.LogLevel = cast.ToString(getOrReturnDefault("LOG_LEVEL", "info"))
	cfg.LogFormat = cast.ToString(getOrReturnDefault("LOG_FORMAT", "json"))

	cfg.HTTPPort = cast.ToInt(getOrReturnDefault("PORT", 8080))

	cfg.DatabaseURL = cast.ToString(getOrReturnDefault("DATABASE_URL", ""))
	cfg.MigrationsDir = cast.ToString(getOrReturnDefault("MIGRATIONS_DIR", "migrations"))

	cfg.JWTSecret = cast.ToString(getOrReturnDefault("JWT_SECRET", ""))
	cfg.TokenTTL = time.Duration(cast.ToInt(getOrReturnDefault("TOKEN_TTL_HOURS", 24))) * time.Hour

	cfg.RedisAddr = cast.ToString(getOrReturnDefault("REDIS_ADDR", ""))
	cfg.RedisPassword = cast.ToString(getOrReturnDefault("REDIS_PASSWORD", ""))
	cfg.VehicleCacheTTL = time.Duration(cast.ToInt(getOrReturnDefault("VEHICLE_CACHE_TTL_SECONDS", 60))) * time.Second

	cfg.AuthRateRPS = cast.ToFloat64(getOrReturnDefault("AUTH_RATE_RPS", 5))
	cfg.AuthRateBurst = cast.ToInt(getOrReturnDefault("AUTH_RATE_BURST", 10))

	cfg.PendingBookingTTL = time.Duration(cast.ToInt(getOrReturnDefault("PENDING_BOOKING_TTL_HOURS", 48))) * time.Hour
	cfg.JobInterval = time.Duration(cast.ToInt(getOrReturnDefault("JOB_INTERVAL_MINUTES", 5))) * time.Minute

	cfg.StripeKey = cast.ToString(getOrReturnDefault("STRIPE_SECRET_KEY", ""))
	cfg.StripeSuccessURL = cast.ToString(getOrReturnDefault("STRIPE_SUCCESS_URL", ""))
	cfg.StripeCancelURL = cast.ToString(getOrReturnDefault("STRIPE_CANCEL_URL", ""))

	cfg.SendgridAPIKey = cast.ToString(getOrReturnDefault("SENDGRID_API_KEY", ""))
	cfg.SendgridFromEmail = cast.ToString(getOrReturnDefault("SENDGRID_FROM_EMAIL", ""))
	cfg.SendgridFromName = cast.ToString(getOrReturnDefault("SENDGRID_FROM_NAME", "RentFleet"))

	cfg.TwilioAccountSID = cast.ToString(getOrReturnDefault("TWILIO_ACCOUNT_SID", ""))
	cfg.TwilioAuthToken = cast.ToString(getOrReturnDefault("TWILIO_AUTH_TOKEN", ""))
	cfg.TwilioFromNumber = cast.ToString(getOrReturnDefault("TWILIO_FROM_NUMBER", ""))

	return cfg
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
