package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/tasker/internal/api/service"
	"github.com/aussiebroadwan/tasker/pkg/botsig"
	"github.com/aussiebroadwan/tasker/pkg/jwtx"
)

type Config struct {
	Issuer         string // Issuer claim for access tokens (default: tasker-api)
	SigningKeyFile string // Optional: PEM Ed25519 key; empty generates an in-memory key per start
	PepperFile     string // Path to the password pepper (default: ./pepper)

	DatabaseDriver string // sqlite or postgres (default: sqlite)
	DatabaseFile   string // SQLite database file (default: ./tasker.db)
	DatabaseURL    string // PostgreSQL DSN, required for the postgres driver
	RedisURL       string // Optional: shared replay store; empty uses process memory

	BotSharedSecret    string // Required: HMAC key shared with the bot
	BotServiceUsername string // Service account the bot logs in as (default: bot_service)
	BotServicePassword string // Required: service account password

	AccessTokenTTL    time.Duration // default: 5m
	RefreshTokenTTL   time.Duration // default: 24h
	SignatureWindow   time.Duration // default: 120s
	ReplayTTL         time.Duration // default: 180s
	LinkCodeTTL       time.Duration // default: 10m
	LinkCodeRetention time.Duration // default: 24h

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:         getEnvOrDefault("AUTH_ISSUER", "tasker-api"),
		SigningKeyFile: os.Getenv("AUTH_SIGNING_KEY_FILE"),
		PepperFile:     getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		DatabaseDriver: getEnvOrDefault("DATABASE_DRIVER", "sqlite"),
		DatabaseFile:   getEnvOrDefault("DATABASE_FILE", "tasker.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),

		BotSharedSecret:    os.Getenv("BOT_SHARED_SECRET"),
		BotServiceUsername: getEnvOrDefault("BOT_SERVICE_USERNAME", "bot_service"),
		BotServicePassword: os.Getenv("BOT_SERVICE_PASSWORD"),

		AccessTokenTTL:    getEnvDurationOrDefault("ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL:   getEnvDurationOrDefault("REFRESH_TOKEN_TTL", service.DefaultRefreshTokenTTL),
		SignatureWindow:   getEnvDurationOrDefault("SIGNATURE_WINDOW", botsig.DefaultWindow),
		ReplayTTL:         getEnvDurationOrDefault("REPLAY_TTL", botsig.DefaultReplayTTL),
		LinkCodeTTL:       getEnvDurationOrDefault("LINK_CODE_TTL", service.DefaultLinkCodeTTL),
		LinkCodeRetention: getEnvDurationOrDefault("LINK_CODE_RETENTION", service.DefaultLinkCodeRetention),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

// Validate reports settings the service cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.BotSharedSecret == "" {
		errs = append(errs, errors.New("BOT_SHARED_SECRET is required"))
	}
	if c.BotServicePassword == "" {
		errs = append(errs, errors.New("BOT_SERVICE_PASSWORD is required"))
	}
	switch c.DatabaseDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, errors.New("DATABASE_DRIVER must be sqlite or postgres"))
	}
	if c.ReplayTTL < c.SignatureWindow {
		errs = append(errs, errors.New("REPLAY_TTL must not be shorter than SIGNATURE_WINDOW"))
	}
	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
