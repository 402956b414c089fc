// Package config loads the bot's settings from the environment and an
// optional .env file using Viper. Environment variables override .env.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds bot configuration.
type Config struct {
	// APIBase is the backend base URL, e.g. http://localhost:8080.
	APIBase string `mapstructure:"API_BASE"`
	// SharedSecret is the HMAC key shared with the backend.
	SharedSecret string `mapstructure:"BOT_SHARED_SECRET"`
	Username     string `mapstructure:"BOT_SERVICE_USERNAME"`
	Password     string `mapstructure:"BOT_SERVICE_PASSWORD"`

	// RedisURL selects the shared token cache. Empty keeps tokens in process memory.
	RedisURL    string `mapstructure:"REDIS_URL"`
	CachePrefix string `mapstructure:"TOKEN_CACHE_PREFIX"`

	TokenLeeway    time.Duration `mapstructure:"TOKEN_LEEWAY"`
	AccessCacheTTL time.Duration `mapstructure:"ACCESS_CACHE_TTL"`
	HTTPTimeout    time.Duration `mapstructure:"HTTP_TIMEOUT"`

	// DistributedLock serializes token renewal across bot replicas through
	// the shared cache. Only meaningful with RedisURL.
	DistributedLock bool          `mapstructure:"DISTRIBUTED_LOCK"`
	LockTTL         time.Duration `mapstructure:"LOCK_TTL"`

	Env       string `mapstructure:"APP_ENV"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

// Load reads ./.env if present, then the environment.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit .env path. A missing file is ignored.
func LoadFile(envFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()

	v.SetDefault("API_BASE", "http://localhost:8080")
	v.SetDefault("BOT_SHARED_SECRET", "")
	v.SetDefault("BOT_SERVICE_USERNAME", "bot_service")
	v.SetDefault("BOT_SERVICE_PASSWORD", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("TOKEN_CACHE_PREFIX", "jwt:bot:")
	v.SetDefault("TOKEN_LEEWAY", "30s")
	v.SetDefault("ACCESS_CACHE_TTL", "300s")
	v.SetDefault("HTTP_TIMEOUT", "5s")
	v.SetDefault("DISTRIBUTED_LOCK", false)
	v.SetDefault("LOCK_TTL", "15s")
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.APIBase == "" {
		return nil, errors.New("config: API_BASE must be set")
	}
	if cfg.SharedSecret == "" {
		return nil, errors.New("config: BOT_SHARED_SECRET must be set")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, errors.New("config: BOT_SERVICE_USERNAME and BOT_SERVICE_PASSWORD must be set")
	}
	if cfg.DistributedLock && cfg.RedisURL == "" {
		return nil, errors.New("config: DISTRIBUTED_LOCK requires REDIS_URL")
	}

	return &cfg, nil
}
