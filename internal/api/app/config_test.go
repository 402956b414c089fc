package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("BOT_SHARED_SECRET", "s3cret")
	t.Setenv("BOT_SERVICE_PASSWORD", "pw")

	cfg := LoadConfig()
	require.Equal(t, "sqlite", cfg.DatabaseDriver)
	require.Equal(t, "bot_service", cfg.BotServiceUsername)
	require.Equal(t, 120*time.Second, cfg.SignatureWindow)
	require.Equal(t, 180*time.Second, cfg.ReplayTTL)
	require.Equal(t, 10*time.Minute, cfg.LinkCodeTTL)
	require.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 8080, cfg.Port)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SIGNATURE_WINDOW", "30s")
	t.Setenv("REPLAY_TTL", "not-a-duration")

	cfg := LoadConfig()
	require.Equal(t, 9000, cfg.Port)
	require.Equal(t, 30*time.Second, cfg.SignatureWindow)
	require.Equal(t, 180*time.Second, cfg.ReplayTTL)
}

func TestValidate(t *testing.T) {
	valid := Config{
		BotSharedSecret:    "s",
		BotServicePassword: "p",
		DatabaseDriver:     "sqlite",
		SignatureWindow:    time.Minute,
		ReplayTTL:          2 * time.Minute,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no secret", func(c *Config) { c.BotSharedSecret = "" }, "BOT_SHARED_SECRET"},
		{"no password", func(c *Config) { c.BotServicePassword = "" }, "BOT_SERVICE_PASSWORD"},
		{"postgres without url", func(c *Config) { c.DatabaseDriver = "postgres" }, "DATABASE_URL"},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "mysql" }, "DATABASE_DRIVER"},
		{"replay shorter than window", func(c *Config) { c.ReplayTTL = time.Second }, "REPLAY_TTL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}
