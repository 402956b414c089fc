package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/tasker/internal/bot/config"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BOT_SHARED_SECRET", "s3cret")
	t.Setenv("BOT_SERVICE_PASSWORD", "pw")
	t.Setenv("TOKEN_LEEWAY", "10s")

	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", cfg.APIBase)
	require.Equal(t, "bot_service", cfg.Username)
	require.Equal(t, "jwt:bot:", cfg.CachePrefix)
	require.Equal(t, 10*time.Second, cfg.TokenLeeway)
	require.Equal(t, 300*time.Second, cfg.AccessCacheTTL)
	require.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	require.False(t, cfg.DistributedLock)
}

func TestLoadEnvFileWithOverride(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte(
		"API_BASE=http://api.internal:9000\n"+
			"BOT_SHARED_SECRET=from-file\n"+
			"BOT_SERVICE_PASSWORD=pw\n"+
			"REDIS_URL=redis://cache:6379/0\n"+
			"DISTRIBUTED_LOCK=true\n",
	), 0o600))
	t.Setenv("BOT_SHARED_SECRET", "from-env")

	cfg, err := config.LoadFile(file)
	require.NoError(t, err)
	require.Equal(t, "http://api.internal:9000", cfg.APIBase)
	require.Equal(t, "from-env", cfg.SharedSecret)
	require.True(t, cfg.DistributedLock)
	require.Equal(t, 15*time.Second, cfg.LockTTL)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("BOT_SERVICE_PASSWORD", "pw")

	_, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.ErrorContains(t, err, "BOT_SHARED_SECRET")
}

func TestLoadLockNeedsRedis(t *testing.T) {
	t.Setenv("BOT_SHARED_SECRET", "s3cret")
	t.Setenv("BOT_SERVICE_PASSWORD", "pw")
	t.Setenv("DISTRIBUTED_LOCK", "true")

	_, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.ErrorContains(t, err, "REDIS_URL")
}
