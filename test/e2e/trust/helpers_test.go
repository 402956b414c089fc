package trust_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	apiapp "github.com/aussiebroadwan/tasker/internal/api/app"
	botapp "github.com/aussiebroadwan/tasker/internal/bot/app"
	"github.com/aussiebroadwan/tasker/internal/bot/config"
	"github.com/aussiebroadwan/tasker/pkg/kvstore"
	"github.com/stretchr/testify/require"
)

/*
 * End-to-end tests run the real API application in-process and drive it
 * through the bot SDK, exactly as the chat bot would.
 */

const (
	sharedSecret = "e2e-shared-secret"
	botUsername  = "bot_service"
	botPassword  = "Bot-Pass-123!"
)

// api is a running backend plus counters over the traffic it served.
type api struct {
	URL      string
	logins   atomic.Int32
	refreshes atomic.Int32
}

// startAPI boots the backend on a temp SQLite database with an in-memory
// replay store.
func startAPI(t *testing.T) *api {
	t.Helper()
	return startAPIWith(t, apiConfig(t.TempDir()))
}

// apiConfig keeps every file the backend needs under dir. Instances built
// from the same dir share their database, pepper and signing key.
func apiConfig(dir string) apiapp.Config {
	return apiapp.Config{
		Issuer:               "tasker-e2e",
		SigningKeyFile:       filepath.Join(dir, "signing.pem"),
		PepperFile:           filepath.Join(dir, "pepper"),
		DatabaseDriver:       "sqlite",
		DatabaseFile:         filepath.Join(dir, "tasker.db"),
		BotSharedSecret:      sharedSecret,
		BotServiceUsername:   botUsername,
		BotServicePassword:   botPassword,
		AccessTokenTTL:       5 * time.Minute,
		RefreshTokenTTL:      time.Hour,
		SignatureWindow:      2 * time.Minute,
		ReplayTTL:            3 * time.Minute,
		LinkCodeTTL:          10 * time.Minute,
		Env:                  "test",
		LogLevel:             "error",
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
	}
}

func startAPIWith(t *testing.T, cfg apiapp.Config) *api {
	t.Helper()

	application, err := apiapp.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	a := &api{}
	handler := application.Handler()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/token":
			a.logins.Add(1)
		case r.Method == http.MethodPost && r.URL.Path == "/api/token/refresh":
			a.refreshes.Add(1)
		}
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	a.URL = srv.URL
	return a
}

func botConfig(baseURL string) *config.Config {
	return &config.Config{
		APIBase:        baseURL,
		SharedSecret:   sharedSecret,
		Username:       botUsername,
		Password:       botPassword,
		CachePrefix:    "jwt:bot:",
		TokenLeeway:    30 * time.Second,
		AccessCacheTTL: 300 * time.Second,
		HTTPTimeout:    5 * time.Second,
		LockTTL:        5 * time.Second,
		Env:            "test",
		LogLevel:       "error",
	}
}

// newBot builds a bot replica on kv. Replicas sharing kv share tokens.
func newBot(t *testing.T, cfg *config.Config, kv kvstore.Store) *botapp.Bot {
	t.Helper()
	b, err := botapp.NewWithStore(cfg, kv)
	require.NoError(t, err)
	return b
}
