// Package app assembles the bot side of the trust channel: the signing
// HTTP client, the shared token cache and the session manager.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aussiebroadwan/tasker/internal/bot/config"
	"github.com/aussiebroadwan/tasker/pkg/apiclient"
	"github.com/aussiebroadwan/tasker/pkg/botsig"
	"github.com/aussiebroadwan/tasker/pkg/kvstore"
	"github.com/aussiebroadwan/tasker/pkg/slogx"
)

// BuildVersion is overridden at build time via ldflags.
var BuildVersion = "v0.1.0"

// Bot is a configured backend client.
type Bot struct {
	Client  *apiclient.Client
	Manager *apiclient.SessionManager
	Session *apiclient.Session
	Logger  *slog.Logger

	closeKV func() error
}

// New builds a Bot from cfg. The token cache lives in Redis when REDIS_URL is
// set, otherwise in process memory.
func New(ctx context.Context, cfg *config.Config) (*Bot, error) {
	logger := newLogger(cfg)

	var (
		kv      kvstore.Store
		closeKV func() error
	)
	if cfg.RedisURL != "" {
		r, err := kvstore.Dial(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to token cache: %w", err)
		}
		kv, closeKV = r, r.Close
	} else {
		logger.Debug("REDIS_URL not set, caching tokens in memory")
		kv = kvstore.NewMemory()
	}

	b, err := build(cfg, kv, logger)
	if err != nil {
		if closeKV != nil {
			_ = closeKV()
		}
		return nil, err
	}
	b.closeKV = closeKV
	return b, nil
}

// NewWithStore builds a Bot on an existing key-value store. Bots sharing kv
// share their tokens.
func NewWithStore(cfg *config.Config, kv kvstore.Store) (*Bot, error) {
	return build(cfg, kv, newLogger(cfg))
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "bot",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  os.Stderr,
	})
}

func build(cfg *config.Config, kv kvstore.Store, logger *slog.Logger) (*Bot, error) {
	signer, err := botsig.NewSigner([]byte(cfg.SharedSecret))
	if err != nil {
		return nil, err
	}

	client := apiclient.NewClient(cfg.APIBase, signer)
	if cfg.HTTPTimeout > 0 {
		client.HTTPClient.Timeout = cfg.HTTPTimeout
	}

	cache := apiclient.NewTokenCache(kv, cfg.CachePrefix)

	sc := apiclient.SessionConfig{
		Issuer:    client,
		Cache:     cache,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Leeway:    cfg.TokenLeeway,
		AccessTTL: cfg.AccessCacheTTL,
		Logger:    logger,
	}
	if cfg.DistributedLock {
		sc.Lease = apiclient.NewKVLease(kv, cache.LockKey(), cfg.LockTTL)
	}

	manager, err := apiclient.NewSessionManager(sc)
	if err != nil {
		return nil, err
	}

	return &Bot{
		Client:  client,
		Manager: manager,
		Session: client.Session(manager),
		Logger:  logger,
	}, nil
}

// Close releases the token cache connection.
func (b *Bot) Close() error {
	if b.closeKV == nil {
		return nil
	}
	return b.closeKV()
}
