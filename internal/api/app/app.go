package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/tasker/internal/api/http"
	"github.com/aussiebroadwan/tasker/internal/api/service"
	"github.com/aussiebroadwan/tasker/internal/api/store"
	"github.com/aussiebroadwan/tasker/internal/api/store/drivers/postgres"
	"github.com/aussiebroadwan/tasker/internal/api/store/drivers/sqlite"
	"github.com/aussiebroadwan/tasker/pkg/botsig"
	"github.com/aussiebroadwan/tasker/pkg/cryptox"
	"github.com/aussiebroadwan/tasker/pkg/jwtx"
	"github.com/aussiebroadwan/tasker/pkg/kvstore"
	"github.com/aussiebroadwan/tasker/pkg/slogx"
)

// BuildVersion is overridden at build time via ldflags.
var BuildVersion = "v0.1.0"

// Application wires the API service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	replay   kvstore.Store
	closeKV  func() error
	signer   *jwtx.Signer
	verifier *jwtx.Verifier
	botUser  string

	tokenService        *service.TokenService
	linkService         *service.LinkService
	userService         *service.UserService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application with every dependency initialized.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "tasker-api",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := cryptox.LoadPepper(cfg.PepperFile); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := app.initReplayStore(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	signer, verifier, err := InitSigningKey(cfg, app.logger)
	if err != nil {
		app.closeStores()
		return nil, err
	}
	app.signer, app.verifier = signer, verifier

	if err := app.initServices(ctx); err != nil {
		app.closeStores()
		return nil, err
	}
	if err := app.initHTTP(); err != nil {
		app.closeStores()
		return nil, err
	}

	return app, nil
}

// Handler exposes the configured router, mainly for in-process tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("api service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			app.closeStores()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down api service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.closeStores(); err != nil {
		return err
	}

	app.logger.Info("api service stopped")
	return nil
}

// Close releases the database and replay store. Use it instead of Shutdown
// when the application was never Run, e.g. when only Handler is served.
func (app *Application) Close() error {
	return app.closeStores()
}

func (app *Application) closeStores() error {
	var errs []error
	if app.closeKV != nil {
		if err := app.closeKV(); err != nil {
			app.logger.Error("error closing replay store", "error", err)
			errs = append(errs, err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// initDatabase opens the configured store and applies migrations.
func (app *Application) initDatabase(ctx context.Context) error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.DatabaseDriver {
	case "postgres":
		db, err = postgres.NewStore(ctx, app.cfg.DatabaseURL)
	default:
		db, err = sqlite.NewStore(app.cfg.DatabaseFile)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// initReplayStore connects to Redis when configured. The in-memory fallback
// only protects a single replica.
func (app *Application) initReplayStore(ctx context.Context) error {
	if app.cfg.RedisURL == "" {
		app.logger.Warn("REDIS_URL not set, replay protection is local to this process")
		app.replay = kvstore.NewMemory()
		return nil
	}

	r, err := kvstore.Dial(ctx, app.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to replay store: %w", err)
	}
	app.replay = r
	app.closeKV = r.Close
	app.logger.Info("replay store connected")
	return nil
}

func (app *Application) initServices(ctx context.Context) error {
	boot := &service.BootstrapService{Store: app.db}
	bot, err := boot.EnsureServiceUser(ctx, app.cfg.BotServiceUsername, app.cfg.BotServicePassword)
	if err != nil {
		return fmt.Errorf("failed to provision bot service account: %w", err)
	}
	app.botUser = bot.ID
	app.logger.Info("bot service account ready", "username", bot.Username, "user_id", bot.ID)

	app.tokenService = &service.TokenService{
		Store:      app.db,
		Signer:     app.signer,
		Issuer:     app.cfg.Issuer,
		AccessTTL:  app.cfg.AccessTokenTTL,
		RefreshTTL: app.cfg.RefreshTokenTTL,
	}
	app.linkService = &service.LinkService{
		Store: app.db,
		TTL:   app.cfg.LinkCodeTTL,
	}
	app.userService = &service.UserService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.LinkCodeRetention,
	)
	return nil
}

func (app *Application) initHTTP() error {
	signatures, err := botsig.NewVerifier(
		[]byte(app.cfg.BotSharedSecret),
		app.replay,
		botsig.WithWindow(app.cfg.SignatureWindow),
		botsig.WithReplayTTL(app.cfg.ReplayTTL),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize signature verifier: %w", err)
	}

	router := httpapi.NewRouter(
		app.verifier,
		signatures,
		BuildVersion,
		app.db,
		app.replay,
		app.logger,
	)

	router.BotSubject = app.botUser
	router.TokenService = app.tokenService
	router.LinkService = app.linkService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
