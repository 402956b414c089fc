package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tasker/internal/api/store"
)

const DefaultLinkCodeRetention = 24 * time.Hour

// HousekeepingService periodically deletes expired refresh tokens and old
// link codes. Link-code expiry is enforced at verification, so this only
// bounds table growth.
type HousekeepingService struct {
	Store         store.Store
	Logger        *slog.Logger
	Interval      time.Duration
	LinkRetention time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. A non-positive
// interval defaults to one hour.
func NewHousekeepingService(s store.Store, logger *slog.Logger, interval, linkRetention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if linkRetention <= 0 {
		linkRetention = DefaultLinkCodeRetention
	}
	return &HousekeepingService{
		Store:         s,
		Logger:        logger,
		Interval:      interval,
		LinkRetention: linkRetention,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
}

// Start runs cleanup now and then every Interval until Stop.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until any in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.RunOnce(context.Background(), time.Now())

	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background(), time.Now())
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce performs a single cleanup pass as of now. Each step is
// independent; a failure is logged and the next step still runs.
func (s *HousekeepingService) RunOnce(ctx context.Context, now time.Time) {
	n, err := s.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx, now)
	if err != nil {
		s.Logger.Error("failed to delete expired refresh tokens", "error", err)
	} else {
		s.Logger.Debug("deleted expired refresh tokens", "count", n)
	}

	n, err = s.Store.LinkCodes().DeleteLinkCodesBefore(ctx, now.Add(-s.LinkRetention))
	if err != nil {
		s.Logger.Error("failed to delete old link codes", "error", err)
	} else {
		s.Logger.Debug("deleted old link codes", "count", n)
	}
}
