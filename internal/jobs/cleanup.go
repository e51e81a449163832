package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/adisood/mandi/internal/repository"
)

// CartSweeperConfig tunes the expired-cart sweep.
type CartSweeperConfig struct {
	// Interval is how often the sweep runs.
	Interval time.Duration

	// Retention is how long abandoned carts are kept before deletion. Keeping
	// them for a while preserves the "recover your cart" window and basic
	// abandonment analytics.
	Retention time.Duration
}

// DefaultCartSweeperConfig returns the standard sweep policy: every 15
// minutes, 30 day retention.
func DefaultCartSweeperConfig() CartSweeperConfig {
	return CartSweeperConfig{
		Interval:  15 * time.Minute,
		Retention: 30 * 24 * time.Hour,
	}
}

// CartSweeper periodically marks expired active carts abandoned and purges
// abandoned carts past the retention window.
type CartSweeper struct {
	repo   repository.Querier
	cfg    CartSweeperConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewCartSweeper creates a sweeper. Call Run in its own goroutine.
func NewCartSweeper(repo repository.Querier, cfg CartSweeperConfig, logger *slog.Logger) *CartSweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Minute
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CartSweeper{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Run sweeps on a ticker until ctx is cancelled. One sweep runs immediately
// on startup so a restart does not delay abandonment.
func (s *CartSweeper) Run(ctx context.Context) {
	s.Sweep(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep(ctx)
		case <-ctx.Done():
			s.logger.Info("cart sweeper stopped")
			return
		}
	}
}

// Sweep runs a single abandonment-and-purge pass.
func (s *CartSweeper) Sweep(ctx context.Context) {
	now := s.now()

	abandoned, err := s.repo.MarkExpiredCartsAbandoned(ctx, now)
	if err != nil {
		s.logger.Error("failed to mark expired carts abandoned", "error", err)
	} else if abandoned > 0 {
		s.logger.Info("marked expired carts abandoned", "count", abandoned)
	}

	deleted, err := s.repo.DeleteAbandonedCartsBefore(ctx, now.Add(-s.cfg.Retention))
	if err != nil {
		s.logger.Error("failed to purge abandoned carts", "error", err)
	} else if deleted > 0 {
		s.logger.Info("purged abandoned carts", "count", deleted)
	}
}
