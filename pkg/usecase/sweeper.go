package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/weevil-bot/weevil/pkg/domain/interfaces"
)

const (
	// DefaultSweepInterval is how often expired pending entries are evicted
	DefaultSweepInterval = 5 * time.Minute
	// DefaultRetention is how long a pending entry may stay unanswered
	DefaultRetention = 10 * time.Minute
)

// Sweeper periodically evicts abandoned confirmation prompts and link
// requests so an ignored prompt simply disappears.
type Sweeper struct {
	store    interfaces.PendingStore
	interval time.Duration
	maxAge   time.Duration
}

// NewSweeper creates a new sweeper with the given cadence and retention
func NewSweeper(store interfaces.PendingStore, interval, maxAge time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if maxAge <= 0 {
		maxAge = DefaultRetention
	}
	return &Sweeper{
		store:    store,
		interval: interval,
		maxAge:   maxAge,
	}
}

// Run sweeps on a ticker until the context is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	ctxlog.From(ctx).Info("Sweeper started",
		"interval", s.interval,
		"maxAge", s.maxAge,
	)

	for {
		select {
		case <-ctx.Done():
			ctxlog.From(ctx).Info("Sweeper stopped")
			return
		case <-ticker.C:
			confirmations, linkRequests := s.store.SweepExpired(ctx, s.maxAge)
			if confirmations > 0 || linkRequests > 0 {
				ctxlog.From(ctx).Info("Swept expired pending entries",
					"confirmations", confirmations,
					"linkRequests", linkRequests,
				)
			}
		}
	}
}
