// Package reconcile runs the background repair pass that keeps account-side
// bookmark caches in agreement with the authoritative item-side records.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campwire/community-core/internal/metrics"
	"github.com/robfig/cron/v3"
)

// Ledger is the subset of the bookmark usecase the sweeper drives.
type Ledger interface {
	ReconcileAll(ctx context.Context) (int, error)
}

type Sweeper struct {
	ledger   Ledger
	schedule cron.Schedule
	logger   *slog.Logger
}

func NewSweeper(ledger Ledger, cronExpr string, logger *slog.Logger) (*Sweeper, error) {
	sched, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("parse reconcile schedule %q: %w", cronExpr, err)
	}
	return &Sweeper{
		ledger:   ledger,
		schedule: sched,
		logger:   logger.With("component", "reconcile_sweeper"),
	}, nil
}

// Start blocks, running a sweep at every scheduled tick until ctx is done.
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("reconciliation sweeper started")

	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("reconciliation sweeper shut down")
			return
		case <-timer.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single full sweep.
func (s *Sweeper) RunOnce(ctx context.Context) {
	start := time.Now()
	repaired, err := s.ledger.ReconcileAll(ctx)
	metrics.ReconcileCycleDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.logger.ErrorContext(ctx, "reconciliation sweep", "error", err)
		return
	}
	if repaired > 0 {
		s.logger.InfoContext(ctx, "reconciliation repaired bookmark caches", "count", repaired)
	}
}
