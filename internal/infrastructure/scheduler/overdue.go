// Package scheduler runs the periodic overdue sweep.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookhaven/library-system/internal/api/metrics"
	"github.com/bookhaven/library-system/internal/core/ports"
)

const (
	// DefaultInterval matches the daily overdue check.
	DefaultInterval = 24 * time.Hour

	lockKey = "sweeper"
)

// OverdueScheduler runs a sweep at start and then every interval. When
// several instances share a store only the one holding the sweeper lock
// sweeps; the others skip that tick.
type OverdueScheduler struct {
	sweeper  ports.Sweeper
	locker   ports.Locker
	clock    ports.Clock
	interval time.Duration
	log      zerolog.Logger
}

func NewOverdueScheduler(sweeper ports.Sweeper, locker ports.Locker, clock ports.Clock, interval time.Duration, log zerolog.Logger) *OverdueScheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &OverdueScheduler{sweeper: sweeper, locker: locker, clock: clock, interval: interval, log: log}
}

// Run blocks until ctx is cancelled.
func (s *OverdueScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", s.interval).Msg("overdue scheduler started")
	s.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("overdue scheduler stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single guarded sweep and reports how many records
// changed. Failures are logged and counted, never returned: the next tick
// retries.
func (s *OverdueScheduler) RunOnce(ctx context.Context) int {
	unlock, ok, err := s.locker.TryLock(ctx, lockKey, s.interval/2)
	if err != nil {
		metrics.SweepRunsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Msg("acquire sweeper lock")
		return 0
	}
	if !ok {
		metrics.SweepRunsTotal.WithLabelValues("skipped").Inc()
		s.log.Debug().Msg("sweep skipped, lock held elsewhere")
		return 0
	}
	defer unlock()

	start := time.Now()
	n, err := s.sweeper.Sweep(ctx, s.clock.Now())
	metrics.SweepDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SweepRunsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Msg("overdue sweep failed")
		return 0
	}

	metrics.SweepRunsTotal.WithLabelValues("ok").Inc()
	metrics.RecordsMarkedOverdueTotal.Add(float64(n))
	return n
}
