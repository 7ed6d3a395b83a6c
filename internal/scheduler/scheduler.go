// Package scheduler runs verification sweeps on a periodic, jittered
// interval for daemon mode.
package scheduler

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/example/driftwatch/internal/ports/primary"
)

// jitterFraction bounds the random offset applied to the sweep interval
// so multiple instances sharing a database do not sweep in lockstep.
const jitterFraction = 0.1

// Scheduler triggers sweep runs on a ticker until stopped.
type Scheduler struct {
	sweeps   primary.SweepService
	interval time.Duration
	logger   *slog.Logger

	cancelFunc context.CancelFunc
	done       chan struct{}
}

// New creates a scheduler that runs a sweep every interval.
func New(sweeps primary.SweepService, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		sweeps:   sweeps,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// jitteredInterval returns the sweep interval with a random offset of up
// to ±10% applied.
func (s *Scheduler) jitteredInterval() time.Duration {
	maxJitter := int64(float64(s.interval) * jitterFraction)
	if maxJitter <= 0 {
		return s.interval
	}
	//nolint:gosec // G404: non-cryptographic randomness is fine for jitter
	offset := time.Duration(rand.Int64N(2*maxJitter) - maxJitter)
	return s.interval + offset
}

// Start runs the sweep loop. It performs one sweep immediately, then one
// per jittered interval, and blocks until the context is cancelled or
// Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancelFunc = cancel
	defer func() {
		close(s.done)
		s.logger.Info("sweep scheduler shut down")
	}()

	interval := s.jitteredInterval()
	s.logger.Info("sweep scheduler started",
		"base_interval", s.interval, "actual_interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.runSweep(loopCtx)

	for {
		select {
		case <-ticker.C:
			s.runSweep(loopCtx)
			ticker.Reset(s.jitteredInterval())
		case <-loopCtx.Done():
			s.logger.Info("sweep scheduler stopping")
			return nil
		}
	}
}

// Stop cancels the loop and waits for it to finish.
func (s *Scheduler) Stop() {
	if s.cancelFunc != nil {
		s.cancelFunc()
		<-s.done
	}
}

// runSweep executes one sweep cycle. A failed sweep is logged and the
// loop keeps going; the same records will still be due next tick.
func (s *Scheduler) runSweep(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	summary, err := s.sweeps.Run(ctx, primary.SweepRequest{})
	if err != nil {
		s.logger.Error("sweep failed", "error", err)
		return
	}

	if summary.Status == primary.SweepStatusNoItems {
		return
	}
	s.logger.Info("sweep finished",
		"run_id", summary.RunID,
		"total", summary.TotalItems,
		"groups", summary.Groups,
		"unkeyed", summary.Unkeyed)
}
