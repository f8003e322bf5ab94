package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"esports_notifier/internal/domain"
	"esports_notifier/internal/service"
)

// Poller defines the interface for poll cycle execution.
type Poller interface {
	RunCycle(ctx context.Context) (*domain.PollStats, error)
}

// Scheduler fires the poller on a fixed wall-clock interval. Fires are
// strictly serialized: the loop runs one cycle at a time, and a fire that
// lands while a cycle is somehow still in flight is skipped, not queued.
type Scheduler struct {
	poller       Poller
	interval     time.Duration
	cycleTimeout time.Duration
	logger       *slog.Logger
}

func NewScheduler(poller Poller, interval, cycleTimeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		poller:       poller,
		interval:     interval,
		cycleTimeout: cycleTimeout,
		logger:       logger,
	}
}

// Start runs the poll loop until ctx is cancelled. The first cycle runs
// immediately. A shutdown signal is honored between cycles: the current
// cycle always runs to completion.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runCycle(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	// detached from loop cancellation so an in-flight cycle finishes on
	// shutdown; the timeout still bounds it
	cycleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cycleTimeout)
	defer cancel()

	if _, err := s.poller.RunCycle(cycleCtx); err != nil {
		if errors.Is(err, service.ErrCycleRunning) {
			s.logger.Warn("previous cycle still running, skipping this fire")
			return
		}
		s.logger.Error("poll cycle failed", "error", err)
	}
}
