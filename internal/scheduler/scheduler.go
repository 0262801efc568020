package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arun-gupta/api-status-dashboard/internal/monitor"
)

// CycleRunner is the trigger logic shared with the manual trigger endpoint.
type CycleRunner interface {
	RunCycle(ctx context.Context) (monitor.Cycle, error)
}

// Scheduler fires a probe cycle on a fixed interval. It shares nothing with
// the request path except the runner (and through it, the store).
type Scheduler struct {
	Logger      *zap.Logger
	Runner      CycleRunner
	Interval    time.Duration
	RunOnStart  bool
	CycleBudget time.Duration // optional upper bound on one cycle; 0 leaves probes to their own timeouts
}

func New(logger *zap.Logger, r CycleRunner, interval time.Duration, runOnStart bool) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval < 0 {
		interval = 0
	}
	return &Scheduler{
		Logger:     logger,
		Runner:     r,
		Interval:   interval,
		RunOnStart: runOnStart,
	}
}

// Run blocks until ctx is cancelled. An Interval of 0 disables scheduling.
func (s *Scheduler) Run(ctx context.Context) {
	if s.Interval == 0 {
		s.Logger.Info("scheduler_disabled")
		return
	}
	s.Logger.Info("scheduler_started", zap.Duration("interval", s.Interval), zap.Bool("run_on_start", s.RunOnStart))

	t := time.NewTicker(s.Interval)
	defer t.Stop()

	if s.RunOnStart {
		s.runOnce(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("scheduler_stopped")
			return
		case <-t.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	// The interval is not a deadline; each probe is bounded by its endpoint timeout.
	cctx := ctx
	if s.CycleBudget > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, s.CycleBudget)
		defer cancel()
	}

	c, err := s.Runner.RunCycle(cctx)
	if err != nil {
		// no retry: the next tick is the recovery path
		s.Logger.Warn("scheduled_cycle_error", zap.String("cycle_id", c.ID), zap.Error(err))
		return
	}
	s.Logger.Debug("scheduled_cycle_ok", zap.String("cycle_id", c.ID), zap.Int("results", len(c.Results)))
}
