package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adhocore/gronx"
	"go.uber.org/zap"

	domrun "github.com/kailas-cloud/feedex/internal/domain/reconcile"
)

// DefaultCron runs reconciliation every five minutes.
const DefaultCron = "*/5 * * * *"

const retryAfterBadTick = 30 * time.Second

// Runner is the part of Service the scheduler drives.
type Runner interface {
	Run(ctx context.Context) (domrun.RunResult, error)
}

// Scheduler triggers runs on a cron schedule.
type Scheduler struct {
	runner Runner
	cron   string
	logger *zap.Logger

	nextTick func(expr string, ref time.Time) (time.Time, error)
	after    func(d time.Duration) <-chan time.Time
}

// NewScheduler validates expr and returns a scheduler. An empty expr means DefaultCron.
func NewScheduler(runner Runner, expr string, logger *zap.Logger) (*Scheduler, error) {
	if expr == "" {
		expr = DefaultCron
	}
	if !gronx.IsValid(expr) {
		return nil, fmt.Errorf("invalid reconcile cron expression %q", expr)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		runner: runner,
		cron:   expr,
		logger: logger,
		nextTick: func(expr string, ref time.Time) (time.Time, error) {
			return gronx.NextTickAfter(expr, ref, false)
		},
		after: time.After,
	}, nil
}

// Cron returns the resolved cron expression.
func (s *Scheduler) Cron() string { return s.cron }

// Start runs the schedule loop until ctx is cancelled. Runs execute inline,
// so a slow run delays the next tick instead of overlapping it.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("reconcile_scheduler_started", zap.String("cron", s.cron))
	defer s.logger.Info("reconcile_scheduler_stopped")

	for ctx.Err() == nil {
		next, err := s.nextTick(s.cron, time.Now().UTC())
		wait := time.Until(next)
		if err != nil {
			s.logger.Error("reconcile_next_tick_failed", zap.String("cron", s.cron), zap.Error(err))
			wait = retryAfterBadTick
		}

		select {
		case <-ctx.Done():
			return
		case <-s.after(max(wait, 0)):
		}
		if err != nil {
			continue
		}

		if _, err := s.runner.Run(ctx); err != nil {
			switch {
			case errors.Is(err, context.Canceled):
				return
			case IsRunning(err):
				s.logger.Info("reconcile_tick_skipped", zap.String("reason", "already running"))
			default:
				// already logged by the run
			}
		}
	}
}
