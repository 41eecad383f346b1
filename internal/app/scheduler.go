package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/flytau/airline-reservation/internal/sched"
)

// Scheduler runs the status reconciler on a fixed interval so statuses
// converge even when no requests arrive.  The same reconciler also runs
// per-request; both paths are idempotent so they never conflict.
type Scheduler struct {
	reconciler *sched.Reconciler
	interval   time.Duration
	logger     *zap.Logger
	stopChan   chan struct{}
}

// NewScheduler builds the background loop around the given reconciler.
func NewScheduler(reconciler *sched.Reconciler, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		reconciler: reconciler,
		interval:   interval,
		logger:     logger,
		stopChan:   make(chan struct{}),
	}
}

// Start launches the reconcile loop in its own goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("starting background reconciler", zap.Duration("interval", s.interval))
	go s.run(ctx)
}

// Stop terminates the loop.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping background reconciler")
	close(s.stopChan)
}

func (s *Scheduler) run(ctx context.Context) {
	s.reconcile(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.reconcile(ctx)
		case <-s.stopChan:
			s.logger.Info("reconcile loop stopped")
			return
		case <-ctx.Done():
			s.logger.Info("reconcile loop cancelled")
			return
		}
	}
}

func (s *Scheduler) reconcile(ctx context.Context) {
	if err := s.reconciler.Run(ctx, time.Now()); err != nil {
		s.logger.Error("background reconcile failed", zap.Error(err))
	}
}
