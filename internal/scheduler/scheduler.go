// Package scheduler triggers full pipeline runs on a cron cadence. Missed
// ticks are never backfilled, and a tick that fires while a run is still in
// progress is skipped: only one run may execute against the storage roots at
// a time.
package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a complete pipeline run.
type Job interface {
	Run(ctx context.Context) error
}

// Config controls scheduling cadence and the retry policy applied to a
// failed run.
type Config struct {
	CronSpec   string
	Retries    int
	RetryDelay time.Duration
}

// Scheduler owns the cron loop.
type Scheduler struct {
	job     Job
	cfg     Config
	logger  *zap.Logger
	running atomic.Bool
}

// New builds a Scheduler. The cron spec is validated eagerly so a bad
// configuration fails at startup rather than at the first tick.
func New(job Job, cfg Config, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := cron.ParseStandard(cfg.CronSpec); err != nil {
		return nil, fmt.Errorf("parse cron spec %q: %w", cfg.CronSpec, err)
	}
	return &Scheduler{job: job, cfg: cfg, logger: logger}, nil
}

// Start blocks, firing pipeline runs per the cron spec until the context
// finishes.
func (s *Scheduler) Start(ctx context.Context) error {
	c := cron.New()
	_, err := c.AddFunc(s.cfg.CronSpec, func() {
		s.RunNow(ctx)
	})
	if err != nil {
		return fmt.Errorf("register cron job: %w", err)
	}

	s.logger.Info("scheduler started", zap.String("cron", s.cfg.CronSpec))
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("scheduler stopped")
	return nil
}

// RunNow executes one pipeline run with the configured retry policy. If a
// run is already in flight the tick is skipped.
func (s *Scheduler) RunNow(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("previous run still in progress, skipping tick")
		return
	}
	defer s.running.Store(false)

	attempts := s.cfg.Retries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		err := s.job.Run(ctx)
		if err == nil {
			return
		}
		s.logger.Error("pipeline run failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err),
		)
		if attempt == attempts {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.cfg.RetryDelay):
		}
	}
}
