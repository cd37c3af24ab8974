// Package scheduler drives the background jobs on cron schedules.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"earnshare-backend/internal/config"
	"earnshare-backend/internal/jobs"
	"earnshare-backend/internal/logger"
)

// Scheduler wraps a UTC cron runner. Schedules use the six-field form
// with seconds, matching the config defaults.
type Scheduler struct {
	cron   *cron.Cron
	runner *jobs.JobRunner
	cfg    config.SchedulerConfig
}

func New(runner *jobs.JobRunner, cfg config.SchedulerConfig) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC), cron.WithSeconds()),
		runner: runner,
		cfg:    cfg,
	}
}

// Start registers all jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.RenewDepositHolds, func() {
		if _, err := s.runner.RenewDepositHolds(context.Background()); err != nil {
			logger.Error("scheduled deposit renewal failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info("scheduler started", "renew_deposit_holds", s.cfg.RenewDepositHolds)
	return nil
}

// Stop stops the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("scheduler stopped")
}
