// Package jobs hosts the background jobs run by the scheduler or the
// standalone cronjob binary.
package jobs

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"earnshare-backend/internal/logger"
	"earnshare-backend/internal/service"
)

// JobRunner executes background jobs with panic recovery so a single
// bad run can never take the scheduler down with it.
type JobRunner struct {
	deposits service.DepositService
	timeout  time.Duration
}

func NewJobRunner(deposits service.DepositService) *JobRunner {
	return &JobRunner{
		deposits: deposits,
		timeout:  10 * time.Minute,
	}
}

// RenewDepositHolds runs the deposit renewal batch once.
func (r *JobRunner) RenewDepositHolds(ctx context.Context) (*service.RenewalSummary, error) {
	var summary *service.RenewalSummary
	err := r.runWithRecovery(ctx, "renew_deposit_holds", func(ctx context.Context) error {
		var err error
		summary, err = r.deposits.RenewExpiringHolds(ctx)
		return err
	})
	return summary, err
}

func (r *JobRunner) runWithRecovery(ctx context.Context, name string, fn func(context.Context) error) (err error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("job panicked", "job", name, "panic", rec, "stack", string(debug.Stack()))
			err = fmt.Errorf("job %s panicked: %v", name, rec)
		}
	}()

	started := time.Now()
	logger.Info("job started", "job", name)
	if err := fn(ctx); err != nil {
		logger.Error("job failed", "job", name, "duration", time.Since(started), "error", err)
		return err
	}
	logger.Info("job finished", "job", name, "duration", time.Since(started))
	return nil
}
