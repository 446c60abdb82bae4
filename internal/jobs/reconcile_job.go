// Package jobs provides the scheduled background tasks, built on
// github.com/robfig/cron/v3. The single job here is the reconciliation
// sweep: it releases workers stuck busy after a failed assignment and
// republishes orchestration events lost between a commit and its publish.
package jobs

import (
	"context"
	"log/slog"

	"orderflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ReconcileJob runs the reconciliation sweep on a fixed schedule.
type ReconcileJob struct {
	handler commands.ReconcileCommandHandler
	cron    *cron.Cron
	spec    string
	logger  *slog.Logger
}

// NewReconcileJob creates a job running the sweep on the given cron spec
// (with a seconds field, e.g. "0 * * * * *" for once a minute).
func NewReconcileJob(
	handler commands.ReconcileCommandHandler,
	spec string,
	logger *slog.Logger,
) *ReconcileJob {
	return &ReconcileJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		spec:    spec,
		logger:  logger.With("component", "reconcile_job"),
	}
}

// Start schedules the sweep.
func (j *ReconcileJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewReconcileCommand()
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "failed to build reconcile command", "error", cmdErr)
			return
		}

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "reconciliation sweep failed", "error", handleErr)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "reconcile job started", "schedule", j.spec)
	return nil
}

// Stop stops the schedule. A sweep already running finishes.
func (j *ReconcileJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "reconcile job stopped")
}
