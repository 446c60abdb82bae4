package jobs

import (
	"fmt"
	"log/slog"

	"orderflow/internal/core/application/usecases/commands"
)

// JobManager coordinates the scheduled jobs in the application.
type JobManager struct {
	reconcileJob *ReconcileJob
}

// NewJobManager creates a job manager wiring the reconciliation sweep to its
// schedule.
func NewJobManager(
	reconcileHandler commands.ReconcileCommandHandler,
	reconcileSchedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		reconcileJob: NewReconcileJob(reconcileHandler, reconcileSchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.reconcileJob.Start(); err != nil {
		return fmt.Errorf("failed to start reconcile job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.reconcileJob.Stop()
}
