package commands

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/worker"
)

// AssignmentAttempt is a claimed worker awaiting the matching order write.
// The claim and the order update are two separate commits, so a failure
// between them leaves the worker held for an order that never references it.
// Reconcile is the compensating release for that window.
type AssignmentAttempt struct {
	worker     *worker.Worker
	uowFactory WorkerUoWFactory
	logger     *slog.Logger
}

// Worker returns the claimed worker.
func (a *AssignmentAttempt) Worker() *worker.Worker {
	return a.worker
}

// Reconcile releases the claimed worker after the order write failed. The
// release is guarded on the post-claim load so a concurrent mutation is not
// clobbered. If the release itself fails, the worker stays busy until the
// periodic reconciliation job frees it; the error is logged at a level an
// operator watches.
func (a *AssignmentAttempt) Reconcile(ctx context.Context) {
	uow := a.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		a.logInconsistency(err)
		return
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	expectedLoad := a.worker.CurrentLoad()
	if err := a.worker.Release(time.Now().UTC()); err != nil {
		a.logInconsistency(err)
		return
	}

	if err := uow.WorkerRepository().UpdateIfLoad(ctx, a.worker, expectedLoad); err != nil {
		a.logInconsistency(err)
		return
	}

	if err := uow.Commit(ctx); err != nil {
		a.logInconsistency(err)
	}
}

func (a *AssignmentAttempt) logInconsistency(err error) {
	a.logger.Error("compensating release failed, worker stuck busy until reconciliation",
		slog.String("worker_id", a.worker.ID().String()),
		slog.String("user_id", a.worker.UserID().String()),
		slog.Any("error", err))
}
