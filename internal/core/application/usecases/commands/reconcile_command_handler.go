package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/worker"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// ReconcileCommandHandler is the periodic safety net behind the two-step
// assignment and post-commit publishing:
//
//   - a worker left busy on an order that is terminal, or that no longer
//     references it, gets released;
//   - an order sitting unassigned in CREATED or READY longer than the stale
//     window gets its orchestration event republished.
//
// Only records untouched for staleAfter are considered, so in-flight
// assignments between their two commits are never mistaken for leaks.
type ReconcileCommandHandler struct {
	uowFactory UoWFactory
	queue      ports.WorkQueue
	staleAfter time.Duration
	logger     *slog.Logger
}

// NewReconcileCommandHandler creates a handler for reconciliation sweeps.
func NewReconcileCommandHandler(
	uowFactory UoWFactory,
	queue ports.WorkQueue,
	staleAfter time.Duration,
	logger *slog.Logger,
) ReconcileCommandHandler {
	return ReconcileCommandHandler{
		uowFactory: uowFactory,
		queue:      queue,
		staleAfter: staleAfter,
		logger:     logger,
	}
}

// Handle runs one sweep. Per-record failures are logged and skipped; the next
// sweep retries them.
func (h *ReconcileCommandHandler) Handle(ctx context.Context, cmd ReconcileCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	cutoff := time.Now().UTC().Add(-h.staleAfter)

	if err := h.releaseStuckWorkers(ctx, cutoff); err != nil {
		return err
	}

	return h.republishStalledOrders(ctx, cutoff)
}

func (h *ReconcileCommandHandler) releaseStuckWorkers(ctx context.Context, cutoff time.Time) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	workerRepo := uow.WorkerRepository()
	engaged, err := workerRepo.ListEngaged(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, w := range engaged {
		if w.UpdatedAt().After(cutoff) {
			continue
		}

		stuck, err := h.isStuck(ctx, uow.OrderRepository(), w)
		if err != nil {
			h.logger.Warn("skipping worker during reconciliation",
				slog.String("worker_id", w.ID().String()),
				slog.Any("error", err))
			continue
		}
		if !stuck {
			continue
		}

		expectedLoad := w.CurrentLoad()
		if err = w.Release(now); err != nil {
			continue
		}
		if err = workerRepo.UpdateIfLoad(ctx, w, expectedLoad); err != nil {
			h.logger.Warn("failed to release stuck worker",
				slog.String("worker_id", w.ID().String()),
				slog.Any("error", err))
			continue
		}

		h.logger.Info("released stuck worker",
			slog.String("worker_id", w.ID().String()),
			slog.String("user_id", w.UserID().String()))
	}

	return uow.Commit(ctx)
}

// isStuck decides whether an engaged worker is holding capacity for an order
// that will never release it through the normal transition path.
func (h *ReconcileCommandHandler) isStuck(
	ctx context.Context, orderRepo ports.OrderRepository, w *worker.Worker,
) (bool, error) {
	if w.CurrentOrderID() == nil {
		return true, nil
	}

	o, err := orderRepo.GetForOrchestration(ctx, *w.CurrentOrderID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return true, nil
		}
		return false, err
	}

	switch o.Status() {
	case order.Delivered, order.Cancelled:
		return true, nil
	}

	// The order is live: the worker is legitimately engaged only while the
	// order is in the stage it was claimed for and still references it.
	switch w.Role() {
	case kernel.RoleCook:
		engaged := (o.Status() == order.Created || o.Status() == order.Preparing) &&
			o.IsAssignedCook(w.UserID())
		return !engaged, nil
	case kernel.RoleDriver:
		engaged := (o.Status() == order.Ready || o.Status() == order.Assigned ||
			o.Status() == order.Delivering) && o.IsAssignedDriver(w.UserID())
		return !engaged, nil
	}

	return false, nil
}

func (h *ReconcileCommandHandler) republishStalledOrders(ctx context.Context, cutoff time.Time) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	created, err := orderRepo.ListStalled(ctx, order.Created, cutoff)
	if err != nil {
		return err
	}
	for _, o := range created {
		if o.CookID() != nil {
			continue
		}
		h.republish(ctx, ports.OrderCreatedEvent, o)
	}

	ready, err := orderRepo.ListStalled(ctx, order.Ready, cutoff)
	if err != nil {
		return err
	}
	for _, o := range ready {
		if o.DriverID() != nil {
			continue
		}
		h.republish(ctx, ports.OrderReadyEvent, o)
	}

	return nil
}

func (h *ReconcileCommandHandler) republish(
	ctx context.Context, kind ports.OrderEventKind, o *order.Order,
) {
	event := ports.OrderEvent{
		Kind:     kind,
		OrderID:  o.ID(),
		TenantID: o.TenantID(),
	}
	if err := h.queue.Publish(ctx, event); err != nil {
		h.logger.Warn("failed to republish stalled order event",
			slog.String("order_id", o.ID().String()),
			slog.String("kind", string(kind)),
			slog.Any("error", err))
		return
	}

	h.logger.Info("republished stalled order event",
		slog.String("order_id", o.ID().String()),
		slog.String("kind", string(kind)))
}
