package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/worker"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/errs"
)

// maxClaimAttempts bounds how many times the matcher re-runs selection after
// losing a worker to a concurrent claim.
const maxClaimAttempts = 3

// AssignWorkerCommandHandler matches an order with the least-busy available
// worker. The match is two separate commits: first the worker claim, guarded
// on the worker still being available, then the order write, guarded on the
// order status. Losing the claim race re-runs selection against the remaining
// pool; a failed order write releases the claimed worker again.
type AssignWorkerCommandHandler struct {
	workerUoWFactory WorkerUoWFactory
	orderUoWFactory  OrderUoWFactory
	selector         services.WorkerSelector
	logger           *slog.Logger
}

// NewAssignWorkerCommandHandler creates a handler for worker assignment.
func NewAssignWorkerCommandHandler(
	workerUoWFactory WorkerUoWFactory,
	orderUoWFactory OrderUoWFactory,
	selector services.WorkerSelector,
	logger *slog.Logger,
) AssignWorkerCommandHandler {
	return AssignWorkerCommandHandler{
		workerUoWFactory: workerUoWFactory,
		orderUoWFactory:  orderUoWFactory,
		selector:         selector,
		logger:           logger,
	}
}

// Handle claims a worker for the order and records the assignment on the
// order. Returns the claimed worker on success, NoCapacity when the tenant's
// pool has no available worker of the requested role.
func (h *AssignWorkerCommandHandler) Handle(
	ctx context.Context, cmd AssignWorkerCommand,
) (*worker.Worker, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	attempt, err := h.claim(ctx, cmd)
	if err != nil {
		return nil, err
	}

	if err = h.recordOnOrder(ctx, cmd, attempt.Worker()); err != nil {
		attempt.Reconcile(ctx)
		return nil, err
	}

	return attempt.Worker(), nil
}

// claim selects and claims a worker, retrying selection when a concurrent
// assignment takes the chosen worker first.
func (h *AssignWorkerCommandHandler) claim(
	ctx context.Context, cmd AssignWorkerCommand,
) (*AssignmentAttempt, error) {
	for i := 0; i < maxClaimAttempts; i++ {
		w, err := h.claimOnce(ctx, cmd)
		if err == nil {
			return &AssignmentAttempt{
				worker:     w,
				uowFactory: h.workerUoWFactory,
				logger:     h.logger,
			}, nil
		}
		if !errors.Is(err, errs.ErrConflict) {
			return nil, err
		}

		h.logger.Info("lost worker claim race, reselecting",
			slog.String("order_id", cmd.OrderID().String()),
			slog.Int("attempt", i+1))
	}

	// Every attempt lost the race. A pool this contended has nothing to give
	// right now, so the failure is NoCapacity, same as an empty pool.
	return nil, errs.NewNoCapacityError("claim attempts exhausted")
}

func (h *AssignWorkerCommandHandler) claimOnce(
	ctx context.Context, cmd AssignWorkerCommand,
) (*worker.Worker, error) {
	uow := h.workerUoWFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	workerRepo := uow.WorkerRepository()
	candidates, err := workerRepo.ListAvailable(ctx, cmd.TenantID(), cmd.Role())
	if err != nil {
		return nil, err
	}

	chosen, err := h.selector.Select(candidates)
	if err != nil {
		return nil, err
	}

	if err = chosen.Claim(cmd.OrderID(), time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = workerRepo.UpdateIfAvailable(ctx, chosen); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return chosen, nil
}

// recordOnOrder writes the assignment onto the order, guarded on the status
// the order must still hold for this assignment kind.
func (h *AssignWorkerCommandHandler) recordOnOrder(
	ctx context.Context, cmd AssignWorkerCommand, w *worker.Worker,
) error {
	uow := h.orderUoWFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.TenantID(), cmd.OrderID())
	if err != nil {
		return err
	}

	expected := o.Status()
	now := time.Now().UTC()
	switch cmd.Role() {
	case kernel.RoleCook:
		err = o.AssignCook(w.UserID(), now)
	case kernel.RoleDriver:
		err = o.AssignDriver(w.UserID(), w.Name(), now)
	}
	if err != nil {
		return err
	}

	if err = orderRepo.UpdateWithStatusGuard(ctx, o, expected); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
