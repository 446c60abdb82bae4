package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// TransitionOrderCommandHandler handles order status transitions. It runs the
// full validation sequence in order: existence and tenant scope, actor
// authorization, then edge legality against the state machine. A request for
// the status the order already holds succeeds without touching anything, so
// redelivered requests stay harmless.
//
// Worker release rides inside the same transaction as the status write: the
// cook is released when the order goes READY, the driver when it goes
// DELIVERED, and whichever is engaged when it is CANCELLED.
type TransitionOrderCommandHandler struct {
	uowFactory UoWFactory
	policy     services.TransitionPolicy
	notifier   ports.Notifier
	queue      ports.WorkQueue
	logger     *slog.Logger
}

// NewTransitionOrderCommandHandler creates a handler for status transitions.
func NewTransitionOrderCommandHandler(
	uowFactory UoWFactory,
	policy services.TransitionPolicy,
	notifier ports.Notifier,
	queue ports.WorkQueue,
	logger *slog.Logger,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		notifier:   notifier,
		queue:      queue,
		logger:     logger,
	}
}

// Handle processes the transition command and returns the order as persisted.
// The status write is guarded on the status the order was read with. A
// Conflict from the guard is checked once against fresh state: when the
// concurrent winner applied the very same transition, this request is a
// replay and succeeds idempotently; any other winner keeps the Conflict.
func (h *TransitionOrderCommandHandler) Handle(
	ctx context.Context, cmd TransitionOrderCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.Actor().TenantID(), cmd.OrderID())
	if err != nil {
		return nil, err
	}

	// Idempotent accept: a replayed request for the current status is a no-op.
	if o.Status() == cmd.Requested() {
		return o, nil
	}

	if err = h.policy.Authorize(cmd.Actor(), o, cmd.Requested()); err != nil {
		return nil, err
	}

	previous := o.Status()
	now := time.Now().UTC()
	if err = o.ChangeStatus(cmd.Requested(), cmd.Actor(), now); err != nil {
		return nil, err
	}

	if err = orderRepo.UpdateWithStatusGuard(ctx, o, previous); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return h.resolveGuardConflict(ctx, cmd, err)
		}
		return nil, err
	}

	if err = h.releaseWorkers(ctx, uow.WorkerRepository(), o, previous, now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.Notify(ctx, o, previous)

	if o.Status() == order.Ready {
		event := ports.OrderEvent{
			Kind:     ports.OrderReadyEvent,
			OrderID:  o.ID(),
			TenantID: o.TenantID(),
		}
		if err = h.queue.Publish(ctx, event); err != nil {
			h.logger.Warn("failed to publish order.ready event",
				slog.String("order_id", o.ID().String()),
				slog.Any("error", err))
		}
	}

	return o, nil
}

// resolveGuardConflict re-reads the order after the guarded write lost a
// race. Two concurrent identical requests must both succeed with exactly one
// state change, so when the stored status already equals the requested one
// the loser reports success with the winner's result. Release and
// notification are the winner's to do, not the loser's.
func (h *TransitionOrderCommandHandler) resolveGuardConflict(
	ctx context.Context, cmd TransitionOrderCommand, conflict error,
) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, conflict
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	stored, err := uow.OrderRepository().Get(ctx, cmd.Actor().TenantID(), cmd.OrderID())
	if err != nil {
		return nil, conflict
	}

	if stored.Status() == cmd.Requested() {
		return stored, nil
	}
	return nil, conflict
}

// releaseWorkers frees the capacity the finished stage was holding.
func (h *TransitionOrderCommandHandler) releaseWorkers(
	ctx context.Context,
	workerRepo ports.WorkerRepository,
	o *order.Order,
	previous order.Status,
	now time.Time,
) error {
	switch o.Status() {
	case order.Ready:
		return h.releaseOne(ctx, workerRepo, o.TenantID(), o.CookID(), now)
	case order.Delivered:
		return h.releaseOne(ctx, workerRepo, o.TenantID(), o.DriverID(), now)
	case order.Cancelled:
		switch previous {
		case order.Preparing:
			return h.releaseOne(ctx, workerRepo, o.TenantID(), o.CookID(), now)
		case order.Assigned, order.Delivering:
			return h.releaseOne(ctx, workerRepo, o.TenantID(), o.DriverID(), now)
		}
	}
	return nil
}

// releaseOne releases a single worker by user identity, guarding the decrement
// on the load it was read with. An already-released worker is not an error:
// a replayed release must not fail the transition that triggered it.
func (h *TransitionOrderCommandHandler) releaseOne(
	ctx context.Context,
	workerRepo ports.WorkerRepository,
	tenantID kernel.UUID,
	userID *kernel.UUID,
	now time.Time,
) error {
	if userID == nil {
		return nil
	}

	w, err := workerRepo.GetByUserID(ctx, tenantID, *userID)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			h.logger.Warn("worker to release not found",
				slog.String("user_id", userID.String()))
			return nil
		}
		return err
	}

	expectedLoad := w.CurrentLoad()
	if err = w.Release(now); err != nil {
		h.logger.Warn("worker already released",
			slog.String("worker_id", w.ID().String()),
			slog.Any("error", err))
		return nil
	}

	if err = workerRepo.UpdateIfLoad(ctx, w, expectedLoad); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			h.logger.Warn("concurrent worker release detected",
				slog.String("worker_id", w.ID().String()))
			return nil
		}
		return err
	}

	return nil
}
