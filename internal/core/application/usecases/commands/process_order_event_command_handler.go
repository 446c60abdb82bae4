package commands

import (
	"context"
	"errors"
	"log/slog"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// maxEventAttempts bounds how often a NoCapacity event is put back on the
// queue before it is parked for an operator.
const maxEventAttempts = 5

// ProcessOrderEventCommandHandler is the queue-driven workflow step: for an
// order.created event it assigns a cook and moves the order to PREPARING, for
// an order.ready event it assigns a driver and moves it to ASSIGNED.
//
// Delivery is at least once, so every path must tolerate replays: an order
// already past the event's target stage is acknowledged and dropped. The
// event's tenant claim is untrusted until compared with the stored order.
type ProcessOrderEventCommandHandler struct {
	orderUoWFactory   OrderUoWFactory
	assignHandler     *AssignWorkerCommandHandler
	transitionHandler *TransitionOrderCommandHandler
	queue             ports.WorkQueue
	logger            *slog.Logger
}

// NewProcessOrderEventCommandHandler creates the workflow trigger handler.
func NewProcessOrderEventCommandHandler(
	orderUoWFactory OrderUoWFactory,
	assignHandler *AssignWorkerCommandHandler,
	transitionHandler *TransitionOrderCommandHandler,
	queue ports.WorkQueue,
	logger *slog.Logger,
) ProcessOrderEventCommandHandler {
	return ProcessOrderEventCommandHandler{
		orderUoWFactory:   orderUoWFactory,
		assignHandler:     assignHandler,
		transitionHandler: transitionHandler,
		queue:             queue,
		logger:            logger,
	}
}

// Handle processes one delivered event. A nil return means the event is
// consumed: handled, dropped as a replay, dropped as poison, or requeued. An
// error return means the delivery should be retried by the queue.
func (h *ProcessOrderEventCommandHandler) Handle(
	ctx context.Context, cmd ProcessOrderEventCommand,
) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	event := cmd.Event()

	o, err := h.loadOrder(ctx, event.OrderID)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			h.logger.Error("event references unknown order, dropping",
				slog.String("order_id", event.OrderID.String()),
				slog.String("kind", string(event.Kind)))
			return nil
		}
		return err
	}

	if !o.TenantID().IsEqual(event.TenantID) {
		h.logger.Error("event tenant does not match order tenant, dropping",
			slog.String("order_id", event.OrderID.String()),
			slog.String("event_tenant_id", event.TenantID.String()),
			slog.String("order_tenant_id", o.TenantID().String()))
		return nil
	}

	var (
		expectedStatus order.Status
		targetStatus   order.Status
		role           kernel.Role
	)
	switch event.Kind {
	case ports.OrderCreatedEvent:
		expectedStatus, targetStatus, role = order.Created, order.Preparing, kernel.RoleCook
	case ports.OrderReadyEvent:
		expectedStatus, targetStatus, role = order.Ready, order.Assigned, kernel.RoleDriver
	}

	// Replay of an already-processed event.
	if o.Status() != expectedStatus {
		h.logger.Info("order already past event stage, dropping",
			slog.String("order_id", o.ID().String()),
			slog.String("kind", string(event.Kind)),
			slog.String("status", string(o.Status())))
		return nil
	}

	assignCmd, err := NewAssignWorkerCommand(o.ID(), o.TenantID(), role)
	if err != nil {
		return err
	}

	w, err := h.assignHandler.Handle(ctx, assignCmd)
	if err != nil {
		if errs.IsRetryable(err) {
			return h.requeue(ctx, event, err)
		}
		return err
	}

	// The transition is driven as the worker who just received the order, so
	// the regular assignee rules apply unchanged.
	actor, err := kernel.NewActor(w.UserID(), o.TenantID(), w.Role())
	if err != nil {
		return err
	}
	actor = actor.WithContact(w.Name(), "")

	transitionCmd, err := NewTransitionOrderCommand(o.ID(), targetStatus, actor)
	if err != nil {
		return err
	}

	if _, err = h.transitionHandler.Handle(ctx, transitionCmd); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			h.logger.Info("concurrent transition won, dropping event",
				slog.String("order_id", o.ID().String()),
				slog.String("kind", string(event.Kind)))
			return nil
		}
		return err
	}

	return nil
}

func (h *ProcessOrderEventCommandHandler) loadOrder(
	ctx context.Context, orderID kernel.UUID,
) (*order.Order, error) {
	uow := h.orderUoWFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().GetForOrchestration(ctx, orderID)
}

// requeue puts the event back with backoff, or parks it once the attempt
// ceiling is reached. A parked order keeps its current status and waits for
// an operator or the reconciliation job.
func (h *ProcessOrderEventCommandHandler) requeue(
	ctx context.Context, event ports.OrderEvent, cause error,
) error {
	if event.Attempt+1 >= maxEventAttempts {
		h.logger.Error("no capacity after final attempt, parking order",
			slog.String("order_id", event.OrderID.String()),
			slog.String("kind", string(event.Kind)),
			slog.Int("attempts", event.Attempt+1),
			slog.Any("error", cause))
		return nil
	}

	h.logger.Info("no capacity, requeueing event",
		slog.String("order_id", event.OrderID.String()),
		slog.String("kind", string(event.Kind)),
		slog.Int("attempt", event.Attempt),
		slog.Any("error", cause))

	return h.queue.Requeue(ctx, event)
}
