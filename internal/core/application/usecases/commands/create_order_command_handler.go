package commands

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// CreateOrderCommandHandler handles the business logic for order placement.
// Creates new orders in "CREATED" status and hands them to the work queue so
// a cook gets assigned asynchronously.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, queue, logger)
//	cmd, _ := NewCreateOrderCommand(orderID, customerID, actor, lines, address, notes)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	// Order is now created and queued for cook assignment
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	queue      ports.WorkQueue
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order placement.
// Requires an OrderUoWFactory for transactional persistence and a WorkQueue
// for post-commit orchestration events.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	queue ports.WorkQueue,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		queue:      queue,
		logger:     logger,
	}
}

// Handle processes the order placement command.
// Persists the order in "CREATED" status, then publishes an order.created
// event. The publish happens after the commit: a lost event is recovered by
// the periodic reconciler, whereas an uncommitted order must never reach the
// queue.
//
// Only an order taker or an admin role may place an order for a customer
// other than themselves.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	actor := cmd.Actor()
	if !cmd.CustomerID().IsEqual(actor.UserID()) &&
		actor.Role() != kernel.RoleOrderTaker && !actor.Role().IsAdmin() {
		return errs.NewForbiddenError(
			"create an order for another customer", actor.Role().String())
	}

	items, err := cmd.items()
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	newOrder, err := order.NewOrder(
		cmd.OrderID(),
		cmd.Actor().TenantID(),
		cmd.CustomerID(),
		items,
		cmd.Address(),
		cmd.Notes(),
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	if err = orderRepo.Add(ctx, newOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	event := ports.OrderEvent{
		Kind:     ports.OrderCreatedEvent,
		OrderID:  newOrder.ID(),
		TenantID: newOrder.TenantID(),
	}
	if err = h.queue.Publish(ctx, event); err != nil {
		// The order is committed; the reconciler picks up stranded orders.
		h.logger.Warn("failed to publish order.created event",
			slog.String("order_id", newOrder.ID().String()),
			slog.Any("error", err))
	}

	return nil
}
