package commands

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/worker"
	"orderflow/internal/pkg/errs"
)

// CreateWorkerCommandHandler provisions cook and driver capacity records.
// Only admin roles may grow a tenant's worker pool.
type CreateWorkerCommandHandler struct {
	uowFactory WorkerUoWFactory
}

// NewCreateWorkerCommandHandler creates a handler for worker provisioning.
func NewCreateWorkerCommandHandler(uowFactory WorkerUoWFactory) CreateWorkerCommandHandler {
	return CreateWorkerCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the worker provisioning command. New workers start
// available with zero load.
func (h *CreateWorkerCommandHandler) Handle(ctx context.Context, cmd CreateWorkerCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if !cmd.Actor().Role().IsAdmin() {
		return errs.NewForbiddenError("provision worker", cmd.Actor().Role().String())
	}

	newWorker, err := worker.NewWorker(
		cmd.WorkerID(),
		cmd.UserID(),
		cmd.Actor().TenantID(),
		cmd.Role(),
		cmd.Name(),
		cmd.VehicleType(),
		time.Now().UTC(),
	)
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

	if err = uow.WorkerRepository().Add(ctx, newWorker); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
