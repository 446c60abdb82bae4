package commands

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/user"
	"orderflow/internal/pkg/errs"
)

// CreateUserCommandHandler provisions user records. Only admin roles may add
// staff and customers to a tenant.
type CreateUserCommandHandler struct {
	uowFactory UserUoWFactory
}

// NewCreateUserCommandHandler creates a handler for user provisioning.
func NewCreateUserCommandHandler(uowFactory UserUoWFactory) CreateUserCommandHandler {
	return CreateUserCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the user provisioning command.
func (h *CreateUserCommandHandler) Handle(ctx context.Context, cmd CreateUserCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if !cmd.Actor().Role().IsAdmin() {
		return errs.NewForbiddenError("provision user", cmd.Actor().Role().String())
	}

	newUser, err := user.NewUser(
		cmd.UserID(),
		cmd.Actor().TenantID(),
		cmd.Role(),
		cmd.Name(),
		cmd.Email(),
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

	if err = uow.UserRepository().Add(ctx, newUser); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
