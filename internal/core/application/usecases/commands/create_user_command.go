package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
)

var (
	ErrCreateUserCommandIsNotConstructed = errors.New(
		"CreateUserCommand must be created via NewCreateUserCommand constructor",
	)
)

// CreateUserCommand represents a request to provision a user record in the
// actor's tenant.
type CreateUserCommand struct { //nolint:recvcheck //using for validation
	userID kernel.UUID
	role   kernel.Role
	name   string
	email  string
	actor  kernel.Actor

	guard kernel.ConstructorGuard
}

// NewCreateUserCommand creates a command to provision a user.
func NewCreateUserCommand(
	userID kernel.UUID,
	role kernel.Role,
	name string,
	email string,
	actor kernel.Actor,
) (CreateUserCommand, error) {
	if err := errors.Join(
		userID.Validate(),
		role.Validate(),
		actor.Validate(),
	); err != nil {
		return CreateUserCommand{}, err
	}

	return CreateUserCommand{
		userID: userID,
		role:   role,
		name:   name,
		email:  email,
		actor:  actor,
		guard:  kernel.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateUserCommand) Validate() error {
	return c.guard.Validate(ErrCreateUserCommandIsNotConstructed)
}

// UserID returns the identity minted for the user.
func (c CreateUserCommand) UserID() kernel.UUID { return c.userID }

// Role returns the user's role.
func (c CreateUserCommand) Role() kernel.Role { return c.role }

// Name returns the display name.
func (c CreateUserCommand) Name() string { return c.name }

// Email returns the contact email.
func (c CreateUserCommand) Email() string { return c.email }

// Actor returns the identity provisioning the user.
func (c CreateUserCommand) Actor() kernel.Actor { return c.actor }
