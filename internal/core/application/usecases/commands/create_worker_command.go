package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/worker"
)

var (
	ErrCreateWorkerCommandIsNotConstructed = errors.New(
		"CreateWorkerCommand must be created via NewCreateWorkerCommand constructor",
	)
)

// CreateWorkerCommand represents a request to provision a cook or driver
// capacity record for an existing staff user.
type CreateWorkerCommand struct { //nolint:recvcheck //using for validation
	workerID    kernel.UUID
	userID      kernel.UUID
	role        kernel.Role
	name        string
	vehicleType string
	actor       kernel.Actor

	guard kernel.ConstructorGuard
}

// NewCreateWorkerCommand creates a command to provision a worker. The worker
// joins the actor's tenant.
func NewCreateWorkerCommand(
	workerID kernel.UUID,
	userID kernel.UUID,
	role kernel.Role,
	name string,
	vehicleType string,
	actor kernel.Actor,
) (CreateWorkerCommand, error) {
	if err := errors.Join(
		workerID.Validate(),
		userID.Validate(),
		worker.ValidateRole(role),
		actor.Validate(),
	); err != nil {
		return CreateWorkerCommand{}, err
	}

	return CreateWorkerCommand{
		workerID:    workerID,
		userID:      userID,
		role:        role,
		name:        name,
		vehicleType: vehicleType,
		actor:       actor,
		guard:       kernel.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateWorkerCommand) Validate() error {
	return c.guard.Validate(ErrCreateWorkerCommandIsNotConstructed)
}

// WorkerID returns the identity minted for the worker record.
func (c CreateWorkerCommand) WorkerID() kernel.UUID { return c.workerID }

// UserID returns the staff user the record belongs to.
func (c CreateWorkerCommand) UserID() kernel.UUID { return c.userID }

// Role returns cook or driver.
func (c CreateWorkerCommand) Role() kernel.Role { return c.role }

// Name returns the worker's display name.
func (c CreateWorkerCommand) Name() string { return c.name }

// VehicleType returns the driver's vehicle type, empty for cooks.
func (c CreateWorkerCommand) VehicleType() string { return c.vehicleType }

// Actor returns the identity provisioning the worker.
func (c CreateWorkerCommand) Actor() kernel.Actor { return c.actor }
