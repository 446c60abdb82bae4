package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/worker"
)

var (
	ErrAssignWorkerCommandIsNotConstructed = errors.New(
		"AssignWorkerCommand must be created via NewAssignWorkerCommand constructor",
	)
)

// AssignWorkerCommand represents a request to match an order with a worker of
// the given role: a cook for a freshly created order, a driver for a ready
// one. Only the workflow trigger issues it.
type AssignWorkerCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	tenantID kernel.UUID
	role     kernel.Role

	guard kernel.ConstructorGuard
}

// NewAssignWorkerCommand creates a command to assign a worker to an order.
func NewAssignWorkerCommand(
	orderID kernel.UUID,
	tenantID kernel.UUID,
	role kernel.Role,
) (AssignWorkerCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		tenantID.Validate(),
		worker.ValidateRole(role),
	); err != nil {
		return AssignWorkerCommand{}, err
	}

	return AssignWorkerCommand{
		orderID:  orderID,
		tenantID: tenantID,
		role:     role,
		guard:    kernel.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignWorkerCommand) Validate() error {
	return c.guard.Validate(ErrAssignWorkerCommandIsNotConstructed)
}

// OrderID returns the order needing a worker.
func (c AssignWorkerCommand) OrderID() kernel.UUID { return c.orderID }

// TenantID returns the tenant whose worker pool is searched.
func (c AssignWorkerCommand) TenantID() kernel.UUID { return c.tenantID }

// Role returns the worker role to match: cook or driver.
func (c AssignWorkerCommand) Role() kernel.Role { return c.role }
