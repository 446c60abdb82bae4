package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
)

var (
	ErrReconcileCommandIsNotConstructed = errors.New(
		"ReconcileCommand must be created via NewReconcileCommand constructor",
	)
)

// ReconcileCommand represents one periodic sweep over the inconsistencies the
// two-step assignment design can leave behind: workers stuck busy on orders
// that moved on without them, and orders whose orchestration event got lost
// between commit and publish.
type ReconcileCommand struct { //nolint:recvcheck //using for validation
	guard kernel.ConstructorGuard
}

// NewReconcileCommand creates a command for one reconciliation sweep.
func NewReconcileCommand() (ReconcileCommand, error) {
	return ReconcileCommand{
		guard: kernel.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReconcileCommand) Validate() error {
	return c.guard.Validate(ErrReconcileCommandIsNotConstructed)
}
