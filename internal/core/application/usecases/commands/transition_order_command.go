package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

var (
	ErrTransitionOrderCommandIsNotConstructed = errors.New(
		"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
	)
)

// TransitionOrderCommand represents a request to move an order to a new
// lifecycle status on behalf of an actor.
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	requested order.Status
	actor     kernel.Actor

	guard kernel.ConstructorGuard
}

// NewTransitionOrderCommand creates a command to transition an order.
// The requested status must be a member of the status vocabulary; whether the
// edge is legal from the order's current status is decided at handling time.
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	requested order.Status,
	actor kernel.Actor,
) (TransitionOrderCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		requested.Validate(),
		actor.Validate(),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	return TransitionOrderCommand{
		orderID:   orderID,
		requested: requested,
		actor:     actor,
		guard:     kernel.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c TransitionOrderCommand) OrderID() kernel.UUID { return c.orderID }

// Requested returns the target status.
func (c TransitionOrderCommand) Requested() order.Status { return c.requested }

// Actor returns the identity driving the transition.
func (c TransitionOrderCommand) Actor() kernel.Actor { return c.actor }
