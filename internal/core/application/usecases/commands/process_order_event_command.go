package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

var (
	ErrProcessOrderEventCommandIsNotConstructed = errors.New(
		"ProcessOrderEventCommand must be created via NewProcessOrderEventCommand constructor",
	)
)

// ProcessOrderEventCommand wraps one delivered work queue event.
type ProcessOrderEventCommand struct { //nolint:recvcheck //using for validation
	event ports.OrderEvent

	guard kernel.ConstructorGuard
}

// NewProcessOrderEventCommand creates a command from a delivered event.
// The tenant claim inside the event is validated structurally here and
// checked against the loaded order at handling time.
func NewProcessOrderEventCommand(event ports.OrderEvent) (ProcessOrderEventCommand, error) {
	if err := errors.Join(
		event.OrderID.Validate(),
		event.TenantID.Validate(),
	); err != nil {
		return ProcessOrderEventCommand{}, err
	}
	if event.Kind != ports.OrderCreatedEvent && event.Kind != ports.OrderReadyEvent {
		return ProcessOrderEventCommand{}, errs.NewValueIsInvalidError("event kind")
	}

	return ProcessOrderEventCommand{
		event: event,
		guard: kernel.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ProcessOrderEventCommand) Validate() error {
	return c.guard.Validate(ErrProcessOrderEventCommandIsNotConstructed)
}

// Event returns the delivered event.
func (c ProcessOrderEventCommand) Event() ports.OrderEvent { return c.event }
