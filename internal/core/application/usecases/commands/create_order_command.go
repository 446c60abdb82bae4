package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// OrderLine is one requested item in an order creation request, as received
// from the ordering surface before domain validation.
type OrderLine struct {
	ProductID      string
	Name           string
	Quantity       int
	UnitPriceCents int64
}

// CreateOrderCommand represents a request to place a new order. The actor is
// the customer placing it, or an order taker acting on a customer's behalf.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	customerID kernel.UUID
	actor      kernel.Actor
	lines      []OrderLine
	address    string
	notes      string

	guard kernel.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place an order. Line-level
// validation happens when the domain items are built; here only structural
// requirements are checked.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customerID kernel.UUID,
	actor kernel.Actor,
	lines []OrderLine,
	address string,
	notes string,
) (CreateOrderCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		customerID.Validate(),
		actor.Validate(),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return CreateOrderCommand{
		orderID:    orderID,
		customerID: customerID,
		actor:      actor,
		lines:      lines,
		address:    address,
		notes:      notes,
		guard:      kernel.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identity minted for the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID { return c.orderID }

// CustomerID returns the customer the order belongs to.
func (c CreateOrderCommand) CustomerID() kernel.UUID { return c.customerID }

// Actor returns the authenticated identity placing the order.
func (c CreateOrderCommand) Actor() kernel.Actor { return c.actor }

// Lines returns the requested order lines.
func (c CreateOrderCommand) Lines() []OrderLine { return c.lines }

// Address returns the delivery address.
func (c CreateOrderCommand) Address() string { return c.address }

// Notes returns the free-text notes.
func (c CreateOrderCommand) Notes() string { return c.notes }

// items converts the raw lines into validated domain items.
func (c CreateOrderCommand) items() ([]order.Item, error) {
	items := make([]order.Item, 0, len(c.lines))
	for _, line := range c.lines {
		item, err := order.NewItem(line.ProductID, line.Name, line.Quantity, line.UnitPriceCents)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
