package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

var (
	ErrListOrdersQueryIsNotConstructed = errors.New(
		"ListOrdersQuery must be created via NewListOrdersQuery constructor",
	)
)

// ListOrdersQuery retrieves the actor's visible orders, optionally filtered
// to one status. Staff see the whole tenant; customers see their own orders.
type ListOrdersQuery struct {
	actor  kernel.Actor
	status *order.Status

	guard kernel.ConstructorGuard
}

// NewListOrdersQuery creates a query to list orders. A nil status means all
// statuses.
func NewListOrdersQuery(actor kernel.Actor, status *order.Status) (ListOrdersQuery, error) {
	if err := actor.Validate(); err != nil {
		return ListOrdersQuery{}, err
	}
	if status != nil {
		if err := status.Validate(); err != nil {
			return ListOrdersQuery{}, err
		}
	}

	return ListOrdersQuery{
		actor:  actor,
		status: status,
		guard:  kernel.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// Actor returns the identity listing orders.
func (q ListOrdersQuery) Actor() kernel.Actor { return q.actor }

// Status returns the optional status filter.
func (q ListOrdersQuery) Status() *order.Status { return q.status }

// ListOrdersQueryResponse is one order summary row.
type ListOrdersQueryResponse struct {
	ID         kernel.UUID
	CustomerID kernel.UUID
	Status     string
	TotalCents int64
	DriverName string
	Address    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
