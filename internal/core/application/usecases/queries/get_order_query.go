// Package queries contains read-only operations over the store. Queries
// bypass the aggregates and repositories and read with raw SQL, returning
// flat read models shaped for the API layer.
package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery retrieves one order with its lines and audit trail. The read
// is scoped to the actor's tenant; customers additionally only see their own
// orders. An order outside that scope is indistinguishable from a missing one.
type GetOrderQuery struct {
	orderID kernel.UUID
	actor   kernel.Actor

	guard kernel.ConstructorGuard
}

// NewGetOrderQuery creates a query for one order.
func NewGetOrderQuery(orderID kernel.UUID, actor kernel.Actor) (GetOrderQuery, error) {
	if err := errors.Join(
		orderID.Validate(),
		actor.Validate(),
	); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		actor:   actor,
		guard:   kernel.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order.
func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }

// Actor returns the identity reading the order.
func (q GetOrderQuery) Actor() kernel.Actor { return q.actor }

// OrderItemResponse is one order line in a read model.
type OrderItemResponse struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// StatusChangeResponse is one audit trail entry in a read model.
type StatusChangeResponse struct {
	Status    string    `json:"status"`
	ActorName string    `json:"actor_name"`
	ActorRole string    `json:"actor_role"`
	At        time.Time `json:"at"`
}

// GetOrderQueryResponse is the full order read model.
type GetOrderQueryResponse struct {
	ID         kernel.UUID
	CustomerID kernel.UUID
	Status     string
	Items      []OrderItemResponse
	TotalCents int64
	CookID     *kernel.UUID
	DriverID   *kernel.UUID
	DriverName string
	Address    string
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	AssignedAt *time.Time
	History    []StatusChangeResponse
}
