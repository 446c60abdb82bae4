package queries

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/worker"
	"orderflow/internal/pkg/errs"
)

var (
	ErrListWorkersQueryIsNotConstructed = errors.New(
		"ListWorkersQuery must be created via NewListWorkersQuery constructor",
	)
)

// ListWorkersQuery retrieves the tenant's workers of one role with their
// availability and load, the operator's view of kitchen and delivery
// capacity. Customers have no business seeing staffing levels.
type ListWorkersQuery struct {
	actor kernel.Actor
	role  kernel.Role

	guard kernel.ConstructorGuard
}

// NewListWorkersQuery creates a query to list the tenant's workers.
func NewListWorkersQuery(actor kernel.Actor, role kernel.Role) (ListWorkersQuery, error) {
	if err := errors.Join(
		actor.Validate(),
		worker.ValidateRole(role),
	); err != nil {
		return ListWorkersQuery{}, err
	}
	if actor.Role() == kernel.RoleCustomer {
		return ListWorkersQuery{}, errs.NewForbiddenErrorWithCause(
			"list workers", actor.Role().String(),
			fmt.Errorf("staffing data is staff-only"))
	}

	return ListWorkersQuery{
		actor: actor,
		role:  role,
		guard: kernel.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListWorkersQuery) Validate() error {
	return q.guard.Validate(ErrListWorkersQueryIsNotConstructed)
}

// Actor returns the identity listing workers.
func (q ListWorkersQuery) Actor() kernel.Actor { return q.actor }

// Role returns the worker role to list.
func (q ListWorkersQuery) Role() kernel.Role { return q.role }

// ListWorkersQueryResponse is one worker capacity row.
type ListWorkersQueryResponse struct {
	ID             kernel.UUID
	UserID         kernel.UUID
	Name           string
	Role           string
	VehicleType    string
	IsAvailable    bool
	CurrentLoad    int
	CurrentOrderID *kernel.UUID
}
