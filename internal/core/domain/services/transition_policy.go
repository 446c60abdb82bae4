package services

import (
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// transitionKey identifies one edge of the status machine.
type transitionKey struct {
	from order.Status
	to   order.Status
}

// roleSet is the set of roles allowed to originate a transition.
type roleSet map[kernel.Role]struct{}

func roles(rs ...kernel.Role) roleSet {
	set := make(roleSet, len(rs))
	for _, r := range rs {
		set[r] = struct{}{}
	}
	return set
}

// allowedTransitions is the static (currentStatus, requestedStatus) -> roles
// table. Whether the edge itself is legal is the state machine's concern; this
// table only answers who may drive a legal edge.
func allowedTransitions() map[transitionKey]roleSet {
	return map[transitionKey]roleSet{
		{order.Created, order.Preparing}:    roles(kernel.RoleCook, kernel.RoleExecutiveChef, kernel.RoleSiteAdmin),
		{order.Preparing, order.Ready}:      roles(kernel.RoleCook, kernel.RolePacker, kernel.RoleExecutiveChef, kernel.RoleSiteAdmin),
		{order.Ready, order.Assigned}:       roles(kernel.RoleDriver, kernel.RoleSiteAdmin),
		{order.Assigned, order.Delivering}:  roles(kernel.RoleDriver, kernel.RoleSiteAdmin),
		{order.Delivering, order.Delivered}: roles(kernel.RoleDriver, kernel.RoleSiteAdmin),

		{order.Created, order.Cancelled}:    roles(kernel.RoleCustomer, kernel.RoleOrderTaker, kernel.RoleExecutiveChef, kernel.RoleSiteAdmin),
		{order.Preparing, order.Cancelled}:  roles(kernel.RoleExecutiveChef, kernel.RoleSiteAdmin),
		{order.Ready, order.Cancelled}:      roles(kernel.RoleExecutiveChef, kernel.RoleSiteAdmin),
		{order.Assigned, order.Cancelled}:   roles(kernel.RoleExecutiveChef, kernel.RoleSiteAdmin),
		{order.Delivering, order.Cancelled}: roles(kernel.RoleExecutiveChef, kernel.RoleSiteAdmin),
	}
}

// TransitionPolicy authorizes actors against the transition table and the
// assignee rules: a cook may only work orders assigned to them, and a driver
// may only advance orders they are delivering. Admin roles are exempt from
// the assignee rules but never from tenant isolation, which the calling
// engine enforces before consulting this policy.
type TransitionPolicy struct{}

// NewTransitionPolicy creates a new TransitionPolicy instance.
func NewTransitionPolicy() TransitionPolicy {
	return TransitionPolicy{}
}

// Authorize checks whether the actor may move the order to the requested
// status. Returns a ForbiddenError when the role is not in the table for the
// edge or when the assignee rule fails. It deliberately says nothing about
// edge legality; illegal edges surface as InvalidTransition from the state
// machine, not as Forbidden.
func (p TransitionPolicy) Authorize(actor kernel.Actor, o *order.Order, requested order.Status) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if err := o.Validate(); err != nil {
		return err
	}

	key := transitionKey{from: o.Status(), to: requested}
	allowed, known := allowedTransitions()[key]
	if !known {
		// Not an edge of the machine. Leave it to the state machine so the
		// caller sees InvalidTransition rather than Forbidden.
		return nil
	}

	if _, ok := allowed[actor.Role()]; !ok {
		return errs.NewForbiddenError(
			fmt.Sprintf("transition %s to %s", o.Status(), requested),
			actor.Role().String(),
		)
	}

	return p.authorizeAssignee(actor, o, requested)
}

// authorizeAssignee applies the ownership rules for non-admin worker roles.
func (p TransitionPolicy) authorizeAssignee(actor kernel.Actor, o *order.Order, requested order.Status) error {
	if actor.Role().IsAdmin() {
		return nil
	}

	switch actor.Role() {
	case kernel.RoleCook:
		if requested == order.Preparing && !o.IsAssignedCook(actor.UserID()) {
			return errs.NewForbiddenErrorWithCause(
				"start preparation", actor.Role().String(),
				fmt.Errorf("only the assigned cook may start this order"),
			)
		}
	case kernel.RoleDriver:
		if !o.IsAssignedDriver(actor.UserID()) {
			return errs.NewForbiddenErrorWithCause(
				fmt.Sprintf("transition %s to %s", o.Status(), requested), actor.Role().String(),
				fmt.Errorf("only the assigned driver may advance this order"),
			)
		}
	}

	return nil
}
