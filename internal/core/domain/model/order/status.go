package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Status represents the lifecycle state of an order. The string values form
// the one fixed vocabulary external collaborators (dashboards, notification
// templates) render verbatim, so they are persisted and transported as-is.
//
// State transitions:
//
//	CREATED ──> PREPARING ──> READY ──> ASSIGNED ──> DELIVERING ──> DELIVERED
//	    │            │          │           │             │
//	    └────────────┴──────────┴───────────┴─────────────┴──> CANCELLED
//
// DELIVERED and CANCELLED are terminal. Backward transitions are never
// permitted.
type Status string

const (
	// Created is the initial status stamped by the ordering flow.
	Created Status = "CREATED"
	// Preparing means a cook has been assigned and is working the order.
	Preparing Status = "PREPARING"
	// Ready means the kitchen finished and the order awaits a driver.
	Ready Status = "READY"
	// Assigned means a driver has been matched to the order.
	Assigned Status = "ASSIGNED"
	// Delivering means the driver is en route to the customer.
	Delivering Status = "DELIVERING"
	// Delivered is the successful terminal status.
	Delivered Status = "DELIVERED"
	// Cancelled is the unsuccessful terminal status, reachable from any
	// non-terminal status.
	Cancelled Status = "CANCELLED"
)

// statusRank orders the forward chain. CANCELLED sits outside the chain and
// is handled explicitly.
func statusRank() map[Status]int {
	return map[Status]int{
		Created:    0,
		Preparing:  1,
		Ready:      2,
		Assigned:   3,
		Delivering: 4,
		Delivered:  5,
	}
}

// StatusFromString parses and validates a status received from a request or
// a queue message.
func StatusFromString(s string) (Status, error) {
	st := Status(s)
	if err := st.Validate(); err != nil {
		return "", err
	}
	return st, nil
}

// Validate checks the status is a member of the defined vocabulary.
func (s Status) Validate() error {
	if s == Cancelled {
		return nil
	}
	if _, ok := statusRank()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanTransitionTo reports whether next is a legal successor of s: exactly one
// step forward on the chain, or CANCELLED from any non-terminal status.
// Requesting the current status again is not a legal transition here; replay
// tolerance is the caller's idempotent-accept rule, not the machine's.
func (s Status) CanTransitionTo(next Status) bool {
	if s.IsTerminal() {
		return false
	}
	if next == Cancelled {
		return true
	}

	ranks := statusRank()
	from, okFrom := ranks[s]
	to, okTo := ranks[next]
	return okFrom && okTo && to == from+1
}

// TransitionTo returns next if the move is legal, or an InvalidTransitionError
// carrying both endpoints otherwise.
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return "", err
	}
	if !s.CanTransitionTo(next) {
		return "", errs.NewInvalidTransitionError(string(s), string(next))
	}
	return next, nil
}

func (s Status) String() string {
	return string(s)
}
