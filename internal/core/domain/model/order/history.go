package order

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
)

// StatusChange is one audit entry in the order history: which status was
// reached, who drove the change, and when. The actor attributes are a
// snapshot taken at transition time, so the trail stays meaningful even if
// staff records change later.
type StatusChange struct {
	status    Status
	actorName string
	actorRole kernel.Role
	at        time.Time
}

// NewStatusChange records a transition performed by the given actor.
func NewStatusChange(status Status, actor kernel.Actor, at time.Time) StatusChange {
	return StatusChange{
		status:    status,
		actorName: actor.Name(),
		actorRole: actor.Role(),
		at:        at,
	}
}

// RestoreStatusChange rebuilds an audit entry from persistence.
func RestoreStatusChange(status Status, actorName string, actorRole kernel.Role, at time.Time) StatusChange {
	return StatusChange{
		status:    status,
		actorName: actorName,
		actorRole: actorRole,
		at:        at,
	}
}

// Status returns the status reached by this change.
func (c StatusChange) Status() Status {
	return c.status
}

// ActorName returns the display name snapshot of the acting user.
func (c StatusChange) ActorName() string {
	return c.actorName
}

// ActorRole returns the role the acting user held at transition time.
func (c StatusChange) ActorRole() kernel.Role {
	return c.actorRole
}

// At returns when the change happened.
func (c StatusChange) At() time.Time {
	return c.at
}
