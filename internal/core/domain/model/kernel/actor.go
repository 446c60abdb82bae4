package kernel

import "orderflow/internal/pkg/errs"

// ErrActorIsNotConstructed is returned when using an Actor that did not come
// through NewActor.
var ErrActorIsNotConstructed = errs.NewValueIsRequiredError("Actor must be created via NewActor")

// Actor is the authenticated identity performing an operation: the
// {userId, tenantId, role} triple produced by the excluded auth layer.
// Every entry point receives one and the core trusts it completely.
//
// Name and email are optional display attributes used for audit snapshots
// and notification rendering; they carry no authority.
type Actor struct {
	userID   UUID
	tenantID UUID
	role     Role
	name     string
	email    string
	guard    ConstructorGuard
}

// NewActor builds an actor from an already-verified identity triple.
func NewActor(userID, tenantID UUID, role Role) (Actor, error) {
	if err := userID.Validate(); err != nil {
		return Actor{}, err
	}
	if err := tenantID.Validate(); err != nil {
		return Actor{}, err
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}

	return Actor{
		userID:   userID,
		tenantID: tenantID,
		role:     role,
		guard:    NewConstructorGuard(),
	}, nil
}

// WithContact returns a copy of the actor carrying display name and email.
func (a Actor) WithContact(name, email string) Actor {
	a.name = name
	a.email = email
	return a
}

// Validate ensures the actor was built via NewActor.
func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

// UserID returns the authenticated user identity.
func (a Actor) UserID() UUID {
	return a.userID
}

// TenantID returns the tenant the actor belongs to.
func (a Actor) TenantID() UUID {
	return a.tenantID
}

// Role returns the actor's role.
func (a Actor) Role() Role {
	return a.role
}

// Name returns the optional display name.
func (a Actor) Name() string {
	return a.name
}

// Email returns the optional contact email.
func (a Actor) Email() string {
	return a.email
}
