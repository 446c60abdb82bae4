// Package user implements the User entity: the contact and role record behind
// an authenticated identity. The core reads users to resolve notification
// destinations and display names; credential handling lives outside.
package user

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// ErrUserIsNotConstructed is returned when a User did not come through
// NewUser or RestoreUser.
var ErrUserIsNotConstructed = errors.New("User must be created via NewUser or RestoreUser")

// User is a tenant-scoped identity record.
type User struct {
	id       kernel.UUID
	tenantID kernel.UUID
	role     kernel.Role
	name     string
	email    string

	createdAt time.Time

	guard kernel.ConstructorGuard
}

// NewUser provisions a user record.
func NewUser(id, tenantID kernel.UUID, role kernel.Role, name, email string, now time.Time) (*User, error) {
	if err := errors.Join(
		id.Validate(),
		tenantID.Validate(),
		role.Validate(),
	); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}

	return &User{
		id:        id,
		tenantID:  tenantID,
		role:      role,
		name:      name,
		email:     email,
		createdAt: now,
		guard:     kernel.NewConstructorGuard(),
	}, nil
}

// RestoreUser reconstructs a user from persistence.
func RestoreUser(id, tenantID kernel.UUID, role kernel.Role, name, email string, createdAt time.Time) (*User, error) {
	return NewUser(id, tenantID, role, name, email, createdAt)
}

// Validate ensures the user came through a constructor.
func (u *User) Validate() error {
	if u == nil {
		return ErrUserIsNotConstructed
	}
	return u.guard.Validate(ErrUserIsNotConstructed)
}

// ID returns the user identity.
func (u *User) ID() kernel.UUID { return u.id }

// TenantID returns the owning tenant.
func (u *User) TenantID() kernel.UUID { return u.tenantID }

// Role returns the user's role.
func (u *User) Role() kernel.Role { return u.role }

// Name returns the display name.
func (u *User) Name() string { return u.name }

// Email returns the contact email, possibly empty.
func (u *User) Email() string { return u.email }

// CreatedAt returns when the user was provisioned.
func (u *User) CreatedAt() time.Time { return u.createdAt }
