package kernel

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Role is the actor role vocabulary issued by the upstream auth layer.
// Role values arrive already verified; the core only decides what each role
// may do, never whether the credential is genuine.
type Role string

const (
	// RoleCustomer places orders and tracks their progress.
	RoleCustomer Role = "customer"
	// RoleOrderTaker enters phone orders on behalf of customers.
	RoleOrderTaker Role = "order_taker"
	// RoleExecutiveChef supervises the kitchen and may act on any kitchen stage.
	RoleExecutiveChef Role = "executive_chef"
	// RoleCook prepares orders.
	RoleCook Role = "cook"
	// RolePacker boxes prepared orders.
	RolePacker Role = "packer"
	// RoleDriver delivers orders.
	RoleDriver Role = "driver"
	// RoleSiteAdmin administers a single tenant. Elevated role privileges
	// never grant cross-tenant reach.
	RoleSiteAdmin Role = "site_admin"
)

func validRoles() map[Role]struct{} {
	return map[Role]struct{}{
		RoleCustomer:      {},
		RoleOrderTaker:    {},
		RoleExecutiveChef: {},
		RoleCook:          {},
		RolePacker:        {},
		RoleDriver:        {},
		RoleSiteAdmin:     {},
	}
}

// RoleFromString parses and validates a role received from the auth layer.
func RoleFromString(s string) (Role, error) {
	r := Role(s)
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

// Validate checks the role is part of the fixed vocabulary.
func (r Role) Validate() error {
	if _, ok := validRoles()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", string(r)))
	}
	return nil
}

// IsKitchenStaff reports whether the role belongs to kitchen personnel.
func (r Role) IsKitchenStaff() bool {
	return r == RoleExecutiveChef || r == RoleCook || r == RolePacker
}

// IsAdmin reports whether the role carries tenant-administration privileges.
func (r Role) IsAdmin() bool {
	return r == RoleSiteAdmin || r == RoleExecutiveChef
}

func (r Role) String() string {
	return string(r)
}
