// Package worker implements the Worker aggregate: a cook or driver capacity
// unit that can be claimed for an order and released when the order leaves
// its stage. Cooks and drivers are structurally identical role-specific
// records; only drivers carry a vehicle type.
package worker

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// Domain errors for worker operations.
var (
	// ErrWorkerIsNotConstructed is returned when a Worker did not come through
	// NewWorker or RestoreWorker.
	ErrWorkerIsNotConstructed = errors.New("Worker must be created via NewWorker or RestoreWorker")
	// ErrNameIsRequired is returned when creating a worker without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrWorkerIsBusy is returned when claiming a worker that is not
	// available. The store-level conditional write catches the concurrent
	// case; this catches stale in-memory state.
	ErrWorkerIsBusy = errs.NewConflictError("worker", "worker is not available")
	// ErrNothingToRelease is returned when releasing a worker with no active
	// assignments.
	ErrNothingToRelease = errs.NewValueIsInvalidError("worker has no active assignment to release")
)

// ValidateRole checks that the role names a capacity unit. Only cooks and
// drivers are workers; the other staff roles never receive assignments.
func ValidateRole(role kernel.Role) error {
	if role != kernel.RoleCook && role != kernel.RoleDriver {
		return errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%q is not a worker role", role.String()))
	}
	return nil
}

// Worker is the aggregate root for an assignable capacity unit.
//
// Invariants:
//   - currentLoad >= 0
//   - a worker with isAvailable == false has currentOrderID set
//   - tenantID matches every order the worker is assigned to; the Capacity
//     Matcher only ever selects within one tenant
//
// userID is the authenticated identity used for authorization, and is what
// orders reference; the worker record id is internal.
type Worker struct {
	id          kernel.UUID
	userID      kernel.UUID
	tenantID    kernel.UUID
	role        kernel.Role
	name        string
	vehicleType string

	isAvailable    bool
	currentLoad    int
	currentOrderID *kernel.UUID

	createdAt time.Time
	updatedAt time.Time

	guard kernel.ConstructorGuard
}

// NewWorker provisions a worker record for staff with a worker role.
// New workers start available with zero load.
func NewWorker(
	id kernel.UUID,
	userID kernel.UUID,
	tenantID kernel.UUID,
	role kernel.Role,
	name string,
	vehicleType string,
	now time.Time,
) (*Worker, error) {
	if err := errors.Join(
		id.Validate(),
		userID.Validate(),
		tenantID.Validate(),
		ValidateRole(role),
	); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrNameIsRequired
	}
	if role == kernel.RoleDriver && vehicleType == "" {
		return nil, errs.NewValueIsRequiredError("vehicleType")
	}

	return &Worker{
		id:          id,
		userID:      userID,
		tenantID:    tenantID,
		role:        role,
		name:        name,
		vehicleType: vehicleType,
		isAvailable: true,
		createdAt:   now,
		updatedAt:   now,
		guard:       kernel.NewConstructorGuard(),
	}, nil
}

// RestoreWorker reconstructs a worker from persistence.
func RestoreWorker(
	id kernel.UUID,
	userID kernel.UUID,
	tenantID kernel.UUID,
	role kernel.Role,
	name string,
	vehicleType string,
	isAvailable bool,
	currentLoad int,
	currentOrderID *kernel.UUID,
	createdAt time.Time,
	updatedAt time.Time,
) (*Worker, error) {
	if err := errors.Join(
		id.Validate(),
		userID.Validate(),
		tenantID.Validate(),
		ValidateRole(role),
	); err != nil {
		return nil, err
	}
	if currentLoad < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("currentLoad",
			fmt.Errorf("%d is negative", currentLoad))
	}

	return &Worker{
		id:             id,
		userID:         userID,
		tenantID:       tenantID,
		role:           role,
		name:           name,
		vehicleType:    vehicleType,
		isAvailable:    isAvailable,
		currentLoad:    currentLoad,
		currentOrderID: currentOrderID,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
		guard:          kernel.NewConstructorGuard(),
	}, nil
}

// Validate ensures the worker came through a constructor.
func (w *Worker) Validate() error {
	if w == nil {
		return ErrWorkerIsNotConstructed
	}
	return w.guard.Validate(ErrWorkerIsNotConstructed)
}

// ID returns the internal worker record identity.
func (w *Worker) ID() kernel.UUID { return w.id }

// UserID returns the worker's authenticated user identity.
func (w *Worker) UserID() kernel.UUID { return w.userID }

// TenantID returns the owning tenant.
func (w *Worker) TenantID() kernel.UUID { return w.tenantID }

// Role returns cook or driver.
func (w *Worker) Role() kernel.Role { return w.role }

// Name returns the display name.
func (w *Worker) Name() string { return w.name }

// VehicleType returns the driver's vehicle type, empty for cooks.
func (w *Worker) VehicleType() string { return w.vehicleType }

// IsAvailable reports whether the worker can take a new assignment.
func (w *Worker) IsAvailable() bool { return w.isAvailable }

// CurrentLoad returns the count of active assignments.
func (w *Worker) CurrentLoad() int { return w.currentLoad }

// CurrentOrderID returns the active order, or nil.
func (w *Worker) CurrentOrderID() *kernel.UUID { return w.currentOrderID }

// CreatedAt returns when the worker was provisioned. Used as the selection
// tiebreaker so long-idle workers are not starved.
func (w *Worker) CreatedAt() time.Time { return w.createdAt }

// UpdatedAt returns the last mutation timestamp.
func (w *Worker) UpdatedAt() time.Time { return w.updatedAt }

// Claim takes the worker for an order: marks it unavailable, increments the
// load counter, and records the order. Fails with a Conflict if the worker is
// already busy.
func (w *Worker) Claim(orderID kernel.UUID, now time.Time) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if !w.isAvailable {
		return ErrWorkerIsBusy
	}

	w.isAvailable = false
	w.currentLoad++
	w.currentOrderID = &orderID
	w.updatedAt = now
	return nil
}

// Release returns capacity after delivery completion, cancellation, or a
// compensating rollback: decrements the load, clears the active order, and
// restores availability once the load reaches zero.
func (w *Worker) Release(now time.Time) error {
	if w.currentLoad == 0 {
		return ErrNothingToRelease
	}

	w.currentLoad--
	w.currentOrderID = nil
	if w.currentLoad == 0 {
		w.isAvailable = true
	}
	w.updatedAt = now
	return nil
}
