package order

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// Domain errors for order operations.
var (
	// ErrOrderIsNotConstructed is returned when an Order did not come through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
	// ErrCookIsRequired is returned when moving to PREPARING without an
	// assigned cook. The Capacity Matcher sets the cook, never this aggregate's
	// transition path.
	ErrCookIsRequired = errs.NewValueIsRequiredError("cookId must be set before PREPARING")
	// ErrDriverIsRequired is returned when moving to ASSIGNED without an
	// assigned driver.
	ErrDriverIsRequired = errs.NewValueIsRequiredError("driverId must be set before ASSIGNED")
	// ErrItemsAreRequired is returned when creating an order without lines.
	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")
)

// Order is the aggregate root carrying an order through its lifecycle.
//
// Invariants:
//   - status is always a member of the defined vocabulary and never moves
//     backward once advanced (CANCELLED excepted)
//   - tenantID is immutable once set
//   - cookID/driverID are written only through AssignCook/AssignDriver,
//     which the Capacity Matcher drives; client requests never set them
//   - totalCents equals the sum of item subtotals at creation time and is
//     immutable thereafter
//
// driverID and cookID hold the worker's user identity, not the internal
// worker record id, because downstream services authorize against the
// authenticated user.
type Order struct {
	id         kernel.UUID
	tenantID   kernel.UUID
	customerID kernel.UUID

	items      []Item
	totalCents int64

	status     Status
	cookID     *kernel.UUID
	driverID   *kernel.UUID
	driverName string

	address string
	notes   string

	createdAt  time.Time
	updatedAt  time.Time
	assignedAt *time.Time

	history []StatusChange

	guard kernel.ConstructorGuard
}

// NewOrder creates an order in CREATED status. The total is computed from the
// item subtotals here and never recomputed.
func NewOrder(
	id kernel.UUID,
	tenantID kernel.UUID,
	customerID kernel.UUID,
	items []Item,
	address string,
	notes string,
	now time.Time,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		tenantID.Validate(),
		customerID.Validate(),
	); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrItemsAreRequired
	}
	if address == "" {
		return nil, errs.NewValueIsRequiredError("address")
	}

	var total int64
	for _, item := range items {
		total += item.SubtotalCents()
	}

	return &Order{
		id:         id,
		tenantID:   tenantID,
		customerID: customerID,
		items:      items,
		totalCents: total,
		status:     Created,
		address:    address,
		notes:      notes,
		createdAt:  now,
		updatedAt:  now,
		history:    []StatusChange{},
		guard:      kernel.NewConstructorGuard(),
	}, nil
}

// RestoreOrder reconstructs an order from persistence without re-running
// creation rules. The stored total is trusted as written.
func RestoreOrder(
	id kernel.UUID,
	tenantID kernel.UUID,
	customerID kernel.UUID,
	items []Item,
	totalCents int64,
	status Status,
	cookID *kernel.UUID,
	driverID *kernel.UUID,
	driverName string,
	address string,
	notes string,
	createdAt time.Time,
	updatedAt time.Time,
	assignedAt *time.Time,
	history []StatusChange,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		tenantID.Validate(),
		customerID.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	return &Order{
		id:         id,
		tenantID:   tenantID,
		customerID: customerID,
		items:      items,
		totalCents: totalCents,
		status:     status,
		cookID:     cookID,
		driverID:   driverID,
		driverName: driverName,
		address:    address,
		notes:      notes,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
		assignedAt: assignedAt,
		history:    history,
		guard:      kernel.NewConstructorGuard(),
	}, nil
}

// Validate ensures the order came through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// ID returns the order identity.
func (o *Order) ID() kernel.UUID { return o.id }

// TenantID returns the owning tenant. Immutable for the order's lifetime.
func (o *Order) TenantID() kernel.UUID { return o.tenantID }

// CustomerID returns the ordering customer's user identity.
func (o *Order) CustomerID() kernel.UUID { return o.customerID }

// Items returns the order lines.
func (o *Order) Items() []Item { return o.items }

// TotalCents returns the total fixed at creation time.
func (o *Order) TotalCents() int64 { return o.totalCents }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// CookID returns the assigned cook's user identity, or nil.
func (o *Order) CookID() *kernel.UUID { return o.cookID }

// DriverID returns the assigned driver's user identity, or nil.
func (o *Order) DriverID() *kernel.UUID { return o.driverID }

// DriverName returns the assigned driver's display name.
func (o *Order) DriverName() string { return o.driverName }

// Address returns the delivery address.
func (o *Order) Address() string { return o.address }

// Notes returns the free-text order notes.
func (o *Order) Notes() string { return o.notes }

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// UpdatedAt returns the last mutation timestamp.
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// AssignedAt returns when a driver was assigned, or nil.
func (o *Order) AssignedAt() *time.Time { return o.assignedAt }

// History returns the audit trail of accepted transitions.
func (o *Order) History() []StatusChange { return o.history }

// AssignCook records the cook selected by the Capacity Matcher. Allowed only
// while the order is still CREATED; the matcher then drives the transition to
// PREPARING separately.
func (o *Order) AssignCook(cookUserID kernel.UUID, now time.Time) error {
	if err := cookUserID.Validate(); err != nil {
		return err
	}
	if o.status != Created {
		return errs.NewInvalidTransitionError(string(o.status), "cook assignment")
	}

	o.cookID = &cookUserID
	o.updatedAt = now
	return nil
}

// AssignDriver records the driver selected by the Capacity Matcher. Allowed
// only while the order is READY; the matcher then drives the transition to
// ASSIGNED separately.
func (o *Order) AssignDriver(driverUserID kernel.UUID, driverName string, now time.Time) error {
	if err := driverUserID.Validate(); err != nil {
		return err
	}
	if o.status != Ready {
		return errs.NewInvalidTransitionError(string(o.status), "driver assignment")
	}

	o.driverID = &driverUserID
	o.driverName = driverName
	o.assignedAt = &now
	o.updatedAt = now
	return nil
}

// ChangeStatus applies a validated transition, enforcing assignment
// preconditions and appending an audit entry. Requesting the current status
// again is rejected here; the idempotent-accept rule for replays lives in the
// transition engine, which short-circuits before calling this.
func (o *Order) ChangeStatus(next Status, actor kernel.Actor, now time.Time) error {
	newStatus, err := o.status.TransitionTo(next)
	if err != nil {
		return err
	}

	switch newStatus {
	case Preparing:
		if o.cookID == nil {
			return ErrCookIsRequired
		}
	case Assigned:
		if o.driverID == nil {
			return ErrDriverIsRequired
		}
	}

	o.status = newStatus
	o.updatedAt = now
	o.history = append(o.history, NewStatusChange(newStatus, actor, now))
	return nil
}

// IsAssignedCook reports whether the given user is the cook on this order.
func (o *Order) IsAssignedCook(userID kernel.UUID) bool {
	return o.cookID != nil && o.cookID.IsEqual(userID)
}

// IsAssignedDriver reports whether the given user is the driver on this order.
func (o *Order) IsAssignedDriver(userID kernel.UUID) bool {
	return o.driverID != nil && o.driverID.IsEqual(userID)
}
