package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Every read is tenant-scoped: a lookup from the wrong tenant returns the
// same NotFound a nonexistent order would, so existence never leaks across
// tenants. The single exception is GetForOrchestration, reserved for the
// queue-driven workflow path.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// UpdateWithStatusGuard persists changes to an existing order, succeeding
	// only if the stored status still equals expectedStatus. Returns a
	// Conflict error when another invocation advanced the order first; the
	// caller re-reads and revalidates. This conditional write is what
	// linearizes transitions on a single order.
	UpdateWithStatusGuard(ctx context.Context, aggregate *order.Order, expectedStatus order.Status) error

	// Get retrieves an order by id within the given tenant.
	Get(ctx context.Context, tenantID, id kernel.UUID) (*order.Order, error)

	// GetForOrchestration retrieves an order by id without a tenant filter.
	// Only the workflow trigger may use it, for events whose tenant is not
	// yet trusted; the caller must validate the event tenant against the
	// loaded order before any mutation.
	GetForOrchestration(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListByTenant retrieves the tenant's orders, optionally filtered to one
	// status. Uses the tenant index when present and falls back to a scan
	// filtered client-side; callers never see which strategy ran.
	ListByTenant(ctx context.Context, tenantID kernel.UUID, status *order.Status) ([]*order.Order, error)

	// ListStalled retrieves orders across all tenants sitting in the given
	// status since before olderThan. Reserved for the reconciliation job that
	// republishes events lost between a commit and its publish.
	ListStalled(ctx context.Context, status order.Status, olderThan time.Time) ([]*order.Order, error)
}
