package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/worker"
)

// WorkerRepository defines the persistence contract for worker aggregates
// (cooks and drivers). Reads are tenant-scoped like orders; ListEngaged is
// the operator-level exception used by the reconciliation job.
type WorkerRepository interface {
	// Add persists a new worker record.
	Add(ctx context.Context, aggregate *worker.Worker) error

	// Update persists changes to an existing worker without preconditions.
	// Used for provisioning-level mutations, never for claim or release.
	Update(ctx context.Context, aggregate *worker.Worker) error

	// UpdateIfAvailable persists a claimed worker, succeeding only if the
	// stored record is still marked available. Returns a Conflict error when
	// another assignment path claimed the worker first; the matcher then
	// re-runs selection against the remaining pool.
	UpdateIfAvailable(ctx context.Context, aggregate *worker.Worker) error

	// UpdateIfLoad persists a released worker, succeeding only if the stored
	// load still equals expectedLoad. Protects the decrement against a
	// concurrent release replay.
	UpdateIfLoad(ctx context.Context, aggregate *worker.Worker, expectedLoad int) error

	// Get retrieves a worker by record id within the given tenant.
	Get(ctx context.Context, tenantID, id kernel.UUID) (*worker.Worker, error)

	// GetByUserID retrieves the worker record owned by an authenticated user
	// within the given tenant.
	GetByUserID(ctx context.Context, tenantID, userID kernel.UUID) (*worker.Worker, error)

	// ListAvailable retrieves the tenant's available workers of one role,
	// the candidate pool for selection. Uses the tenant index when present
	// with a scan fallback filtered client-side.
	ListAvailable(ctx context.Context, tenantID kernel.UUID, role kernel.Role) ([]*worker.Worker, error)

	// ListEngaged retrieves workers currently marked unavailable across all
	// tenants. Reserved for the reconciliation job that hunts for workers
	// stuck busy after a failed assignment.
	ListEngaged(ctx context.Context) ([]*worker.Worker, error)
}
