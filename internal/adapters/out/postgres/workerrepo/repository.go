package workerrepo

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/worker"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// tenantIndexName is the index the candidate pool listing prefers.
const tenantIndexName = "idx_workers_tenant"

// GormWorkerRepository implements WorkerRepository using GORM.
type GormWorkerRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormWorkerRepository creates a new GORM worker repository.
func NewGormWorkerRepository(db *gorm.DB, tracker aggregateTracker) *GormWorkerRepository {
	return &GormWorkerRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new worker to the database.
func (r *GormWorkerRepository) Add(ctx context.Context, aggregate *worker.Worker) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing worker without preconditions. Used for
// provisioning-level mutations only.
func (r *GormWorkerRepository) Update(ctx context.Context, aggregate *worker.Worker) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&WorkerDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// UpdateIfAvailable saves a claimed worker, succeeding only if the stored
// record is still marked available. Zero affected rows means a concurrent
// claim won and surfaces as a Conflict for the matcher to reselect on.
func (r *GormWorkerRepository) UpdateIfAvailable(ctx context.Context, aggregate *worker.Worker) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&WorkerDTO{}).
		Where("id = ? AND is_available = ?", dto.ID, true).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("worker", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// UpdateIfLoad saves a released worker, succeeding only if the stored load
// still equals expectedLoad. Protects the decrement against a concurrent
// release replay.
func (r *GormWorkerRepository) UpdateIfLoad(
	ctx context.Context, aggregate *worker.Worker, expectedLoad int,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&WorkerDTO{}).
		Where("id = ? AND current_load = ?", dto.ID, expectedLoad).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("worker", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a worker by record ID within the given tenant.
func (r *GormWorkerRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*worker.Worker, error) {
	if err := errors.Join(tenantID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto WorkerDTO
	err := r.db.WithContext(ctx).
		First(&dto, "id = ? AND tenant_id = ?", id.Bytes(), tenantID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("worker", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByUserID retrieves the worker record owned by an authenticated user
// within the given tenant.
func (r *GormWorkerRepository) GetByUserID(
	ctx context.Context, tenantID, userID kernel.UUID,
) (*worker.Worker, error) {
	if err := errors.Join(tenantID.Validate(), userID.Validate()); err != nil {
		return nil, err
	}

	var dto WorkerDTO
	err := r.db.WithContext(ctx).
		First(&dto, "user_id = ? AND tenant_id = ?", userID.Bytes(), tenantID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("worker", userID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListAvailable retrieves the tenant's available workers of one role in
// selection order. Prefers the tenant index; without it the rows are scanned
// and filtered here with identical results.
func (r *GormWorkerRepository) ListAvailable(
	ctx context.Context, tenantID kernel.UUID, role kernel.Role,
) ([]*worker.Worker, error) {
	if err := errors.Join(tenantID.Validate(), worker.ValidateRole(role)); err != nil {
		return nil, err
	}

	var dtos []WorkerDTO
	if r.db.Migrator().HasIndex(&WorkerDTO{}, tenantIndexName) {
		err := r.db.WithContext(ctx).
			Where("tenant_id = ? AND role = ? AND is_available = ?",
				tenantID.Bytes(), role.String(), true).
			Order("current_load, created_at").
			Find(&dtos).Error
		if err != nil {
			return nil, err
		}
		return toDomainSlice(dtos)
	}

	var all []WorkerDTO
	err := r.db.WithContext(ctx).Order("current_load, created_at").Find(&all).Error
	if err != nil {
		return nil, err
	}
	dtos = make([]WorkerDTO, 0, len(all))
	for _, dto := range all {
		if dto.TenantID != tenantID.Bytes() || dto.Role != role.String() || !dto.IsAvailable {
			continue
		}
		dtos = append(dtos, dto)
	}

	return toDomainSlice(dtos)
}

// ListEngaged retrieves workers currently marked unavailable across all
// tenants. Reserved for the reconciliation job.
func (r *GormWorkerRepository) ListEngaged(ctx context.Context) ([]*worker.Worker, error) {
	var dtos []WorkerDTO
	err := r.db.WithContext(ctx).
		Where("is_available = ?", false).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

func toDomainSlice(dtos []WorkerDTO) ([]*worker.Worker, error) {
	workers := make([]*worker.Worker, 0, len(dtos))
	for _, dto := range dtos {
		w, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}
	return workers, nil
}
