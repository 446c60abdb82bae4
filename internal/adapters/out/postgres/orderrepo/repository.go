package orderrepo

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// tenantIndexName is the index the tenant-scoped listing prefers. Stores
// migrated without it fall back to a scan filtered in the repository.
const tenantIndexName = "idx_orders_tenant"

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// UpdateWithStatusGuard saves an existing order, succeeding only if the
// stored status still equals expectedStatus. Zero affected rows means a
// concurrent transition won the race and surfaces as a Conflict.
func (r *GormOrderRepository) UpdateWithStatusGuard(
	ctx context.Context, aggregate *order.Order, expectedStatus order.Status,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", dto.ID, expectedStatus.String()).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewConflictError("order", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID within the given tenant. An order belonging
// to another tenant is reported as missing, not as forbidden.
func (r *GormOrderRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*order.Order, error) {
	if err := errors.Join(tenantID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		First(&dto, "id = ? AND tenant_id = ?", id.Bytes(), tenantID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetForOrchestration retrieves an order by ID without a tenant filter.
// Reserved for the queue-driven workflow path, which validates the event
// tenant against the loaded order before acting.
func (r *GormOrderRepository) GetForOrchestration(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListByTenant retrieves the tenant's orders, optionally filtered to one
// status. When the tenant index exists the filter runs in the store; without
// it every row is scanned and filtered here, so results are identical either
// way.
func (r *GormOrderRepository) ListByTenant(
	ctx context.Context, tenantID kernel.UUID, status *order.Status,
) ([]*order.Order, error) {
	if err := tenantID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	if r.db.Migrator().HasIndex(&OrderDTO{}, tenantIndexName) {
		query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID.Bytes())
		if status != nil {
			query = query.Where("status = ?", status.String())
		}
		if err := query.Order("created_at DESC").Find(&dtos).Error; err != nil {
			return nil, err
		}
		return toDomainSlice(dtos)
	}

	var all []OrderDTO
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&all).Error; err != nil {
		return nil, err
	}
	dtos = make([]OrderDTO, 0, len(all))
	for _, dto := range all {
		if dto.TenantID != tenantID.Bytes() {
			continue
		}
		if status != nil && dto.Status != status.String() {
			continue
		}
		dtos = append(dtos, dto)
	}

	return toDomainSlice(dtos)
}

// ListStalled retrieves orders across all tenants sitting in the given
// status since before olderThan. Reserved for the reconciliation job.
func (r *GormOrderRepository) ListStalled(
	ctx context.Context, status order.Status, olderThan time.Time,
) ([]*order.Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", status.String(), olderThan).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

func toDomainSlice(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
