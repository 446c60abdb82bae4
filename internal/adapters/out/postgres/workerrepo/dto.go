// Package workerrepo provides data transfer objects and mapping functions
// for worker persistence. The availability flag and load counter back the
// conditional writes that make concurrent claims and releases safe.
package workerrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/worker"

	"github.com/google/uuid"
)

// WorkerDTO represents the database structure for persisting worker
// aggregates.
type WorkerDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID  `gorm:"type:uuid;index"`
	TenantID       uuid.UUID  `gorm:"type:uuid;index:idx_workers_tenant"`
	Role           string     `gorm:"type:varchar(16);index"`
	Name           string     `gorm:"not null"`
	VehicleType    string
	IsAvailable    bool       `gorm:"index"`
	CurrentLoad    int        `gorm:"not null;default:0"`
	CurrentOrderID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the database table name for worker entities.
func (WorkerDTO) TableName() string {
	return "workers"
}

// fromDomain converts a worker domain aggregate to its database
// representation.
func fromDomain(aggregate *worker.Worker) WorkerDTO {
	var currentOrderID *uuid.UUID
	if id := aggregate.CurrentOrderID(); id != nil {
		raw := id.Bytes()
		currentOrderID = &raw
	}

	return WorkerDTO{
		ID:             aggregate.ID().Bytes(),
		UserID:         aggregate.UserID().Bytes(),
		TenantID:       aggregate.TenantID().Bytes(),
		Role:           aggregate.Role().String(),
		Name:           aggregate.Name(),
		VehicleType:    aggregate.VehicleType(),
		IsAvailable:    aggregate.IsAvailable(),
		CurrentLoad:    aggregate.CurrentLoad(),
		CurrentOrderID: currentOrderID,
		CreatedAt:      aggregate.CreatedAt(),
		UpdatedAt:      aggregate.UpdatedAt(),
	}
}

// toDomain converts a database DTO to a worker domain aggregate using
// RestoreWorker.
func toDomain(dto WorkerDTO) (*worker.Worker, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return nil, err
	}
	role, err := kernel.RoleFromString(dto.Role)
	if err != nil {
		return nil, err
	}

	var currentOrderID *kernel.UUID
	if dto.CurrentOrderID != nil {
		orderID, orderErr := kernel.UUIDFromBytes((*dto.CurrentOrderID)[:])
		if orderErr != nil {
			return nil, orderErr
		}
		currentOrderID = &orderID
	}

	return worker.RestoreWorker(
		id, userID, tenantID, role,
		dto.Name, dto.VehicleType,
		dto.IsAvailable, dto.CurrentLoad, currentOrderID,
		dto.CreatedAt, dto.UpdatedAt,
	)
}
