// Package userrepo provides data transfer objects and mapping functions for
// user persistence.
package userrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/user"

	"github.com/google/uuid"
)

// UserDTO represents the database structure for persisting user records.
type UserDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID `gorm:"type:uuid;index"`
	Role      string    `gorm:"type:varchar(16)"`
	Name      string    `gorm:"not null"`
	Email     string
	CreatedAt time.Time
}

// TableName specifies the database table name for user entities.
func (UserDTO) TableName() string {
	return "users"
}

// fromDomain converts a user record to its database representation.
func fromDomain(aggregate *user.User) UserDTO {
	return UserDTO{
		ID:        aggregate.ID().Bytes(),
		TenantID:  aggregate.TenantID().Bytes(),
		Role:      aggregate.Role().String(),
		Name:      aggregate.Name(),
		Email:     aggregate.Email(),
		CreatedAt: aggregate.CreatedAt(),
	}
}

// toDomain converts a database DTO to a user record using RestoreUser.
func toDomain(dto UserDTO) (*user.User, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
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

	return user.RestoreUser(id, tenantID, role, dto.Name, dto.Email, dto.CreatedAt)
}
