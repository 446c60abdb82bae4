package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/user"
)

// UserRepository defines the persistence contract for user records.
type UserRepository interface {
	// Add persists a new user record.
	Add(ctx context.Context, aggregate *user.User) error

	// Get retrieves a user by id within the given tenant.
	Get(ctx context.Context, tenantID, id kernel.UUID) (*user.User, error)
}
