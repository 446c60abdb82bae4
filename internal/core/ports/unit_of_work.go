package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command invocation,
// keeping concurrent operations isolated from each other.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary with repository
// access bound to the transaction. Client code manages the lifecycle
// explicitly: Begin, operate, Commit or Rollback.
type UnitOfWork interface {
	// Begin starts a new store transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction. Safe to defer after a
	// commit; rolling back a finished transaction is a no-op error.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// WorkerRepository returns a WorkerRepository bound to the current transaction.
	WorkerRepository() WorkerRepository

	// UserRepository returns a UserRepository bound to the current transaction.
	UserRepository() UserRepository
}
