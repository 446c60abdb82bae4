package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
)

// OrderEventKind names the asynchronous events the workflow trigger consumes.
type OrderEventKind string

const (
	// OrderCreatedEvent is published when an order enters the system and
	// needs a cook assigned.
	OrderCreatedEvent OrderEventKind = "order.created"
	// OrderReadyEvent is published when the kitchen finishes and the order
	// needs a driver assigned.
	OrderReadyEvent OrderEventKind = "order.ready"
)

// OrderEvent is one self-contained, replayable unit of orchestration work.
// Delivery is at least once; consumers must be idempotent. Attempt counts
// prior deliveries of the same logical event so requeues stay bounded.
type OrderEvent struct {
	Kind     OrderEventKind `json:"kind"`
	OrderID  kernel.UUID    `json:"order_id"`
	TenantID kernel.UUID    `json:"tenant_id"`
	Attempt  int            `json:"attempt"`
}

// WorkQueue publishes orchestration events for asynchronous processing.
type WorkQueue interface {
	// Publish enqueues an event for the workflow trigger.
	Publish(ctx context.Context, event OrderEvent) error

	// Requeue re-enqueues an event after a NoCapacity outcome with an
	// incremented attempt counter and backoff proportional to the attempt.
	// The caller enforces the attempt ceiling before requeueing.
	Requeue(ctx context.Context, event OrderEvent) error
}
