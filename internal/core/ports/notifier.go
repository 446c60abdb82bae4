package ports

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// Notifier delivers best-effort customer-facing updates for accepted
// transitions. Implementations render a per-status template and fan it out
// over the realtime channel and, for important statuses, email.
//
// Notify never returns an error: delivery failures are logged and swallowed
// inside the adapter, because a notification outage must not block order
// progress, and the transition that triggered the notification has already
// been persisted.
type Notifier interface {
	Notify(ctx context.Context, o *order.Order, previousStatus order.Status)
}
