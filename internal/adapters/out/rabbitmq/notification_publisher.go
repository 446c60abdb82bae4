package rabbitmq

import (
	"context"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// NotificationPublisher broadcasts notification payloads over the fanout
// exchange. Realtime consumers (dashboards, websocket bridges) each bind
// their own queue.
type NotificationPublisher struct {
	ch channelPublisher
	mu sync.Mutex
}

// NewNotificationPublisher creates a fanout publisher over the given channel.
func NewNotificationPublisher(ch channelPublisher) *NotificationPublisher {
	return &NotificationPublisher{ch: ch}
}

// Broadcast publishes one pre-rendered JSON payload to every bound consumer.
func (p *NotificationPublisher) Broadcast(ctx context.Context, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.PublishWithContext(ctx, NotificationsExchange, "", false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}
