package rabbitmq

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"orderflow/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Retry delay doubles with each attempt, capped at maxRetryDelay.
const (
	baseRetryDelay = 5 * time.Second
	maxRetryDelay  = 2 * time.Minute
)

// channelPublisher is the slice of the AMQP channel the work queue needs.
type channelPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AmqpWorkQueue implements ports.WorkQueue over the orders topic exchange.
// Events are persistent JSON messages routed by their kind.
type AmqpWorkQueue struct {
	ch channelPublisher
	mu sync.Mutex
}

// NewAmqpWorkQueue creates a work queue publisher over the given channel.
func NewAmqpWorkQueue(ch channelPublisher) *AmqpWorkQueue {
	return &AmqpWorkQueue{ch: ch}
}

// Publish enqueues an event for the workflow trigger.
func (q *AmqpWorkQueue) Publish(ctx context.Context, event ports.OrderEvent) error {
	return q.publish(ctx, OrdersExchange, event, "")
}

// Requeue puts an event back with an incremented attempt counter. The message
// goes to the retry exchange with a per-message TTL; when it expires it
// dead-letters back onto the orders exchange under the same routing key.
func (q *AmqpWorkQueue) Requeue(ctx context.Context, event ports.OrderEvent) error {
	event.Attempt++

	delay := baseRetryDelay << (event.Attempt - 1)
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	expiration := strconv.FormatInt(delay.Milliseconds(), 10)

	return q.publish(ctx, RetryExchange, event, expiration)
}

func (q *AmqpWorkQueue) publish(
	ctx context.Context, exchange string, event ports.OrderEvent, expiration string,
) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	return q.ch.PublishWithContext(ctx, exchange, string(event.Kind), false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		Expiration:   expiration,
		Body:         body,
	})
}
