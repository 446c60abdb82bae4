// Package queue provides the inbound AMQP adapter: it consumes workflow
// events from the orders queue and drives the orchestration handler.
// Delivery is at least once with manual acks; a nil handler result consumes
// the message, an error puts it back for redelivery.
package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

// deliverySource starts consumption from one queue.
type deliverySource interface {
	Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error)
}

// Consumer pulls workflow events and hands them to the orchestration handler.
type Consumer struct {
	source   deliverySource
	handler  *commands.ProcessOrderEventCommandHandler
	queue    string
	prefetch int
	logger   *slog.Logger
}

// NewConsumer creates a workflow event consumer.
func NewConsumer(
	source deliverySource,
	handler *commands.ProcessOrderEventCommandHandler,
	queue string,
	prefetch int,
	logger *slog.Logger,
) *Consumer {
	return &Consumer{
		source:   source,
		handler:  handler,
		queue:    queue,
		prefetch: prefetch,
		logger:   logger.With("component", "workflow_consumer"),
	}
}

// Run consumes until the context is cancelled or the broker closes the
// delivery channel.
func (c *Consumer) Run(ctx context.Context) error {
	deliveries, err := c.source.Consume(c.queue, "orderflow-workflow", c.prefetch)
	if err != nil {
		return err
	}

	c.logger.InfoContext(ctx, "workflow consumer started", slog.String("queue", c.queue))

	for {
		select {
		case <-ctx.Done():
			c.logger.InfoContext(ctx, "workflow consumer stopping")
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				c.logger.WarnContext(ctx, "delivery channel closed by broker")
				return nil
			}
			c.process(ctx, delivery)
		}
	}
}

// process handles one delivery. Malformed messages are acked and dropped:
// redelivering them can never succeed.
func (c *Consumer) process(ctx context.Context, delivery amqp.Delivery) {
	var event ports.OrderEvent
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		c.logger.ErrorContext(ctx, "malformed event, dropping",
			slog.String("routing_key", delivery.RoutingKey),
			slog.Any("error", err))
		c.ack(ctx, delivery)
		return
	}

	cmd, err := commands.NewProcessOrderEventCommand(event)
	if err != nil {
		c.logger.ErrorContext(ctx, "invalid event, dropping",
			slog.String("routing_key", delivery.RoutingKey),
			slog.Any("error", err))
		c.ack(ctx, delivery)
		return
	}

	if err = c.handler.Handle(ctx, cmd); err != nil {
		c.logger.ErrorContext(ctx, "event handling failed, redelivering",
			slog.String("order_id", event.OrderID.String()),
			slog.String("kind", string(event.Kind)),
			slog.Any("error", err))
		if nackErr := delivery.Nack(false, true); nackErr != nil {
			c.logger.ErrorContext(ctx, "nack failed", slog.Any("error", nackErr))
		}
		return
	}

	c.ack(ctx, delivery)
}

func (c *Consumer) ack(ctx context.Context, delivery amqp.Delivery) {
	if err := delivery.Ack(false); err != nil {
		c.logger.ErrorContext(ctx, "ack failed", slog.Any("error", err))
	}
}
