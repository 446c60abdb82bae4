// Package rabbitmq provides the AMQP wiring for asynchronous order
// orchestration: a topic exchange carrying workflow events, a TTL retry queue
// that dead-letters expired messages back onto the topic, and a fanout
// exchange feeding realtime notification consumers.
package rabbitmq

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange and queue names. The retry queue has no consumers: messages sit
// there until their per-message TTL expires, then dead-letter back to the
// orders exchange under their original routing key.
const (
	OrdersExchange        = "orders_topic"
	RetryExchange         = "orders_retry"
	NotificationsExchange = "notifications_fanout"

	WorkflowQueue      = "orders.workflow.q"
	RetryQueue         = "orders.workflow.retry.q"
	NotificationsQueue = "notifications.q"

	workflowBinding = "order.*"
)

// Client wraps one AMQP connection and channel. Channels are not safe for
// concurrent publishing; each publisher serializes access itself.
type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial connects to the broker and opens a channel.
func Dial(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &Client{conn: conn, ch: ch}, nil
}

// Channel exposes the underlying AMQP channel.
func (c *Client) Channel() *amqp.Channel {
	return c.ch
}

// Close shuts down the channel and connection.
func (c *Client) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// DeclareTopology declares the exchanges, queues, and bindings. Declarations
// are idempotent, so every process declares the full topology at startup and
// the first one wins.
func (c *Client) DeclareTopology() error {
	if err := c.ch.ExchangeDeclare(OrdersExchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	if err := c.ch.ExchangeDeclare(RetryExchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	if err := c.ch.ExchangeDeclare(NotificationsExchange, "fanout", true, false, false, false, nil); err != nil {
		return err
	}

	if _, err := c.ch.QueueDeclare(WorkflowQueue, true, false, false, false, nil); err != nil {
		return err
	}
	// No x-dead-letter-routing-key: the original key is kept, so an expired
	// order.created retry lands back on the workflow queue as order.created.
	if _, err := c.ch.QueueDeclare(RetryQueue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange": OrdersExchange,
	}); err != nil {
		return err
	}
	if _, err := c.ch.QueueDeclare(NotificationsQueue, true, false, false, false, nil); err != nil {
		return err
	}

	if err := c.ch.QueueBind(WorkflowQueue, workflowBinding, OrdersExchange, false, nil); err != nil {
		return err
	}
	if err := c.ch.QueueBind(RetryQueue, workflowBinding, RetryExchange, false, nil); err != nil {
		return err
	}
	return c.ch.QueueBind(NotificationsQueue, "", NotificationsExchange, false, nil)
}

// Consume starts delivering messages from the queue with manual
// acknowledgement and the given prefetch window.
func (c *Client) Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error) {
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}
	return c.ch.Consume(queue, consumer, false, false, false, false, nil)
}
