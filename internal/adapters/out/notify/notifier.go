// Package notify implements the best-effort notification fanout: every
// accepted transition is rendered into a customer-facing message, broadcast
// over the realtime channel, and, for the statuses a customer actually waits
// on, emailed. Failures are logged and swallowed; the transition that
// triggered the notification is already committed and must not be held
// hostage by a messaging outage.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/user"
)

// broadcaster publishes a rendered payload to the realtime channel.
type broadcaster interface {
	Broadcast(ctx context.Context, body []byte) error
}

// mailSender delivers one email.
type mailSender interface {
	Send(to, subject, body string) error
}

// userReader resolves the customer record for email delivery.
type userReader interface {
	Get(ctx context.Context, tenantID, id kernel.UUID) (*user.User, error)
}

// notificationPayload is the wire shape broadcast to realtime consumers.
type notificationPayload struct {
	OrderID        string    `json:"order_id"`
	TenantID       string    `json:"tenant_id"`
	CustomerID     string    `json:"customer_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status"`
	DriverName     string    `json:"driver_name,omitempty"`
	Message        string    `json:"message"`
	At             time.Time `json:"at"`
}

// FanoutNotifier implements ports.Notifier.
type FanoutNotifier struct {
	channel broadcaster
	mailer  mailSender
	users   userReader
	logger  *slog.Logger
}

// NewFanoutNotifier creates a notifier over the given realtime channel and
// mailer.
func NewFanoutNotifier(
	channel broadcaster,
	mailer mailSender,
	users userReader,
	logger *slog.Logger,
) *FanoutNotifier {
	return &FanoutNotifier{
		channel: channel,
		mailer:  mailer,
		users:   users,
		logger:  logger.With("component", "notifier"),
	}
}

// Notify renders and delivers the update for one accepted transition.
func (n *FanoutNotifier) Notify(ctx context.Context, o *order.Order, previousStatus order.Status) {
	message := renderMessage(o)

	payload := notificationPayload{
		OrderID:        o.ID().String(),
		TenantID:       o.TenantID().String(),
		CustomerID:     o.CustomerID().String(),
		Status:         o.Status().String(),
		PreviousStatus: previousStatus.String(),
		DriverName:     o.DriverName(),
		Message:        message,
		At:             time.Now().UTC(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		n.logger.Warn("failed to render notification payload",
			slog.String("order_id", o.ID().String()),
			slog.Any("error", err))
		return
	}

	if err = n.channel.Broadcast(ctx, body); err != nil {
		n.logger.Warn("realtime notification failed",
			slog.String("order_id", o.ID().String()),
			slog.String("status", o.Status().String()),
			slog.Any("error", err))
	}

	if !emailWorthy(o.Status()) {
		return
	}
	n.email(ctx, o, message)
}

func (n *FanoutNotifier) email(ctx context.Context, o *order.Order, message string) {
	customer, err := n.users.Get(ctx, o.TenantID(), o.CustomerID())
	if err != nil {
		n.logger.Warn("customer lookup for email failed",
			slog.String("order_id", o.ID().String()),
			slog.String("customer_id", o.CustomerID().String()),
			slog.Any("error", err))
		return
	}
	if customer.Email() == "" {
		return
	}

	subject := fmt.Sprintf("Your order is %s", o.Status().String())
	if err = n.mailer.Send(customer.Email(), subject, message); err != nil {
		n.logger.Warn("email notification failed",
			slog.String("order_id", o.ID().String()),
			slog.Any("error", err))
	}
}

// emailWorthy selects the statuses customers are actually waiting to hear
// about. Intermediate kitchen stages stay on the realtime channel only.
func emailWorthy(status order.Status) bool {
	return status == order.Delivered || status == order.Cancelled
}

// renderMessage picks the per-status template.
func renderMessage(o *order.Order) string {
	switch o.Status() {
	case order.Created:
		return "We received your order and sent it to the kitchen."
	case order.Preparing:
		return "Your order is being prepared."
	case order.Ready:
		return "Your order is ready and waiting for a driver."
	case order.Assigned:
		if o.DriverName() != "" {
			return fmt.Sprintf("%s will deliver your order.", o.DriverName())
		}
		return "A driver has been assigned to your order."
	case order.Delivering:
		return "Your order is on its way."
	case order.Delivered:
		return "Your order was delivered. Enjoy!"
	case order.Cancelled:
		return "Your order was cancelled."
	default:
		return fmt.Sprintf("Your order is now %s.", o.Status().String())
	}
}
