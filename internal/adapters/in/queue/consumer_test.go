package queue

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/commands"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAcknowledger struct {
	mock.Mock
}

func (m *MockAcknowledger) Ack(tag uint64, multiple bool) error {
	args := m.Called(tag, multiple)
	return args.Error(0)
}

func (m *MockAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	args := m.Called(tag, multiple, requeue)
	return args.Error(0)
}

func (m *MockAcknowledger) Reject(tag uint64, requeue bool) error {
	args := m.Called(tag, requeue)
	return args.Error(0)
}

type stubSource struct {
	deliveries chan amqp.Delivery
}

func (s *stubSource) Consume(_, _ string, _ int) (<-chan amqp.Delivery, error) {
	return s.deliveries, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// emptyHandler is safe for paths that never reach orchestration.
func emptyHandler() *commands.ProcessOrderEventCommandHandler {
	handler := commands.NewProcessOrderEventCommandHandler(nil, nil, nil, nil, testLogger())
	return &handler
}

func TestRun_MalformedMessage_IsAckedAndDropped(t *testing.T) {
	acker := new(MockAcknowledger)
	acker.On("Ack", uint64(7), false).Return(nil).Once()

	source := &stubSource{deliveries: make(chan amqp.Delivery, 1)}
	source.deliveries <- amqp.Delivery{
		Acknowledger: acker,
		DeliveryTag:  7,
		Body:         []byte("not json"),
	}

	consumer := NewConsumer(source, emptyHandler(), "orders.workflow.q", 1, testLogger())

	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
	defer cancel()
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := consumer.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	acker.AssertExpectations(t)
	acker.AssertNotCalled(t, "Nack", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_EventWithoutIdentity_IsAckedAndDropped(t *testing.T) {
	acker := new(MockAcknowledger)
	acker.On("Ack", uint64(3), false).Return(nil).Once()

	source := &stubSource{deliveries: make(chan amqp.Delivery, 1)}
	source.deliveries <- amqp.Delivery{
		Acknowledger: acker,
		DeliveryTag:  3,
		Body:         []byte(`{"kind":"order.created"}`),
	}

	consumer := NewConsumer(source, emptyHandler(), "orders.workflow.q", 1, testLogger())

	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
	defer cancel()
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := consumer.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	acker.AssertExpectations(t)
}

func TestRun_ClosedDeliveryChannel_ReturnsNil(t *testing.T) {
	source := &stubSource{deliveries: make(chan amqp.Delivery)}
	close(source.deliveries)

	consumer := NewConsumer(source, emptyHandler(), "orders.workflow.q", 1, testLogger())

	err := consumer.Run(t.Context())
	require.NoError(t, err)
}
