package domain

import (
	"context"
	"time"
)

// EventMessage is one raw message taken off the alert channel. Ack is nil
// for drivers without acknowledgment; when set, the consumer calls it
// after handling reaches a terminal state.
type EventMessage struct {
	Payload    []byte
	ReceivedAt time.Time
	Ack        func() error
}

// EventPublisher publishes low-stock events to the alert channel.
// Publishing is fire-and-forget: delivery is not guaranteed and callers
// must never let a publish error affect the stock mutation that raised it.
type EventPublisher interface {
	PublishLowStock(ctx context.Context, event LowStockEvent) error
}

// EventSubscriber hands out messages from the alert channel. The returned
// channel is closed when ctx is canceled or the subscriber is closed;
// messages published while no subscription is active are lost on
// best-effort drivers.
type EventSubscriber interface {
	Subscribe(ctx context.Context) (<-chan EventMessage, error)
	Close() error
}

type EventBroker interface {
	EventPublisher
	EventSubscriber
}
