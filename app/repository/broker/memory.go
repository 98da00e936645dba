package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"stock-alert-service/app/domain"
)

const subscriberBuffer = 64

// MemoryBroker is an in-process alert channel for local runs and tests.
// It mirrors the redis driver's loss semantics: a payload published with
// no active subscription is dropped, and a subscriber whose buffer is
// full misses the message.
type MemoryBroker struct {
	mu     sync.Mutex
	subs   []chan domain.EventMessage
	done   chan struct{}
	closed bool
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{done: make(chan struct{})}
}

func (b *MemoryBroker) PublishLowStock(ctx context.Context, event domain.LowStockEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPublishFailed, err)
	}
	b.Inject(payload)
	return nil
}

// Inject delivers a raw payload to every active subscriber, bypassing the
// event schema. Tests use it to put arbitrary bytes on the channel.
func (b *MemoryBroker) Inject(payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	for _, sub := range b.subs {
		select {
		case sub <- domain.EventMessage{Payload: payload, ReceivedAt: now}:
		default:
		}
	}
}

func (b *MemoryBroker) Subscribe(ctx context.Context) (<-chan domain.EventMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, errors.New("broker closed")
	}

	sub := make(chan domain.EventMessage, subscriberBuffer)
	b.subs = append(b.subs, sub)

	go func() {
		select {
		case <-ctx.Done():
		case <-b.done:
		}
		b.remove(sub)
	}()

	return sub, nil
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	close(b.done)
	return nil
}

func (b *MemoryBroker) remove(sub chan domain.EventMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			close(sub)
			return
		}
	}
}
