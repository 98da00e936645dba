package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"stock-alert-service/app/domain"

	"github.com/redis/go-redis/v9"
)

// redisBroker is the best-effort default driver. Redis pub/sub keeps
// nothing: a message published while the consumer is down, or dropped by
// a full subscriber buffer, is gone. That is the alert channel's contract.
type redisBroker struct {
	client  *redis.Client
	channel string
	timeout time.Duration
	sub     *redis.PubSub
}

func NewRedisBroker(client *redis.Client, channel string, publishTimeout time.Duration) domain.EventBroker {
	return &redisBroker{
		client:  client,
		channel: channel,
		timeout: publishTimeout,
	}
}

func (b *redisBroker) PublishLowStock(ctx context.Context, event domain.LowStockEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.ErrorContext(ctx, "[redisBroker] PublishLowStock", "json.Marshal", err)
		return fmt.Errorf("%w: %v", domain.ErrPublishFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		slog.ErrorContext(ctx, "[redisBroker] PublishLowStock", "publish", err)
		return fmt.Errorf("%w: %v", domain.ErrPublishFailed, err)
	}

	slog.InfoContext(ctx, "[redisBroker] PublishLowStock", "channel", b.channel, "product_id", event.ProductID)
	return nil
}

func (b *redisBroker) Subscribe(ctx context.Context) (<-chan domain.EventMessage, error) {
	sub := b.client.Subscribe(ctx, b.channel)

	// Confirm the subscription before handing out the channel, so the
	// caller knows it is attached from this point on.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	b.sub = sub

	out := make(chan domain.EventMessage)
	go func() {
		defer close(out)
		for {
			select {
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				event := domain.EventMessage{Payload: []byte(msg.Payload), ReceivedAt: time.Now()}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (b *redisBroker) Close() error {
	if b.sub != nil {
		return b.sub.Close()
	}
	return nil
}
