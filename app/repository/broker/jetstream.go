package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"stock-alert-service/app/domain"

	"github.com/nats-io/nats.go/jetstream"
)

// consumerName is the durable consumer the notifier attaches to. Keeping
// it stable lets a restarted notifier pick up messages published while it
// was down, which is the whole point of this driver.
const consumerName = "notifier"

// jetStreamBroker is the store-and-forward variant of the alert channel.
// Messages survive consumer downtime and are redelivered until acked, so
// consumers must expect to see a message more than once.
type jetStreamBroker struct {
	js      jetstream.JetStream
	stream  string
	subject string
	timeout time.Duration
	iter    jetstream.MessagesContext
}

func NewJetStreamBroker(js jetstream.JetStream, streamName string, publishTimeout time.Duration) domain.EventBroker {
	return &jetStreamBroker{
		js:      js,
		stream:  strings.ToUpper(streamName),
		subject: fmt.Sprintf("%s.%s", strings.ToLower(streamName), domain.EventTypeLowStock),
		timeout: publishTimeout,
	}
}

func (b *jetStreamBroker) PublishLowStock(ctx context.Context, event domain.LowStockEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.ErrorContext(ctx, "[jetStreamBroker] PublishLowStock", "json.Marshal", err)
		return fmt.Errorf("%w: %v", domain.ErrPublishFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	if _, err := b.js.Publish(ctx, b.subject, payload); err != nil {
		slog.ErrorContext(ctx, "[jetStreamBroker] PublishLowStock", "publish", err)
		return fmt.Errorf("%w: %v", domain.ErrPublishFailed, err)
	}

	slog.InfoContext(ctx, "[jetStreamBroker] PublishLowStock", "subject", b.subject, "product_id", event.ProductID)
	return nil
}

func (b *jetStreamBroker) Subscribe(ctx context.Context) (<-chan domain.EventMessage, error) {
	stream, err := b.js.Stream(ctx, b.stream)
	if err != nil {
		return nil, fmt.Errorf("stream %s: %w", b.stream, err)
	}

	cons, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:       consumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		FilterSubject: b.subject,
	})
	if err != nil {
		return nil, fmt.Errorf("create consumer: %w", err)
	}

	iter, err := cons.Messages()
	if err != nil {
		return nil, fmt.Errorf("messages: %w", err)
	}
	b.iter = iter

	out := make(chan domain.EventMessage)
	go func() {
		defer close(out)
		for {
			msg, err := iter.Next()
			if err != nil {
				// Iterator stopped: context canceled or Close called.
				return
			}
			event := domain.EventMessage{Payload: msg.Data(), ReceivedAt: time.Now(), Ack: msg.Ack}
			select {
			case out <- event:
			case <-ctx.Done():
				iter.Stop()
				return
			}
		}
	}()

	go func() {
		<-ctx.Done()
		iter.Stop()
	}()

	return out, nil
}

func (b *jetStreamBroker) Close() error {
	if b.iter != nil {
		b.iter.Stop()
	}
	return nil
}
