package consumer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"stock-alert-service/app/domain"
	"stock-alert-service/config"
	"stock-alert-service/pkg/ctxutil"

	"github.com/gofrs/uuid/v5"
)

// Consumer pulls messages off the alert channel and runs each one
// through the notification service on a bounded worker pool.
type Consumer struct {
	subscriber    domain.EventSubscriber
	service       domain.NotificationService
	handleTimeout time.Duration
	shutdownGrace time.Duration

	sem chan struct{}
	wg  sync.WaitGroup
}

func New(subscriber domain.EventSubscriber, service domain.NotificationService, cfg config.ConsumerConfig) *Consumer {
	return &Consumer{
		subscriber:    subscriber,
		service:       service,
		handleTimeout: cfg.HandleTimeout,
		shutdownGrace: cfg.ShutdownGrace,
		sem:           make(chan struct{}, cfg.Workers),
	}
}

// Run blocks until ctx is cancelled or the subscription closes, then
// waits for in-flight messages up to the shutdown grace period. One bad
// message never stops the loop; every outcome is handled per message.
func (c *Consumer) Run(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "[consumer] Run", "subscribe", err)
		return err
	}

	slog.InfoContext(ctx, "[consumer] Run", "workers", cap(c.sem))

	for {
		select {
		case <-ctx.Done():
			c.drain()
			return nil
		case msg, ok := <-messages:
			if !ok {
				slog.WarnContext(ctx, "[consumer] Run", "subscription", "closed")
				c.drain()
				return nil
			}
			c.dispatch(ctx, msg)
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, msg domain.EventMessage) {
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		slog.WarnContext(ctx, "[consumer] dispatch", "dropped", "shutting down")
		return
	}

	c.wg.Add(1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("[consumer] handle", "panic", r)
			}
			<-c.sem
			c.wg.Done()
		}()
		c.handle(msg)
	}()
}

func (c *Consumer) handle(msg domain.EventMessage) {
	// Detached from the loop context so an in-flight message finishes
	// during drain. Each message gets its own request id, so its log
	// records correlate like an HTTP request's.
	handleCtx := context.Background()
	if reqID, err := uuid.NewV4(); err == nil {
		handleCtx = ctxutil.WithRequestID(handleCtx, reqID.String())
	}
	handleCtx, cancel := context.WithTimeout(handleCtx, c.handleTimeout)
	defer cancel()

	if err := c.service.ProcessEvent(handleCtx, msg.Payload, msg.ReceivedAt); err != nil {
		slog.ErrorContext(handleCtx, "[consumer] handle", "processEvent", err)
	}

	// A failed outcome is recorded on the notification itself and is
	// terminal, so the message is acked either way; redelivery would
	// only duplicate the record.
	if msg.Ack != nil {
		if err := msg.Ack(); err != nil {
			slog.WarnContext(handleCtx, "[consumer] handle", "ack", err)
		}
	}
}

func (c *Consumer) drain() {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("[consumer] drain", "inFlight", "done")
	case <-time.After(c.shutdownGrace):
		slog.Warn("[consumer] drain", "timeout", c.shutdownGrace)
	}
}
