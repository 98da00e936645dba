package broker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stock-alert-service/app/domain"
	"stock-alert-service/config"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/redis/go-redis/v9"
)

// New builds the alert channel driver selected by BROKER_DRIVER, along
// with a shutdown func that releases the underlying connection.
func New(ctx context.Context, cfg config.BrokerConfig) (domain.EventBroker, func(), error) {
	switch cfg.Driver {
	case "redis":
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		b := NewRedisBroker(client, cfg.AlertChannel, cfg.PublishTimeout)
		shutdown := func() {
			_ = b.Close()
			_ = client.Close()
		}
		return b, shutdown, nil

	case "jetstream":
		nc, err := nats.Connect(cfg.NatsURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect nats: %w", err)
		}
		js, err := jetstream.New(nc)
		if err != nil {
			nc.Close()
			return nil, nil, fmt.Errorf("jetstream context: %w", err)
		}
		_, err = js.CreateStream(ctx, jetstream.StreamConfig{
			Name:     strings.ToUpper(cfg.NatsStreamName),
			Subjects: []string{fmt.Sprintf("%s.*", strings.ToLower(cfg.NatsStreamName))},
			Storage:  jetstream.FileStorage,
		})
		if err != nil && !errors.Is(err, jetstream.ErrStreamNameAlreadyInUse) {
			nc.Close()
			return nil, nil, fmt.Errorf("create stream: %w", err)
		}
		b := NewJetStreamBroker(js, cfg.NatsStreamName, cfg.PublishTimeout)
		shutdown := func() {
			_ = b.Close()
			_ = nc.Drain()
		}
		return b, shutdown, nil

	case "memory":
		b := NewMemoryBroker()
		return b, func() { _ = b.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown broker driver %q", cfg.Driver)
	}
}
