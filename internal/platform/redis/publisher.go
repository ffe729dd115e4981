// Package redis forwards business events to a Redis pub/sub channel so
// front ends and other processes can follow task lifecycles.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/bunny/internal/config"
	"github.com/phrazzld/bunny/internal/events"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultPublishTimeout bounds a single PUBLISH round trip.
const DefaultPublishTimeout = 2 * time.Second

// Client is the part of *goredis.Client the Publisher uses.
type Client interface {
	Publish(ctx context.Context, channel string, message interface{}) *goredis.IntCmd
}

// Publisher is an events.EventHandler that PUBLISHes every event as JSON.
type Publisher struct {
	client  Client
	channel string
	timeout time.Duration
	logger  *slog.Logger
}

var _ events.EventHandler = (*Publisher)(nil)

// NewPublisher creates a Publisher writing to channel.
func NewPublisher(client Client, channel string, logger *slog.Logger) (*Publisher, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if channel == "" {
		return nil, errors.New("redis channel cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		client:  client,
		channel: channel,
		timeout: DefaultPublishTimeout,
		logger:  logger.With(slog.String("component", "redis_publisher")),
	}, nil
}

// HandleEvent implements events.EventHandler.
func (p *Publisher) HandleEvent(ctx context.Context, event *events.Event) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.Name, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	receivers, err := p.client.Publish(ctx, p.channel, msg).Result()
	if err != nil {
		return fmt.Errorf("failed to publish event %s to %s: %w", event.Name, p.channel, err)
	}

	p.logger.Debug("event published",
		slog.String("event_name", event.Name),
		slog.String("event_id", event.ID.String()),
		slog.Int64("receivers", receivers))
	return nil
}

// Connect opens a client from the events settings and pings it.
func Connect(ctx context.Context, cfg config.EventsConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	return client, nil
}
