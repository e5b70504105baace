package eventbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/usdtgate/pkg/eventbus"
	"github.com/redis/go-redis/v9"
)

// RedisStreamPublisher appends events to a Redis stream. The stream is
// capped at roughly maxLen entries.
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
	logger *slog.Logger
}

// NewRedisStreamPublisher wraps an existing client.
func NewRedisStreamPublisher(client *redis.Client, stream string, maxLen int64, logger *slog.Logger) *RedisStreamPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStreamPublisher{
		client: client,
		stream: stream,
		maxLen: maxLen,
		logger: logger.With("component", "redis-event-stream"),
	}
}

// NewRedisStreamPublisherFromURL connects to url and pings the server.
func NewRedisStreamPublisherFromURL(ctx context.Context, url, stream string, maxLen int64, logger *slog.Logger) (*RedisStreamPublisher, error) {
	if url == "" || stream == "" {
		return nil, fmt.Errorf("redis event stream: url and stream are required")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis event stream: invalid URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis event stream: connection failed: %w", err)
	}
	return NewRedisStreamPublisher(client, stream, maxLen, logger), nil
}

// Publish implements eventbus.Publisher.
func (p *RedisStreamPublisher) Publish(ctx context.Context, event eventbus.Event) error {
	envBytes, err := buildEnvelope(event)
	if err != nil {
		p.logger.Error("failed to build envelope", "error", err, "type", event.Type())
		return fmt.Errorf("redis event stream: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{"key": keyOf(event), "event": string(envBytes)},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		p.logger.Error("failed to emit event", "error", err, "type", event.Type())
		return fmt.Errorf("redis event stream: emit failed: %w", err)
	}

	p.logger.Debug("event emitted", "type", event.Type(), "stream", p.stream)
	return nil
}

// Close closes the underlying client.
func (p *RedisStreamPublisher) Close() error {
	return p.client.Close()
}
