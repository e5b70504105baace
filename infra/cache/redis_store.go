package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/usdtgate/pkg/deposit"
	"github.com/redis/go-redis/v9"
)

// RedisSessionStore implements deposit.Store using Redis. Keys expire with
// the session TTL.
type RedisSessionStore struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisSessionStore wraps an existing client.
func NewRedisSessionStore(client *redis.Client, prefix string, logger *slog.Logger) *RedisSessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisSessionStore{client: client, prefix: prefix, logger: logger}
}

// NewRedisSessionStoreFromURL parses url, applies opts and pings the server.
func NewRedisSessionStoreFromURL(
	ctx context.Context,
	url string,
	prefix string,
	logger *slog.Logger,
	opts ...func(*redis.Options),
) (*RedisSessionStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	for _, o := range opts {
		o(opt)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisSessionStore(client, prefix, logger), nil
}

func (r *RedisSessionStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisSessionStore) Save(ctx context.Context, session *deposit.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		r.logger.Error("Redis session marshal error", "session_id", session.ID, "error", err)
		return err
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, r.key(session.ID), data, ttl).Err(); err != nil {
		r.logger.Error("Redis session set error", "session_id", session.ID, "error", err)
		return err
	}
	r.logger.Debug("Redis session set", "session_id", session.ID, "status", session.Status, "ttl", ttl)
	return nil
}

func (r *RedisSessionStore) Get(ctx context.Context, id string) (*deposit.Session, error) {
	val, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis session miss", "session_id", id)
		return nil, deposit.ErrSessionNotFound
	}
	if err != nil {
		r.logger.Error("Redis session get error", "session_id", id, "error", err)
		return nil, err
	}
	var session deposit.Session
	if err := json.Unmarshal(val, &session); err != nil {
		r.logger.Error("Redis session unmarshal error", "session_id", id, "error", err)
		return nil, err
	}
	return &session, nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		r.logger.Error("Redis session delete error", "session_id", id, "error", err)
		return err
	}
	r.logger.Debug("Redis session delete", "session_id", id)
	return nil
}

// Close closes the underlying client.
func (r *RedisSessionStore) Close() error {
	return r.client.Close()
}
