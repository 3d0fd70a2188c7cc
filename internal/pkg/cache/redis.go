// Package cache wraps an optional Redis client. A nil client disables caching,
// so every caller degrades to reading through to the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/config"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// NewRedisClient connects to Redis. It returns nil when no address is configured
// or the server does not answer a ping.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, caching and idempotency disabled", "addr", cfg.Addr, "error", err)
		client.Close()
		return nil
	}
	return client
}

// Cache is a JSON read-through cache with singleflight-collapsed misses.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	sf  singleflight.Group
}

func New(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// Enabled reports whether a Redis client backs the cache.
func (c *Cache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// GetOrLoad returns the cached value under key, or calls load, stores its result and returns it.
// Concurrent misses for the same key share one load call.
func GetOrLoad[T any](ctx context.Context, c *Cache, key string, load func(ctx context.Context) (T, error)) (T, error) {
	if !c.Enabled() {
		return load(ctx)
	}

	cached, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var v T
		if err := json.Unmarshal(cached, &v); err == nil {
			return v, nil
		}
		slog.Warn("discarding undecodable cache entry", "key", key)
	} else if !errors.Is(err, redis.Nil) {
		slog.Warn("cache read failed", "key", key, "error", err)
	}

	v, err, _ := c.sf.Do(key, func() (interface{}, error) {
		loaded, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(loaded); err == nil {
			if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
				slog.Warn("cache write failed", "key", key, "error", err)
			}
		}
		return loaded, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate deletes keys; failures are logged only.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		slog.Error("failed to invalidate cache", "keys", keys, "error", err)
	}
}
