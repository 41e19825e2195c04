package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/bizdesk/internal/metrics"
	"github.com/redis/go-redis/v9"
)

// RedisCache shares views between instances.
type RedisCache struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

// NewRedisCache connects to redisURL and verifies the connection.
func NewRedisCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{rdb: rdb, ttl: ttl}, nil
}

var _ ViewCache = (*RedisCache)(nil)

func (c *RedisCache) generation(ctx context.Context, tenantID, view string) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey(tenantID, view)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisCache) Get(ctx context.Context, tenantID, view, key string, dest any) (bool, error) {
	if err := validate(tenantID, view); err != nil {
		return false, err
	}
	gen, err := c.generation(ctx, tenantID, view)
	if err != nil {
		return false, fmt.Errorf("failed to read view generation: %w", err)
	}
	data, err := c.rdb.Get(ctx, entryKey(tenantID, view, gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.ViewCacheLookups.WithLabelValues("redis", "miss").Inc()
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read view: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode view: %w", err)
	}
	metrics.ViewCacheLookups.WithLabelValues("redis", "hit").Inc()
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, tenantID, view, key string, value any) error {
	if err := validate(tenantID, view); err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode view: %w", err)
	}
	gen, err := c.generation(ctx, tenantID, view)
	if err != nil {
		return fmt.Errorf("failed to read view generation: %w", err)
	}
	return c.rdb.Set(ctx, entryKey(tenantID, view, gen, key), data, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, tenantID string, views ...string) error {
	if tenantID == "" {
		return ErrInvalidKey
	}
	_, err := c.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, view := range views {
			pipe.Incr(ctx, generationKey(tenantID, view))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate views: %w", err)
	}
	for _, view := range views {
		metrics.ViewCacheInvalidations.WithLabelValues(metricView(view)).Inc()
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
