// internal/common/database/redis.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wind-workers/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the Redis client used for the projection cache.
type RedisClient struct {
	Client redis.Cmdable
	closer func() error
	ttl    time.Duration
}

// NewRedis creates a client from config. It does not dial; call Ping to verify.
func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("redis address is not configured")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	return &RedisClient{
		Client: rdb,
		closer: rdb.Close,
		ttl:    time.Duration(cfg.CacheTTL) * time.Second,
	}, nil
}

// NewRedisFromCmdable wraps an existing client, e.g. a redismock or miniredis-backed one.
func NewRedisFromCmdable(c redis.Cmdable, ttl time.Duration) *RedisClient {
	return &RedisClient{Client: c, ttl: ttl}
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.closer != nil {
		return c.closer()
	}
	return nil
}

// TTL is the default expiry applied by SetJSON when none is given.
func (c *RedisClient) TTL() time.Duration {
	return c.ttl
}

// GetJSON decodes the value at key into out. A missing key reports (false, nil).
func (c *RedisClient) GetJSON(ctx context.Context, key string, out interface{}) (bool, error) {
	raw, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores v as JSON. A zero ttl uses the client default.
func (c *RedisClient) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if ttl == 0 {
		ttl = c.ttl
	}
	if err := c.Client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
