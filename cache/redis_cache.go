package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis under an optional namespace prefix.
type RedisCache struct {
	client    redis.UniversalClient
	namespace string
}

func NewRedisCache(client redis.UniversalClient, namespace string) *RedisCache {
	return &RedisCache{
		client:    client,
		namespace: namespace,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.namespace+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

// Set writes the value. go-redis treats a zero expiration as "no expiry".
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		return fmt.Errorf("negative ttl %s for key %q", ttl, key)
	}
	if err := c.client.Set(ctx, c.namespace+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Ping checks connectivity to the backend.
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
