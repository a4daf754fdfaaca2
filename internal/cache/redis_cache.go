package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/GregMSThompson/sales-dashboard/internal/errs"
)

const (
	keyPrefix   = "sales-dashboard:"
	serviceName = "redis"
)

type RedisViewCache struct {
	client redis.UniversalClient
}

func NewRedisViewCache(addr, password string, db int) *RedisViewCache {
	return NewRedisViewCacheFromClient(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}))
}

// NewRedisViewCacheFromClient wraps an existing client, e.g. a cluster client.
func NewRedisViewCacheFromClient(client redis.UniversalClient) *RedisViewCache {
	return &RedisViewCache{client: client}
}

func (c *RedisViewCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return errs.NewExternalServiceError(serviceName, "redis ping failed", true, err)
	}
	return nil
}

func (c *RedisViewCache) Close() error {
	return c.client.Close()
}

// Get decodes the cached value for key into dst. Connection failures are
// transient ExternalServiceErrors; an undecodable entry is a permanent one.
func (c *RedisViewCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errs.NewExternalServiceError(serviceName, "cache read failed", true, err)
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return false, errs.NewExternalServiceError(serviceName, "cached view is corrupt", false, err)
	}
	return true, nil
}

func (c *RedisViewCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, keyPrefix+key, payload, ttl).Err(); err != nil {
		return errs.NewExternalServiceError(serviceName, "cache write failed", true, err)
	}
	return nil
}
