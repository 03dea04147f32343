package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wordflash/wordflash/internal/logger"
)

// Cache stores JSON-encoded values by key. A miss is reported as false with
// a nil error.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}

// StatsKey is the dashboard cache key for a user.
func StatsKey(userID string) string {
	return "wordflash:stats:" + userID
}

type redisCache struct {
	client *redis.Client
}

// NewRedis connects to the server at url (redis://host:port/db).
func NewRedis(ctx context.Context, url string) (Cache, error) {
	log := logger.FromContext(ctx).WithPrefix("cache")

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Error("invalid redis url: %v", err)
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		log.Error("redis ping failed: %v", err)
		_ = client.Close()
		return nil, err
	}
	log.Info("redis connected: addr=%s db=%d", opts.Addr, opts.DB)
	return &redisCache{client: client}, nil
}

// NewRedisFromClient wraps an existing client without pinging it.
func NewRedisFromClient(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Close() error {
	return c.client.Close()
}

type noopCache struct{}

// NewNoop returns a cache that never stores anything.
func NewNoop() Cache { return noopCache{} }

func (noopCache) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (noopCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (noopCache) Delete(context.Context, ...string) error               { return nil }
func (noopCache) Ping(context.Context) error                            { return nil }
func (noopCache) Close() error                                          { return nil }
