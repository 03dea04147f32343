package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordflash/wordflash/internal/cache"
)

func TestNoop_NeverHits(t *testing.T) {
	ctx := context.Background()
	c := cache.NewNoop()

	require.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var out map[string]int
	hit, err := c.Get(ctx, "k", &out)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, out)

	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}

func TestStatsKey(t *testing.T) {
	assert.Equal(t, "wordflash:stats:u1", cache.StatsKey("u1"))
}

func TestNewRedis_RejectsInvalidURL(t *testing.T) {
	_, err := cache.NewRedis(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestRedis_UnreachableServerReturnsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := cache.NewRedisFromClient(client)
	defer c.Close()

	var out string
	hit, err := c.Get(context.Background(), "k", &out)
	assert.Error(t, err)
	assert.False(t, hit)
	assert.Error(t, c.Ping(context.Background()))
}

type dashboard struct {
	TotalCards int     `json:"total_cards"`
	AvgSeconds float64 `json:"avg_seconds"`
}

func TestRedis_RoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	c, err := cache.NewRedis(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	defer c.Close()

	key := cache.StatsKey("u1")
	var out dashboard
	hit, err := c.Get(ctx, key, &out)
	require.NoError(t, err)
	assert.False(t, hit, "missing key is a miss, not an error")

	require.NoError(t, c.Set(ctx, key, dashboard{TotalCards: 12, AvgSeconds: 2.6}, time.Minute))
	raw, err := mr.Get(key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_cards":12,"avg_seconds":2.6}`, raw)

	hit, err = c.Get(ctx, key, &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, dashboard{TotalCards: 12, AvgSeconds: 2.6}, out)

	mr.FastForward(2 * time.Minute)
	hit, err = c.Get(ctx, key, &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedis_DeleteAndCorruptValue(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	c := cache.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer c.Close()

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Set(ctx, "b", 2, 0))
	require.NoError(t, c.Delete(ctx, "a", "b"))
	assert.False(t, mr.Exists("a"))
	assert.False(t, mr.Exists("b"))
	assert.NoError(t, c.Delete(ctx))

	require.NoError(t, mr.Set("bad", "not json"))
	var out dashboard
	hit, err := c.Get(ctx, "bad", &out)
	assert.Error(t, err)
	assert.False(t, hit)

	assert.NoError(t, c.Ping(ctx))
}
