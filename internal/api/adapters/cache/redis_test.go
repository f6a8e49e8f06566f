package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workwhiz/internal/api/adapters/cache"
	"workwhiz/internal/api/ports/services"
	"workwhiz/pkg/logger"
)

func mockRedisServer(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return s, client
}

func testContext() context.Context {
	return logger.NewContext(context.Background(), logger.NewNop())
}

func TestRedisCache(t *testing.T) {
	s, client := mockRedisServer(t)
	ctx := testContext()

	var c services.Cache = cache.NewRedisCache(client, "", 10*time.Minute)

	value, err := c.Get(ctx, "profile:candidate:cand-1")
	require.NoError(t, err)
	assert.Empty(t, value, "miss is not an error")

	require.NoError(t, c.Set(ctx, "profile:candidate:cand-1", `{"id":"cand-1"}`, 0))
	assert.True(t, s.Exists("workwhiz:cache:profile:candidate:cand-1"))

	ttl := s.TTL("workwhiz:cache:profile:candidate:cand-1")
	assert.InDelta(t, (10 * time.Minute).Seconds(), ttl.Seconds(), 5)

	value, err = c.Get(ctx, "profile:candidate:cand-1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"cand-1"}`, value)

	require.NoError(t, c.Set(ctx, "short", "v", time.Second))
	s.FastForward(2 * time.Second)
	value, err = c.Get(ctx, "short")
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, c.Delete(ctx, "profile:candidate:cand-1"))
	assert.False(t, s.Exists("workwhiz:cache:profile:candidate:cand-1"))
}

func TestRedisCache_Unavailable(t *testing.T) {
	s, client := mockRedisServer(t)
	ctx := testContext()
	c := cache.NewRedisCache(client, "test", time.Minute)

	s.Close()

	_, err := c.Get(ctx, "k")
	assert.ErrorContains(t, err, cache.ErrorFailedToGet)
	assert.ErrorContains(t, c.Set(ctx, "k", "v", 0), cache.ErrorFailedToSet)
	assert.ErrorContains(t, c.Delete(ctx, "k"), cache.ErrorFailedToDelete)
}
