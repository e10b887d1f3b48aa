package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/scalpdesk/pkg/config"
)

func TestNewClient_Disabled(t *testing.T) {
	cfg := &config.Config{Redis: config.RedisConfig{Enabled: false}}

	client, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Close())
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(Disabled(), "test")

	allowed, remaining, err := limiter.Allow(context.Background(), NewsAPIRateLimit)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, NewsAPIRateLimit.Limit, remaining)

	assert.NoError(t, limiter.Wait(context.Background(), NewsAPIRateLimit))
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(Disabled(), "test")
	ctx := context.Background()

	var result []string
	found, err := cache.Get(ctx, "key", &result)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, cache.Set(ctx, "key", []string{"a"}, TTLHeadlines))
	assert.NoError(t, cache.Delete(ctx, "key"))
}

func TestCache_GetOrSetDisabledCallsLoader(t *testing.T) {
	cache := NewCache(Disabled(), "test")

	calls := 0
	var out []string
	err := cache.GetOrSet(context.Background(), "k", &out, TTLHeadlines, func() (interface{}, error) {
		calls++
		return []string{"Q2 results beat estimates"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"Q2 results beat estimates"}, out)

	boom := errors.New("upstream down")
	err = cache.GetOrSet(context.Background(), "k", &out, TTLHeadlines, func() (interface{}, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "news:headlines:RELIANCE:5", HeadlinesKey("reliance", 5))
	assert.Equal(t, "market:trend:^NSEI:2024-06-03", BenchmarkTrendKey("^NSEI", "2024-06-03"))
}
