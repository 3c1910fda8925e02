package rates

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.Run(ctx, "redis:7-alpine",
		testcontainers.WithExposedPorts("6379/tcp"),
		testcontainers.WithWaitStrategy(wait.ForListeningPort("6379/tcp")),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	endpoint, err := container.PortEndpoint(ctx, "6379/tcp", "")
	require.NoError(t, err)

	cache, err := NewRedisCache(RedisCacheConfig{Addr: endpoint})
	require.NoError(t, err)
	t.Cleanup(cache.Close)
	return cache
}

func TestRedisCache_SetGetExpire(t *testing.T) {
	cache := setupTestRedis(t)
	ctx := context.Background()

	_, err := cache.Get(ctx, "nbu_rates")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "nbu_rates", `{"UAH":"1"}`, time.Second))
	value, err := cache.Get(ctx, "nbu_rates")
	require.NoError(t, err)
	assert.Equal(t, `{"UAH":"1"}`, value)

	assert.Eventually(t, func() bool {
		_, err := cache.Get(ctx, "nbu_rates")
		return err == ErrCacheMiss
	}, 5*time.Second, 100*time.Millisecond)
}

func TestNewRedisCache_RequiresAddress(t *testing.T) {
	_, err := NewRedisCache(RedisCacheConfig{})
	assert.Error(t, err)
}
