package rates

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	_, err := cache.Get(ctx, "nbu_rates")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "nbu_rates", `{"UAH":"1"}`, time.Hour))
	value, err := cache.Get(ctx, "nbu_rates")
	require.NoError(t, err)
	assert.Equal(t, `{"UAH":"1"}`, value)
}

func TestMemoryCache_Expires(t *testing.T) {
	cache := NewMemoryCache()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v", time.Minute))

	now = now.Add(59 * time.Second)
	_, err := cache.Get(ctx, "k")
	assert.NoError(t, err)

	now = now.Add(time.Second)
	_, err = cache.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
