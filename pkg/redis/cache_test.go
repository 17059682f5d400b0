package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battcast/backend/pkg/config"
)

func TestCache_DisabledClientFallsThrough(t *testing.T) {
	client, err := New(&config.Config{})
	require.NoError(t, err)
	assert.False(t, client.Enabled())

	cache := NewCache(client, "test")
	ctx := context.Background()

	var got string
	assert.ErrorIs(t, cache.Get(ctx, "k", &got), ErrCacheMiss)
	assert.NoError(t, cache.Set(ctx, "k", "v", time.Minute))
	assert.NoError(t, cache.Delete(ctx, "k"))

	// GetOrSet still computes and populates dest without a server.
	calls := 0
	err = cache.GetOrSet(ctx, "k", &got, time.Minute, func() (interface{}, error) {
		calls++
		return "computed", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "computed", got)
	assert.Equal(t, 1, calls)
}
