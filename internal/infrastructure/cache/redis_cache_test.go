package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCacheFromClient(client, "test:"), mr
}

func TestRedisCache_GetSet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var out dto.InventorySummaryDTO
	found, err := c.Get(ctx, "reports:inventory:s1", &out)
	require.NoError(t, err)
	assert.False(t, found)

	in := dto.InventorySummaryDTO{StoreID: "s1", UnitsOnHand: 12, StockValue: decimal.RequireFromString("28.50")}
	require.NoError(t, c.Set(ctx, "reports:inventory:s1", in, time.Minute))
	assert.True(t, mr.Exists("test:reports:inventory:s1"))

	found, err = c.Get(ctx, "reports:inventory:s1", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 12, out.UnitsOnHand)
	assert.True(t, in.StockValue.Equal(out.StockValue))

	mr.FastForward(2 * time.Minute)
	found, err = c.Get(ctx, "reports:inventory:s1", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_DeletePrefix(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	for _, k := range []string{"reports:a", "reports:b", "otro:c"} {
		require.NoError(t, c.Set(ctx, k, 1, 0))
	}
	require.NoError(t, mr.Set("ajeno:reports:x", "1"))

	require.NoError(t, c.DeletePrefix(ctx, "reports:"))
	assert.False(t, mr.Exists("test:reports:a"))
	assert.False(t, mr.Exists("test:reports:b"))
	assert.True(t, mr.Exists("test:otro:c"))
	assert.True(t, mr.Exists("ajeno:reports:x"))
}

func TestRedisCache_ErrorDeDecodificacion(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("test:k", "no-json"))
	var out dto.InventorySummaryDTO
	_, err := c.Get(context.Background(), "k", &out)
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	var c Noop
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", 1, time.Minute))
	found, err := c.Get(ctx, "k", new(int))
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.DeletePrefix(ctx, ""))
}
