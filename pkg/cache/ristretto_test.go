package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) *RistrettoCache {
	t.Helper()

	c, err := NewRistrettoCache(&RistrettoConfig{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
		Logger:      zap.NewNop(),
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)

	return c
}

func TestRistrettoCache_SetAndGet(t *testing.T) {
	c := newTestCache(t)

	require.True(t, c.Set("pairs:0xabc", []string{"ETH-PERP", "BTC-PERP"}, time.Hour))
	c.Wait()

	value, found := c.Get("pairs:0xabc")
	require.True(t, found)
	assert.Equal(t, []string{"ETH-PERP", "BTC-PERP"}, value)
}

func TestRistrettoCache_Miss(t *testing.T) {
	c := newTestCache(t)

	_, found := c.Get("missing")
	assert.False(t, found)
}

func TestRistrettoCache_Delete(t *testing.T) {
	c := newTestCache(t)

	require.True(t, c.Set("key", "value", time.Hour))
	c.Wait()

	c.Delete("key")
	c.Wait()

	_, found := c.Get("key")
	assert.False(t, found)
}

func TestRistrettoCache_TTLExpiry(t *testing.T) {
	c := newTestCache(t)

	require.True(t, c.Set("short", "lived", 50*time.Millisecond))
	c.Wait()

	_, found := c.Get("short")
	require.True(t, found)

	time.Sleep(100 * time.Millisecond)

	_, found = c.Get("short")
	assert.False(t, found)
}
