package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellexhq/intellex/pkg/cache"
)

func TestContentKey(t *testing.T) {
	a := cache.ContentKey("go", "default", "package main")
	b := cache.ContentKey("go", "default", "package main")
	c := cache.ContentKey("go", "default", "package other")

	require.Equal(t, a, b, "same content must produce the same key")
	require.NotEqual(t, a, c, "different content must produce different keys")

	d := cache.ContentKey("rust", "default", "package main")
	require.NotEqual(t, a, d, "same content under a different profile must not collide")
}

func TestLRUGetSet(t *testing.T) {
	c := cache.NewLRU[string](4)

	key := cache.ContentKey("go", "default", "x := 1")
	_, ok := c.Get(key)
	require.False(t, ok)

	c.Set(key, "tokens")
	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, "tokens", got)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := cache.NewLRU[int](2)

	k1 := cache.ContentKey("go", "default", "one")
	k2 := cache.ContentKey("go", "default", "two")
	k3 := cache.ContentKey("go", "default", "three")

	c.Set(k1, 1)
	c.Set(k2, 2)

	// Touch k1 so k2 becomes the eviction candidate.
	_, ok := c.Get(k1)
	require.True(t, ok)

	c.Set(k3, 3)

	_, ok = c.Get(k2)
	assert.False(t, ok, "least recently used entry should have been evicted")
	_, ok = c.Get(k1)
	assert.True(t, ok)
	_, ok = c.Get(k3)
	assert.True(t, ok)

	assert.Equal(t, uint64(1), c.Stats().Evictions)
	assert.Equal(t, 2, c.Len())
}

func TestLRUUpdateDoesNotGrow(t *testing.T) {
	c := cache.NewLRU[int](2)

	key := cache.ContentKey("go", "default", "same")
	c.Set(key, 1)
	c.Set(key, 2)

	require.Equal(t, 1, c.Len())
	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestLRUInvalidateProfile(t *testing.T) {
	c := cache.NewLRU[int](8)

	c.Set(cache.ContentKey("go", "default", "a"), 1)
	c.Set(cache.ContentKey("go", "v2", "b"), 2)
	c.Set(cache.ContentKey("python", "default", "c"), 3)

	c.InvalidateProfile("go")

	_, ok := c.Get(cache.ContentKey("go", "default", "a"))
	assert.False(t, ok)
	_, ok = c.Get(cache.ContentKey("go", "v2", "b"))
	assert.False(t, ok)
	_, ok = c.Get(cache.ContentKey("python", "default", "c"))
	assert.True(t, ok, "other profiles must survive a profile invalidation")
}

func TestLRUZeroCapacityStillAdmits(t *testing.T) {
	c := cache.NewLRU[int](0)

	key := cache.ContentKey("go", "default", "a")
	c.Set(key, 1)

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, 1, got)
	assert.Equal(t, 1, c.Stats().Capacity)
}
