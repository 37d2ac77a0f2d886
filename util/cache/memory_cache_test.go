package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCache_SetGetExpire(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(10)
	c.now = func() time.Time { return now }

	c.Set("a", []byte("1"), time.Minute)
	data, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), data)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Zero(t, c.Len())

	c.Set("b", []byte("2"), 0)
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(2)
	c.now = func() time.Time { return now }

	c.Set("a", []byte("1"), time.Hour)
	now = now.Add(time.Second)
	c.Set("b", []byte("2"), time.Hour)
	now = now.Add(time.Second)
	c.Get("a")
	now = now.Add(time.Second)
	c.Set("c", []byte("3"), time.Hour)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("b")
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get("a")
	assert.True(t, ok)

	// 覆盖已有键不触发淘汰
	c.Set("a", []byte("x"), time.Hour)
	assert.Equal(t, 2, c.Len())
}

func TestMemoryCache_CleanExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(0)
	c.now = func() time.Time { return now }

	c.Set("short", []byte("1"), time.Second)
	c.Set("long", []byte("2"), time.Hour)
	now = now.Add(time.Minute)
	c.CleanExpired()
	assert.Equal(t, 1, c.Len())
}

func TestGenerateCacheKey(t *testing.T) {
	a := GenerateCacheKey("3dm", "武器包", map[string]string{"size": "10", "sort": "time"})
	b := GenerateCacheKey("3DM", " 武器包 ", map[string]string{"sort": "time", "size": "10"})
	assert.Equal(t, a, b)
	assert.Len(t, a, 32)

	assert.NotEqual(t, a, GenerateCacheKey("3dm", "武器包", map[string]string{"size": "5", "sort": "time"}))
	assert.NotEqual(t, a, GenerateCacheKey("3dm", "地图", map[string]string{"size": "10", "sort": "time"}))
}
