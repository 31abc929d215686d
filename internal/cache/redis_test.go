// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	c, err := NewRedisCache(RedisConfig{Addr: mr.Addr()}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_GetSet(t *testing.T) {
	c, _ := newTestRedisCache(t)

	c.Set("key1", sampleResult(), 5*time.Minute)

	got, ok := c.Get("key1")
	require.True(t, ok)
	assert.Equal(t, "sugar", got.IngredientName)
	require.NotNil(t, got.Results)
	assert.Equal(t, 0.25, got.Results.PerG)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestRedisCache_Expiration(t *testing.T) {
	c, mr := newTestRedisCache(t)

	c.Set("shortlived", sampleResult(), time.Second)

	_, ok := c.Get("shortlived")
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	_, ok = c.Get("shortlived")
	assert.False(t, ok)
}

func TestRedisCache_Delete(t *testing.T) {
	c, _ := newTestRedisCache(t)

	c.Set("key1", sampleResult(), time.Minute)
	c.Delete("key1")

	_, ok := c.Get("key1")
	assert.False(t, ok)
}

func TestRedisCache_Clear(t *testing.T) {
	c, _ := newTestRedisCache(t)

	c.Set("key1", sampleResult(), time.Minute)
	c.Set("key2", sampleResult(), time.Minute)
	c.Clear()

	assert.Equal(t, 0, c.Stats().CurrentSize)
}

func TestRedisCache_HealthCheck(t *testing.T) {
	c, mr := newTestRedisCache(t)

	require.NoError(t, c.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, c.HealthCheck(context.Background()))
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	_, err := NewRedisCache(RedisConfig{Addr: "127.0.0.1:1"}, zerolog.Nop())
	assert.Error(t, err)
}
