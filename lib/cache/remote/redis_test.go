package remote

import (
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confFor(t *testing.T, mr *miniredis.Miniredis, prefix string) RedisConfig {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return RedisConfig{Host: mr.Host(), Port: port, Prefix: prefix}
}

func newTestCache(t *testing.T) *redisCache {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewRedisClient(confFor(t, mr, "ner")).(*redisCache)
}

func TestRedisSetAndGet(t *testing.T) {
	c := newTestCache(t)
	require.True(t, c.Ready())

	c.Set("some text", []byte(`[{"text":"Joko Widodo"}]`))
	v, ok := c.Get("some text")
	assert.True(t, ok)
	assert.Equal(t, []byte(`[{"text":"Joko Widodo"}]`), v)
}

func TestRedisGetMiss(t *testing.T) {
	c := newTestCache(t)
	_, ok := c.Get("never stored")
	assert.False(t, ok)
}

func TestRedisKeysArePrefixed(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedisClient(confFor(t, mr, "legal"))

	c.Set("kasus", []byte("[]"))
	assert.True(t, mr.Exists("legal:kasus"))
}

func TestRedisUnavailableIsAMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedisClient(confFor(t, mr, ""))
	mr.Close()

	c.Set("kasus", []byte("[]"))
	_, ok := c.Get("kasus")
	assert.False(t, ok)
}
