package local

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetMiss(t *testing.T) {
	c := New(2)
	_, ok := c.Get("nothing")
	assert.False(t, ok)
}

func TestSetAndGet(t *testing.T) {
	c := New(2)
	c.Set("a", []byte("1"))
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), v)
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2)
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	c.Set("c", []byte("3"))

	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry should be evicted")
	_, ok = c.Get("b")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestGetRefreshesRecency(t *testing.T) {
	c := New(2)
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := c.Get("a")
	assert.True(t, ok)

	c.Set("c", []byte("3"))
	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
}

func TestSetExistingKeyUpdatesValue(t *testing.T) {
	c := New(2)
	c.Set("a", []byte("1"))
	c.Set("a", []byte("2"))
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte("2"), v)

	// Updating must not count as a second entry.
	c.Set("b", []byte("3"))
	_, ok = c.Get("a")
	assert.True(t, ok)
}

func TestConcurrentAccess(t *testing.T) {
	c := New(16)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("key-%d", j%32)
				c.Set(key, []byte(key))
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
}
