package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheGetSet(t *testing.T) {
	c := New(time.Minute, time.Minute)

	_, ok := c.Get("records:")
	assert.False(t, ok)

	c.Set("records:", []string{"a"})
	v, ok := c.Get("records:")
	assert.True(t, ok)
	assert.Equal(t, []string{"a"}, v)

	assert.Equal(t, Stats{Items: 1, Hits: 1, Misses: 1}, c.Stats())
}

func TestCacheExpires(t *testing.T) {
	c := New(20*time.Millisecond, time.Hour)
	c.Set("k", 1)

	time.Sleep(40 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	c := New(time.Minute, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Invalidate()
	assert.Equal(t, 0, c.Stats().Items)
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New(time.Minute, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set("k", i)
			c.Get("k")
			if i%10 == 0 {
				c.Invalidate()
			}
		}(i)
	}
	wg.Wait()

	stats := c.Stats()
	assert.Equal(t, int64(50), stats.Hits+stats.Misses)
}
