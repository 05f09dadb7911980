package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dnsstub/dnsresolver/cache"
)

func TestGetSetRoundTrip(t *testing.T) {
	c := cache.New(10)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("amphp.dns.example.com#1", []byte("192.0.2.1"), time.Minute)

	v, ok := c.Get("amphp.dns.example.com#1")
	assert.True(t, ok)
	assert.Equal(t, []byte("192.0.2.1"), v)
}

func TestExpiredEntryIsTreatedAsAbsent(t *testing.T) {
	c := cache.New(10)

	c.Set("k", []byte("v"), time.Nanosecond)
	time.Sleep(time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestSetOverwritesAndRefreshesRecency(t *testing.T) {
	c := cache.New(10)

	c.Set("k", []byte("old"), time.Minute)
	c.Set("k", []byte("new"), time.Minute)

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, []byte("new"), v)
}

func TestClearRemovesEverything(t *testing.T) {
	c := cache.New(10)

	c.Set("a", []byte("1"), time.Minute)
	c.Set("b", []byte("2"), time.Minute)

	c.Clear()

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestLeastRecentlyUsedIsEvictedOnOverflow(t *testing.T) {
	c := cache.New(2)

	c.Set("a", []byte("1"), time.Minute)
	c.Set("b", []byte("2"), time.Minute)

	// Touch "a" so "b" becomes the least recently used entry.
	_, _ = c.Get("a")

	c.Set("c", []byte("3"), time.Minute)

	_, ok := c.Get("b")
	assert.False(t, ok, "b should have been evicted as least recently used")

	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestGetReturnsIndependentCopies(t *testing.T) {
	c := cache.New(10)

	original := []byte("192.0.2.1")
	c.Set("k", original, time.Minute)
	original[0] = 'X'

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, []byte("192.0.2.1"), v)

	v[0] = 'Y'
	v2, _ := c.Get("k")
	assert.Equal(t, []byte("192.0.2.1"), v2)
}
