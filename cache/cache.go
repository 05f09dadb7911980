// Package cache provides the TTL-bounded, size-bounded answer cache the
// query engine is built against: Get never returns an entry past its TTL,
// treating "not present" and "expired" identically, and Set evicts the
// least recently used entry once the configured size is exceeded.
//
// This is a generalization of the teacher's own cache/cache.go: the same
// map-plus-container/list LRU, keyed by a plain string (the stub
// resolver's "amphp.dns.<name>#<type>" cache key) instead of a
// (question, server address) pair, and storing an opaque byte string
// instead of a *dns.Msg.
package cache

import (
	"container/list"
	"sync"
	"time"
)

type entry struct {
	key     string
	value   []byte
	addedAt time.Time
	ttl     time.Duration
}

// Cache is a least-recently-used cache of byte strings, each with its own
// time-to-live. The zero value is not usable; use New.
type Cache struct {
	maxSize int

	mu    sync.Mutex
	items map[string]*list.Element
	lru   *list.List
}

// New returns a Cache that holds at most maxSize entries. A maxSize of 0
// or less disables the size bound.
func New(maxSize int) *Cache {
	return &Cache{
		maxSize: maxSize,
		items:   map[string]*list.Element{},
		lru:     list.New(),
	}
}

// Get returns the value stored under key, or ok=false if the key is
// absent or its ttl has elapsed. An expired entry is evicted as a side
// effect of the lookup.
func (c *Cache) Get(key string) (value []byte, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, found := c.items[key]
	if !found {
		return nil, false
	}

	e := elem.Value.(*entry)
	if time.Since(e.addedAt) > e.ttl {
		c.lru.Remove(elem)
		delete(c.items, key)
		return nil, false
	}

	c.lru.MoveToBack(elem)

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true
}

// Set stores value under key with the given ttl, overwriting any prior
// entry for the same key. Set never fails.
func (c *Cache) Set(key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)

	if elem, ok := c.items[key]; ok {
		e := elem.Value.(*entry)
		e.value = stored
		e.addedAt = time.Now()
		e.ttl = ttl
		c.lru.MoveToBack(elem)
	} else {
		elem := c.lru.PushBack(&entry{
			key:     key,
			value:   stored,
			addedAt: time.Now(),
			ttl:     ttl,
		})
		c.items[key] = elem
	}

	c.prune()
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = map[string]*list.Element{}
	c.lru.Init()
}

func (c *Cache) prune() {
	for c.maxSize > 0 && len(c.items) > c.maxSize {
		front := c.lru.Front()
		if front == nil {
			return
		}
		e := front.Value.(*entry)
		delete(c.items, e.key)
		c.lru.Remove(front)
	}
}
