// Package cache provides the bounded LRU caches the engine injects around
// derived artifacts (token streams, symbol tables). Entries are keyed by
// profile, version, and a content hash so edits naturally miss instead of
// serving stale results.
package cache

import (
	"container/list"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// Key identifies one derived artifact.
type Key struct {
	Profile     string
	Version     string
	ContentHash uint64
}

// ContentKey builds a Key for content under a profile and version. Hashing
// is xxhash over the raw bytes, cheap enough to run per request.
func ContentKey(profile, version, content string) Key {
	return Key{
		Profile:     profile,
		Version:     version,
		ContentHash: xxhash.Sum64String(content),
	}
}

func (k Key) String() string {
	return k.Profile + "@" + k.Version + "#" + strconv.FormatUint(k.ContentHash, 16)
}

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Size      int
	Capacity  int
}

type entry[V any] struct {
	key   Key
	value V
}

// LRU is a mutex-guarded, size-bound cache with least-recently-used
// eviction. The zero value is not usable; construct with NewLRU.
type LRU[V any] struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[Key]*list.Element

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewLRU returns a cache bounded to capacity entries. Capacities below one
// are raised to one so the cache always admits something.
func NewLRU[V any](capacity int) *LRU[V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRU[V]{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[Key]*list.Element, capacity),
	}
}

func (c *LRU[V]) Get(key Key) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.hits.Add(1)
	c.ll.MoveToFront(elem)
	return elem.Value.(entry[V]).value, true
}

func (c *LRU[V]) Set(key Key, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		elem.Value = entry[V]{key: key, value: value}
		c.ll.MoveToFront(elem)
		return
	}

	elem := c.ll.PushFront(entry[V]{key: key, value: value})
	c.items[key] = elem

	if c.ll.Len() <= c.capacity {
		return
	}

	back := c.ll.Back()
	if back == nil {
		return
	}
	evicted := back.Value.(entry[V])
	delete(c.items, evicted.key)
	c.ll.Remove(back)
	c.evictions.Add(1)
}

// Invalidate drops a single entry if present.
func (c *LRU[V]) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		delete(c.items, key)
		c.ll.Remove(elem)
	}
}

// InvalidateProfile drops every entry derived under the given profile name,
// regardless of version or content. Used when a rule bundle changes on disk.
func (c *LRU[V]) InvalidateProfile(profile string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, elem := range c.items {
		if key.Profile == profile {
			delete(c.items, key)
			c.ll.Remove(elem)
		}
	}
}

// Purge drops every entry. Counters are left intact so effectiveness
// numbers survive a rule-bundle reload.
func (c *LRU[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ll.Init()
	c.items = make(map[Key]*list.Element, c.capacity)
}

func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *LRU[V]) Stats() Stats {
	c.mu.Lock()
	size := c.ll.Len()
	c.mu.Unlock()

	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Size:      size,
		Capacity:  c.capacity,
	}
}
