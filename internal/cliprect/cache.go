// Package cliprect caches the background clip rectangle computed for each
// layer during a compositing update.
//
// Clip rectangles depend on every ancestor's overflow clip, so the cache is
// cleared wholesale at the start of each update and per subtree when a
// layer's backing-store ownership changes.
package cliprect

import (
	"sync"

	"golang.org/x/image/math/fixed"
)

// Entry is a cached clip. Clipped is false when no ancestor clips, in which
// case Rect is meaningless.
type Entry struct {
	Rect    fixed.Rectangle26_6
	Clipped bool
}

// Cache maps layer keys to clip entries with a soft size limit. When the
// limit is exceeded the least recently used quarter is evicted.
//
// Cache is safe for concurrent use.
type Cache[K comparable] struct {
	mu        sync.Mutex
	entries   map[K]*cacheEntry
	softLimit int
	tick      int64
	hits      uint64
	misses    uint64
}

type cacheEntry struct {
	value Entry
	atime int64
}

// New creates a cache. A softLimit of 0 means unlimited.
func New[K comparable](softLimit int) *Cache[K] {
	return &Cache[K]{
		entries:   make(map[K]*cacheEntry),
		softLimit: softLimit,
	}
}

// Get returns the entry for key.
func (c *Cache[K]) Get(key K) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return Entry{}, false
	}
	c.hits++
	c.tick++
	e.atime = c.tick
	return e.value, true
}

// GetOrCompute returns the cached entry or stores the result of compute.
// compute runs without the lock held so it may consult the cache for
// ancestors.
func (c *Cache[K]) GetOrCompute(key K, compute func() Entry) Entry {
	if e, ok := c.Get(key); ok {
		return e
	}
	v := compute()
	c.Set(key, v)
	return v
}

// Set stores an entry.
func (c *Cache[K]) Set(key K, value Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	c.entries[key] = &cacheEntry{value: value, atime: c.tick}
	if c.softLimit > 0 && len(c.entries) > c.softLimit {
		c.evictOldest()
	}
}

// Delete removes key and reports whether it was present.
func (c *Cache[K]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		return true
	}
	return false
}

// Clear empties the cache and resets its statistics.
func (c *Cache[K]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*cacheEntry)
	c.tick = 0
	c.hits, c.misses = 0, 0
}

// Len returns the number of entries.
func (c *Cache[K]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Stats describes cache usage since the last Clear.
type Stats struct {
	Len      int
	Capacity int
	Hits     uint64
	Misses   uint64
}

// Stats returns usage counters.
func (c *Cache[K]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{Len: len(c.entries), Capacity: c.softLimit, Hits: c.hits, Misses: c.misses}
}

// evictOldest trims to three quarters of the soft limit. Caller holds c.mu.
func (c *Cache[K]) evictOldest() {
	target := max(c.softLimit*3/4, 1)
	toEvict := len(c.entries) - target
	if toEvict <= 0 {
		return
	}

	type aged struct {
		key   K
		atime int64
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{k, e.atime})
	}
	for i := 0; i < toEvict; i++ {
		oldest := i
		for j := i + 1; j < len(all); j++ {
			if all[j].atime < all[oldest].atime {
				oldest = j
			}
		}
		all[i], all[oldest] = all[oldest], all[i]
		delete(c.entries, all[i].key)
	}
}
