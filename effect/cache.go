// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"sync"

	"github.com/spf13/afero"
)

// DefaultCacheSize is the soft limit of the shared cache.
const DefaultCacheSize = 64

// Cache holds compiled modules keyed by file path. A path is read and
// compiled once; later loads return the same *Module without touching the
// filesystem, even if the file has changed since. Failed compiles are not
// cached.
//
// When the cache exceeds its soft limit, the least recently used 25% of
// entries are evicted.
//
// Cache is safe for concurrent use.
// Cache must not be copied after creation (has mutex).
type Cache struct {
	mu        sync.Mutex
	entries   map[string]*cacheEntry
	softLimit int
	tick      int64 // monotonic access counter
	hits      uint64
	misses    uint64
}

type cacheEntry struct {
	mod   *Module
	atime int64
}

// CacheStats contains cache statistics.
type CacheStats struct {
	Len      int
	Capacity int
	Hits     uint64
	Misses   uint64
}

var shared = NewCache(DefaultCacheSize)

// SharedCache returns the process-wide cache used when no other cache is
// configured.
func SharedCache() *Cache { return shared }

// NewCache creates a cache with the given soft limit.
// A softLimit of 0 means unlimited.
func NewCache(softLimit int) *Cache {
	return &Cache{
		entries:   make(map[string]*cacheEntry),
		softLimit: softLimit,
	}
}

// Load returns the compiled module for path, reading it from fsys and
// compiling it on first use.
//
// Compilation runs under the cache lock so concurrent loads of one path
// compile it once.
func (c *Cache) Load(fsys afero.Fs, path string) (*Module, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	if e, ok := c.entries[path]; ok {
		e.atime = c.tick
		c.hits++
		return e.mod, nil
	}
	c.misses++

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	mod, err := Compile(path, string(data))
	if err != nil {
		return nil, err
	}

	c.entries[path] = &cacheEntry{mod: mod, atime: c.tick}
	if c.softLimit > 0 && len(c.entries) > c.softLimit {
		c.evictOldest()
	}
	return mod, nil
}

// Forget drops the entry for path. It returns true if one was present.
func (c *Cache) Forget(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[path]; ok {
		delete(c.entries, path)
		return true
	}
	return false
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.tick = 0
}

// Len returns the number of cached modules.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cache statistics.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Len:      len(c.entries),
		Capacity: c.softLimit,
		Hits:     c.hits,
		Misses:   c.misses,
	}
}

// evictOldest removes the least recently used entries until the cache is
// at three quarters of its soft limit.
// Caller must hold c.mu.
func (c *Cache) evictOldest() {
	target := c.softLimit * 3 / 4
	if target < 1 {
		target = 1
	}
	toEvict := len(c.entries) - target
	if toEvict <= 0 {
		return
	}

	type aged struct {
		path  string
		atime int64
	}
	all := make([]aged, 0, len(c.entries))
	for path, e := range c.entries {
		all = append(all, aged{path: path, atime: e.atime})
	}

	// Selection sort is enough for small batches.
	for i := 0; i < toEvict && i < len(all); i++ {
		oldest := i
		for j := i + 1; j < len(all); j++ {
			if all[j].atime < all[oldest].atime {
				oldest = j
			}
		}
		all[i], all[oldest] = all[oldest], all[i]
		delete(c.entries, all[i].path)
	}
}
