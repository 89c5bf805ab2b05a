// Package cache holds decoded PCM keyed by file identity behind a
// read/write-locked interface, so batch runs that revisit a file do not pay
// for decoding twice. Entries age out by TTL and the least recently used
// entry is evicted once the cache is full.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Defaults sized for a batch of call recordings: a dozen decoded files,
// refreshed if untouched for ten minutes.
const (
	DefaultMaxEntries = 12
	DefaultTTL        = 10 * time.Minute
)

// FetchFunc loads the samples for a key on a cache miss.
type FetchFunc func(key string) ([]float32, error)

// Stats describes cache effectiveness.
type Stats struct {
	Entries   int
	Hits      int64
	Misses    int64
	Evictions int64
}

type entry struct {
	key      string
	samples  []float32
	loadedAt time.Time
}

// AudioCache is a TTL'd LRU over decoded sample buffers. Safe for
// concurrent use by independent sessions.
type AudioCache struct {
	mu         sync.RWMutex
	maxEntries int
	ttl        time.Duration
	order      *list.List // front = most recently used
	entries    map[string]*list.Element
	hits       int64
	misses     int64
	evictions  int64
	now        func() time.Time
}

// New creates a cache; non-positive arguments take the defaults.
func New(maxEntries int, ttl time.Duration) *AudioCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &AudioCache{
		maxEntries: maxEntries,
		ttl:        ttl,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
		now:        time.Now,
	}
}

// LoadOrFetch returns the cached samples for key, calling fetch on a miss or
// an expired entry. A fetch error is returned without caching anything.
func (c *AudioCache) LoadOrFetch(key string, fetch FetchFunc) ([]float32, error) {
	if samples, ok := c.lookup(key); ok {
		return samples, nil
	}

	samples, err := fetch(key)
	if err != nil {
		return nil, err
	}
	c.store(key, samples)
	return samples, nil
}

// Evict removes a single key, reporting whether it was present.
func (c *AudioCache) Evict(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		return false
	}
	c.remove(el)
	return true
}

// Stats returns a snapshot of cache counters.
func (c *AudioCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Entries:   len(c.entries),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

func (c *AudioCache) lookup(key string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	ent := el.Value.(*entry)
	if c.now().Sub(ent.loadedAt) > c.ttl {
		c.remove(el)
		c.misses++
		return nil, false
	}
	c.order.MoveToFront(el)
	c.hits++
	return ent.samples, true
}

func (c *AudioCache) store(key string, samples []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		ent := el.Value.(*entry)
		ent.samples = samples
		ent.loadedAt = c.now()
		c.order.MoveToFront(el)
		return
	}
	for len(c.entries) >= c.maxEntries {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.remove(oldest)
		c.evictions++
	}
	el := c.order.PushFront(&entry{key: key, samples: samples, loadedAt: c.now()})
	c.entries[key] = el
}

// remove deletes an element; callers hold the write lock.
func (c *AudioCache) remove(el *list.Element) {
	ent := el.Value.(*entry)
	c.order.Remove(el)
	delete(c.entries, ent.key)
}
