// Package cache provides a bounded LRU cache for rendered route content.
//
// The router keeps two of these: one for page content keyed by full path
// and one for applied layouts keyed by layout id + path. Entries are
// evicted least-recently-used first when the capacity bound is reached,
// and optionally expire after a TTL.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// DefaultCapacity bounds a cache when no capacity is configured.
const DefaultCapacity = 512

// Config holds cache configuration.
type Config struct {
	// Capacity is the maximum number of entries. Zero or negative means
	// DefaultCapacity.
	Capacity int

	// TTL is how long an entry is valid. Zero means entries never expire.
	TTL time.Duration
}

// Cache is a thread-safe LRU cache of string content.
type Cache struct {
	mu      sync.Mutex
	config  Config
	entries map[string]*list.Element
	order   *list.List // front = most recently used
}

type item struct {
	key       string
	value     string
	expiresAt time.Time // zero means no expiry
}

// New creates a cache with the given configuration.
func New(config Config) *Cache {
	if config.Capacity <= 0 {
		config.Capacity = DefaultCapacity
	}
	return &Cache{
		config:  config,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Get retrieves a cached value. The second return is false when the key
// is absent or the entry has expired.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return "", false
	}

	it := elem.Value.(*item)
	if !it.expiresAt.IsZero() && time.Now().After(it.expiresAt) {
		c.order.Remove(elem)
		delete(c.entries, key)
		return "", false
	}

	c.order.MoveToFront(elem)
	return it.value, true
}

// Set stores a value, evicting least-recently-used entries when full.
func (c *Cache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.config.TTL > 0 {
		expiresAt = time.Now().Add(c.config.TTL)
	}

	if elem, ok := c.entries[key]; ok {
		it := elem.Value.(*item)
		it.value = value
		it.expiresAt = expiresAt
		c.order.MoveToFront(elem)
		return
	}

	for c.order.Len() >= c.config.Capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		it := oldest.Value.(*item)
		c.order.Remove(oldest)
		delete(c.entries, it.key)
	}

	elem := c.order.PushFront(&item{key: key, value: value, expiresAt: expiresAt})
	c.entries[key] = elem
}

// Delete removes a cached entry.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.order.Remove(elem)
		delete(c.entries, key)
	}
}

// Clear removes all cached entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order = list.New()
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
