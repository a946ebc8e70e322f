package nws

import (
	"context"
	"fmt"
	"sync"

	"github.com/couchcryptid/nws-forecast-service/internal/domain"
	"github.com/couchcryptid/nws-forecast-service/internal/observability"
)

// CachedPoints wraps a PointResolver with an in-memory LRU cache. Grid
// assignments change rarely, so a coordinate is resolved once per process.
type CachedPoints struct {
	inner   domain.PointResolver
	cache   *lruCache[string, domain.GridPoint]
	metrics *observability.Metrics
}

// NewCachedPoints creates a cache decorator around a point resolver.
func NewCachedPoints(inner domain.PointResolver, maxEntries int, metrics *observability.Metrics) *CachedPoints {
	return &CachedPoints{
		inner:   inner,
		cache:   newLRUCache[string, domain.GridPoint](maxEntries),
		metrics: metrics,
	}
}

// Points returns the cached grid point for lat, lon, resolving it through
// the wrapped resolver on a miss.
func (c *CachedPoints) Points(ctx context.Context, lat, lon float64) (domain.GridPoint, error) {
	key := fmt.Sprintf("%.4f,%.4f", lat, lon)
	if grid, ok := c.cache.get(key); ok {
		c.metrics.PointsCache.WithLabelValues("hit").Inc()
		return grid, nil
	}
	c.metrics.PointsCache.WithLabelValues("miss").Inc()

	grid, err := c.inner.Points(ctx, lat, lon)
	if err != nil {
		return grid, err
	}
	// Only cache resolved cells so an empty answer is retried next time.
	if grid.Valid() {
		c.cache.put(key, grid)
	}
	return grid, nil
}

// lruCache is a small thread-safe LRU cache.
type lruCache[K comparable, V any] struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[K]*entry[K, V]
	head       *entry[K, V] // most recently used
	tail       *entry[K, V] // least recently used
}

type entry[K comparable, V any] struct {
	key   K
	value V
	prev  *entry[K, V]
	next  *entry[K, V]
}

func newLRUCache[K comparable, V any](maxEntries int) *lruCache[K, V] {
	return &lruCache[K, V]{
		maxEntries: maxEntries,
		entries:    make(map[K]*entry[K, V]),
	}
}

func (c *lruCache[K, V]) get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[K, V]) put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[K, V]{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache[K, V]) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache[K, V]) moveToFront(e *entry[K, V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache[K, V]) addToFront(e *entry[K, V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache[K, V]) remove(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache[K, V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
