package client

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Tag names a family of cached queries that a mutation can invalidate
type Tag string

const (
	TagProducts  Tag = "Products"
	TagSales     Tag = "Sales"
	TagPurchases Tag = "Purchases"
	TagUsers     Tag = "Users"
)

type entry struct {
	value interface{}
	tags  []Tag
	stale bool
}

// Cache stores query results under keys labelled with tags. Invalidating a tag
// marks its entries stale; the next read of a stale entry refetches.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*entry
	versions map[Tag]uint64
	group    singleflight.Group
}

// NewCache creates an empty Cache
func NewCache() *Cache {
	return &Cache{
		entries:  make(map[string]*entry),
		versions: make(map[Tag]uint64),
	}
}

// Query returns the cached value for key, fetching it when absent or stale.
// Concurrent callers for the same key share a single fetch. The shared fetch
// is detached from any one caller's cancellation; each caller still stops
// waiting when its own ctx is done. Cached values are shared between callers
// and must be treated as read-only.
func Query[T any](ctx context.Context, c *Cache, key string, tags []Tag, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := c.fresh(key); ok {
		return v.(T), nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		if v, ok := c.fresh(key); ok {
			return v, nil
		}

		version := c.version(tags)
		value, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		c.store(key, tags, value, version)
		return value, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Mutate runs a write and, only when it succeeds, invalidates tags
func Mutate[T any](ctx context.Context, c *Cache, tags []Tag, do func(context.Context) (T, error)) (T, error) {
	value, err := do(ctx)
	if err != nil {
		return value, err
	}
	c.Invalidate(tags...)
	return value, nil
}

// Invalidate marks every entry carrying any of tags as stale
func (c *Cache) Invalidate(tags ...Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, tag := range tags {
		c.versions[tag]++
	}
	for _, e := range c.entries {
		if hasAny(e.tags, tags) {
			e.stale = true
		}
	}
}

// IsStale reports whether key is cached but awaiting a refetch
func (c *Cache) IsStale(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	return ok && e.stale
}

// Len returns the number of cached keys, stale or fresh
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) fresh(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.stale {
		return nil, false
	}
	return e.value, true
}

// version sums the tag counters so a fetch can tell whether any of its tags
// were invalidated while it was in flight.
func (c *Cache) version(tags []Tag) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var sum uint64
	for _, tag := range tags {
		sum += c.versions[tag]
	}
	return sum
}

func (c *Cache) store(key string, tags []Tag, value interface{}, startVersion uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var current uint64
	for _, tag := range tags {
		current += c.versions[tag]
	}

	c.entries[key] = &entry{
		value: value,
		tags:  tags,
		stale: current != startVersion,
	}
}

func hasAny(have, want []Tag) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
