// Package framecache memoizes computations that are repeated every frame.
//
// A FrameCache maps a key to a computed value. Values not used during a frame
// are dropped by the next EvictCache, so the cache holds what the last frame
// needed and nothing more:
//
//	galleys := framecache.New[string, Layout](framecache.ComputerFunc[string, Layout](layoutText))
//	g := galleys.Get("Hello") // computed once, then reused every frame it is asked for
//	...
//	galleys.EvictCache()      // at the end of every frame
package framecache

import (
	"github.com/krisalay/ui-memory/expiration"
	"github.com/krisalay/ui-memory/id"
	"github.com/krisalay/ui-memory/types"
)

// Computer turns a key into a value. It must be a pure function of the key.
type Computer[K, V any] interface {
	Compute(key K) V
}

// ComputerFunc adapts a plain function to Computer.
type ComputerFunc[K, V any] func(key K) V

// Compute implements Computer.
func (f ComputerFunc[K, V]) Compute(key K) V {
	return f(key)
}

// Cache is what Storage needs from a frame cache.
type Cache interface {
	// EvictCache drops the entries not used this frame and starts the next one.
	// It returns the number of entries dropped.
	EvictCache() int
	Len() int
	Name() string
}

/*
FrameCache stores computed values by the hash of their key.

Keys are hashed with id.HashOf so any hashable value works, including structs and slices.
Two keys with the same hash share an entry; with 64-bit hashes this is not a concern in practice.

A FrameCache is not safe for concurrent use. The memory owner serializes access.
*/
type FrameCache[K, V any] struct {
	name       string
	generation uint32
	computer   Computer[K, V]
	entries    map[uint64]*types.CacheEntry[V]
	expiration expiration.Strategy
	metrics    types.Metrics
}

// Option configures a FrameCache.
type Option func(*options)

type options struct {
	name       string
	metrics    types.Metrics
	expiration expiration.Strategy
	start      uint32
}

// WithName sets the name used in metrics and logs.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithMetrics reports hits, misses and sweeps to m.
func WithMetrics(m types.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithExpiration replaces the default expiration.LastFrame sweep rule.
func WithExpiration(s expiration.Strategy) Option {
	return func(o *options) { o.expiration = s }
}

// WithStartGeneration starts the generation counter at g instead of 0.
func WithStartGeneration(g uint32) Option {
	return func(o *options) { o.start = g }
}

// New creates an empty FrameCache.
func New[K, V any](computer Computer[K, V], opts ...Option) *FrameCache[K, V] {
	o := options{
		name:       "frame",
		metrics:    types.NoopMetrics{},
		expiration: expiration.LastFrame{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &FrameCache[K, V]{
		name:       o.name,
		generation: o.start,
		computer:   computer,
		entries:    make(map[uint64]*types.CacheEntry[V]),
		expiration: o.expiration,
		metrics:    o.metrics,
	}
}

/*
Get returns the value for key.

BEHAVIOR:
---------
 1. If an entry exists (cache hit):
    - Stamp it with the current generation so the next sweep keeps it
    - Return the stored value, WITHOUT calling the computer

 2. If no entry exists (cache miss):
    - Compute the value exactly once
    - Store it stamped with the current generation
    - Return it
*/
func (c *FrameCache[K, V]) Get(key K) V {
	h := id.HashOf(key)
	if ent, ok := c.entries[h]; ok {
		ent.Generation = c.generation
		c.metrics.Hit(c.name)
		return ent.Value
	}

	c.metrics.Miss(c.name)
	v := c.computer.Compute(key)
	c.entries[h] = &types.CacheEntry[V]{Value: v, Generation: c.generation}
	return v
}

// Contains reports whether key has a value, without marking it used.
func (c *FrameCache[K, V]) Contains(key K) bool {
	_, ok := c.entries[id.HashOf(key)]
	return ok
}

/*
EvictCache ends the current frame.

BEHAVIOR:
---------
  - Every entry the expiration strategy rejects is removed
    (by default: every entry not used since the last EvictCache)
  - The generation advances by one, wrapping at 2^32
  - Returns the number of removed entries
*/
func (c *FrameCache[K, V]) EvictCache() int {
	current := c.generation
	removed := 0
	for h, ent := range c.entries {
		if c.expiration.IsExpired(ent.Generation, current) {
			delete(c.entries, h)
			removed++
		}
	}
	c.generation++

	if removed > 0 {
		c.metrics.Eviction(c.name, removed)
	}
	c.metrics.Sweep(c.name, c.generation, len(c.entries))
	return removed
}

// Len returns the number of cached values.
func (c *FrameCache[K, V]) Len() int {
	return len(c.entries)
}

// Generation returns the current frame generation.
func (c *FrameCache[K, V]) Generation() uint32 {
	return c.generation
}

// Name returns the name given with WithName.
func (c *FrameCache[K, V]) Name() string {
	return c.name
}
