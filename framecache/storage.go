package framecache

import (
	"fmt"
	"reflect"
)

// Storage holds any number of frame caches, at most one per Go type.
// Widgets reach their cache with CacheOf and the memory sweeps all of them at the end of each frame.
type Storage struct {
	caches map[reflect.Type]Cache
	order  []reflect.Type
}

// NewStorage returns an empty Storage.
func NewStorage() *Storage {
	return &Storage{caches: make(map[reflect.Type]Cache)}
}

/*
CacheOf returns the cache of type C, creating it with newFn on first use.

newFn must return a non-nil C. Caches are told apart by their static type, so
wrap a generic FrameCache in a named type when two caches share K and V.
*/
func CacheOf[C Cache](s *Storage, newFn func() C) C {
	t := reflect.TypeOf((*C)(nil)).Elem()
	if c, ok := s.caches[t]; ok {
		return c.(C)
	}
	c := newFn()
	if v := reflect.ValueOf(c); !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		panic(fmt.Sprintf("framecache: factory for %v returned nil", t))
	}
	s.caches[t] = c
	s.order = append(s.order, t)
	return c
}

// Update sweeps every cache, in the order they were created, and returns the number of dropped entries.
func (s *Storage) Update() int {
	removed := 0
	for _, t := range s.order {
		removed += s.caches[t].EvictCache()
	}
	return removed
}

// NumCaches returns the number of caches.
func (s *Storage) NumCaches() int {
	return len(s.caches)
}

// NumValues returns the number of cached values across all caches.
func (s *Storage) NumValues() int {
	n := 0
	for _, c := range s.caches {
		n += c.Len()
	}
	return n
}

// Sizes returns the number of values per cache name.
func (s *Storage) Sizes() map[string]int {
	out := make(map[string]int, len(s.caches))
	for _, t := range s.order {
		c := s.caches[t]
		out[c.Name()] += c.Len()
	}
	return out
}
