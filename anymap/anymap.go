// Package anymap stores values of arbitrary types keyed by a caller-chosen key.
//
// AnyMap has one slot per key: storing a value of another type at the same key
// replaces the old one. IDTypeMap is keyed by (id, type), so one widget id can
// own one value of every type it needs.
package anymap

import (
	"github.com/krisalay/ui-memory/cell"
)

// AnyMap holds one cell per key. It is not safe for concurrent use.
type AnyMap[K comparable] struct {
	cells map[K]*cell.Cell
	codec cell.Codec
}

// Entry is the persisted form of one slot.
type Entry[K comparable] struct {
	Key  K           `json:"key" yaml:"key"`
	Type cell.TypeID `json:"type_id" yaml:"type_id"`
	Data string      `json:"data" yaml:"data"`
}

// New returns a map for temporary values.
func New[K comparable]() *AnyMap[K] {
	return &AnyMap[K]{cells: make(map[K]*cell.Cell)}
}

// NewPersisted returns a map whose values are written out by Snapshot using codec.
func NewPersisted[K comparable](codec cell.Codec) *AnyMap[K] {
	m := New[K]()
	m.codec = codec
	return m
}

// Get returns a copy of the value at key if it has type T.
func Get[T any, K comparable](m *AnyMap[K], key K) (T, bool) {
	return cell.Get[T](m.cells[key])
}

// GetMut returns a pointer to the value at key if it has type T.
func GetMut[T any, K comparable](m *AnyMap[K], key K) (*T, bool) {
	return cell.GetMut[T](m.cells[key])
}

// GetOrInsertWith returns the value at key, storing f() first if the slot is empty or holds another type.
func GetOrInsertWith[T any, K comparable](m *AnyMap[K], key K, f func() T) T {
	return *GetMutOrInsertWith(m, key, f)
}

// GetOrDefault is GetOrInsertWith with the zero value.
func GetOrDefault[T any, K comparable](m *AnyMap[K], key K) T {
	return *GetMutOrDefault[T](m, key)
}

/*
GetMutOrInsertWith returns a pointer to the value at key.

BEHAVIOR:
---------
  - slot holds a T                 -> returned, f is not called
  - slot empty                     -> f() is stored
  - slot holds another type        -> old value DISCARDED, f() is stored
  - slot holds undecodable data    -> old value DISCARDED, f() is stored
*/
func GetMutOrInsertWith[T any, K comparable](m *AnyMap[K], key K, f func() T) *T {
	if c, ok := m.cells[key]; ok {
		return cell.GetMutOrSetWith(c, f)
	}
	c := cell.NewPersisted(f(), m.codec)
	m.cells[key] = c
	p, _ := cell.Peek[T](c)
	return p
}

// GetMutOrDefault is GetMutOrInsertWith with the zero value.
func GetMutOrDefault[T any, K comparable](m *AnyMap[K], key K) *T {
	return GetMutOrInsertWith(m, key, func() T {
		var zero T
		return zero
	})
}

// Insert stores v at key, replacing whatever was there.
func Insert[T any, K comparable](m *AnyMap[K], key K, v T) {
	m.cells[key] = cell.NewPersisted(v, m.codec)
}

// Remove deletes the slot at key whatever its type, and reports whether there was one.
func (m *AnyMap[K]) Remove(key K) bool {
	_, ok := m.cells[key]
	delete(m.cells, key)
	return ok
}

// Count returns the number of slots holding a T. It walks the whole map.
func Count[T any, K comparable](m *AnyMap[K]) int {
	tid := cell.TypeOf[T]()
	n := 0
	for _, c := range m.cells {
		if c.TypeID() == tid {
			n++
		}
	}
	return n
}

// Reset removes every slot holding a T. It walks the whole map.
func Reset[T any, K comparable](m *AnyMap[K]) {
	tid := cell.TypeOf[T]()
	for k, c := range m.cells {
		if c.TypeID() == tid {
			delete(m.cells, k)
		}
	}
}

// CountAll returns the number of slots.
func (m *AnyMap[K]) CountAll() int {
	return len(m.cells)
}

// ResetAll removes every slot.
func (m *AnyMap[K]) ResetAll() {
	clear(m.cells)
}

// Clone returns an independent copy of the map.
func (m *AnyMap[K]) Clone() *AnyMap[K] {
	out := &AnyMap[K]{cells: make(map[K]*cell.Cell, len(m.cells)), codec: m.codec}
	for k, c := range m.cells {
		out.cells[k] = c.Clone()
	}
	return out
}

// Snapshot returns the persisted form of every persisted slot, in no particular order.
func (m *AnyMap[K]) Snapshot() []Entry[K] {
	out := make([]Entry[K], 0, len(m.cells))
	for k, c := range m.cells {
		if s, ok := c.Serialize(); ok {
			out = append(out, Entry[K]{Key: k, Type: s.Type, Data: s.Data})
		}
	}
	return out
}

// Restore replaces the contents with entries, decoded lazily with the map's codec.
// Restoring into a temporary map is a no-op.
func (m *AnyMap[K]) Restore(entries []Entry[K]) {
	if m.codec == nil {
		return
	}
	clear(m.cells)
	for _, e := range entries {
		m.cells[e.Key] = cell.FromSerialized(cell.Serialized{Type: e.Type, Data: e.Data}, m.codec)
	}
}
