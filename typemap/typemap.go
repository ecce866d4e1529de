// Package typemap stores at most one value per Go type.
//
// It is meant for singleton feature state such as the current theme or
// a window manager's layout, where the type alone is the key.
package typemap

import (
	"sort"

	"github.com/krisalay/ui-memory/cell"
)

// TypeMap holds one cell per TypeID. It is not safe for concurrent use.
type TypeMap struct {
	cells map[cell.TypeID]*cell.Cell

	// codec is nil for maps whose values are never persisted.
	codec cell.Codec
}

// Entry is the persisted form of one value.
type Entry = cell.Serialized

// New returns a map for temporary values.
func New() *TypeMap {
	return &TypeMap{cells: make(map[cell.TypeID]*cell.Cell)}
}

// NewPersisted returns a map whose values are written out by Snapshot using codec.
func NewPersisted(codec cell.Codec) *TypeMap {
	m := New()
	m.codec = codec
	return m
}

// Codec returns the map's codec, nil for temporary maps.
func (m *TypeMap) Codec() cell.Codec {
	return m.codec
}

func (m *TypeMap) slot(tid cell.TypeID) *cell.Cell {
	return m.cells[tid]
}

func newCell[T any](m *TypeMap, v T) *cell.Cell {
	return cell.NewPersisted(v, m.codec)
}

// Get returns a copy of the value of type T.
func Get[T any](m *TypeMap) (T, bool) {
	return cell.Get[T](m.slot(cell.TypeOf[T]()))
}

// GetMut returns a pointer to the value of type T.
func GetMut[T any](m *TypeMap) (*T, bool) {
	return cell.GetMut[T](m.slot(cell.TypeOf[T]()))
}

// GetOrInsertWith returns the value of type T, inserting f() first if it is absent.
func GetOrInsertWith[T any](m *TypeMap, f func() T) T {
	return *GetMutOrInsertWith(m, f)
}

// GetOrDefault is GetOrInsertWith with the zero value.
func GetOrDefault[T any](m *TypeMap) T {
	return *GetMutOrDefault[T](m)
}

/*
GetMutOrInsertWith returns a pointer to the value of type T.

BEHAVIOR:
---------
  - value present          -> returned, f is not called
  - value absent           -> f() is inserted and returned
  - value fails to decode  -> f() replaces it
*/
func GetMutOrInsertWith[T any](m *TypeMap, f func() T) *T {
	tid := cell.TypeOf[T]()
	if c := m.slot(tid); c != nil {
		return cell.GetMutOrSetWith(c, f)
	}
	c := newCell(m, f())
	m.cells[tid] = c
	p, _ := cell.Peek[T](c)
	return p
}

// GetMutOrDefault is GetMutOrInsertWith with the zero value.
func GetMutOrDefault[T any](m *TypeMap) *T {
	return GetMutOrInsertWith(m, func() T {
		var zero T
		return zero
	})
}

// Insert stores v, replacing any previous value of type T.
func Insert[T any](m *TypeMap, v T) {
	m.cells[cell.TypeOf[T]()] = newCell(m, v)
}

// Remove deletes the value of type T and reports whether there was one.
func Remove[T any](m *TypeMap) bool {
	tid := cell.TypeOf[T]()
	_, ok := m.cells[tid]
	delete(m.cells, tid)
	return ok
}

// Count returns 1 if a value of type T is stored, serialized or not, and 0 otherwise.
func Count[T any](m *TypeMap) int {
	if _, ok := m.cells[cell.TypeOf[T]()]; ok {
		return 1
	}
	return 0
}

// Reset removes the value of type T.
func Reset[T any](m *TypeMap) {
	Remove[T](m)
}

// CountAll returns the number of stored values.
func (m *TypeMap) CountAll() int {
	return len(m.cells)
}

// CountSerialized returns the number of values still waiting to be decoded.
func (m *TypeMap) CountSerialized() int {
	n := 0
	for _, c := range m.cells {
		if c.IsSerialized() {
			n++
		}
	}
	return n
}

// ResetAll removes every value.
func (m *TypeMap) ResetAll() {
	clear(m.cells)
}

// Clone returns an independent copy of the map.
func (m *TypeMap) Clone() *TypeMap {
	out := &TypeMap{
		cells: make(map[cell.TypeID]*cell.Cell, len(m.cells)),
		codec: m.codec,
	}
	for tid, c := range m.cells {
		out.cells[tid] = c.Clone()
	}
	return out
}

// Range calls fn for every stored value until fn returns false. Values are not decoded.
func (m *TypeMap) Range(fn func(cell.TypeID, *cell.Cell) bool) {
	for tid, c := range m.cells {
		if !fn(tid, c) {
			return
		}
	}
}

// Snapshot returns the persisted form of every persisted value, sorted by type.
// Values that fail to encode are skipped.
func (m *TypeMap) Snapshot() []Entry {
	out := make([]Entry, 0, len(m.cells))
	for _, c := range m.cells {
		if s, ok := c.Serialize(); ok {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// Restore replaces the contents with entries. They are decoded lazily with the map's codec.
// Restoring into a temporary map is a no-op.
func (m *TypeMap) Restore(entries []Entry) {
	if m.codec == nil {
		return
	}
	clear(m.cells)
	for _, e := range entries {
		m.cells[e.Type] = cell.FromSerialized(e, m.codec)
	}
}
