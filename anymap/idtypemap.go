package anymap

import (
	"sort"

	"github.com/krisalay/ui-memory/cell"
	"github.com/krisalay/ui-memory/id"
)

type idKey struct {
	id  id.ID
	typ cell.TypeID
}

// IDTypeMap stores per-widget state keyed by (id, type).
//
// Every value is either temporary or persisted, chosen on insert. Temporary
// values are never written out by Snapshot. Persisted values restored from a
// snapshot stay serialized until read with GetPersisted or one of its variants.
type IDTypeMap struct {
	cells map[idKey]*cell.Cell
	codec cell.Codec
}

// IDEntry is the persisted form of one value.
type IDEntry struct {
	ID   id.ID       `json:"id" yaml:"id"`
	Type cell.TypeID `json:"type_id" yaml:"type_id"`
	Data string      `json:"data" yaml:"data"`
}

// NewIDTypeMap returns an empty map. Persisted values are encoded with codec;
// a nil codec uses cell.JSON.
func NewIDTypeMap(codec cell.Codec) *IDTypeMap {
	if codec == nil {
		codec = cell.JSON
	}
	return &IDTypeMap{cells: make(map[idKey]*cell.Cell), codec: codec}
}

func keyOf[T any](i id.ID) idKey {
	return idKey{id: i, typ: cell.TypeOf[T]()}
}

// Codec returns the codec used for persisted values.
func (m *IDTypeMap) Codec() cell.Codec {
	return m.codec
}

// InsertTemp stores a value that is never persisted.
func InsertTemp[T any](m *IDTypeMap, i id.ID, v T) {
	m.cells[keyOf[T](i)] = cell.New(v)
}

// InsertPersisted stores a value that is written out by Snapshot.
func InsertPersisted[T any](m *IDTypeMap, i id.ID, v T) {
	m.cells[keyOf[T](i)] = cell.NewPersisted(v, m.codec)
}

// GetTemp returns a copy of a live value. Values restored from a snapshot are not decoded
// and read as absent; use GetPersisted for those.
func GetTemp[T any](m *IDTypeMap, i id.ID) (T, bool) {
	p, ok := cell.Peek[T](m.cells[keyOf[T](i)])
	if !ok {
		var zero T
		return zero, false
	}
	return *p, true
}

// GetPersisted returns a copy of the value, decoding it first if it was restored from a snapshot.
func GetPersisted[T any](m *IDTypeMap, i id.ID) (T, bool) {
	return cell.Get[T](m.cells[keyOf[T](i)])
}

// GetTempMutOrInsertWith returns a pointer to a live value. A missing value, or one still
// serialized, is replaced by a temporary f().
func GetTempMutOrInsertWith[T any](m *IDTypeMap, i id.ID, f func() T) *T {
	k := keyOf[T](i)
	if p, ok := cell.Peek[T](m.cells[k]); ok {
		return p
	}
	c := cell.New(f())
	m.cells[k] = c
	p, _ := cell.Peek[T](c)
	return p
}

// GetTempMutOrDefault is GetTempMutOrInsertWith with the zero value.
func GetTempMutOrDefault[T any](m *IDTypeMap, i id.ID) *T {
	return GetTempMutOrInsertWith(m, i, zeroOf[T])
}

// GetPersistedMutOrInsertWith returns a pointer to the value, decoding it if needed.
// A missing value, or one that fails to decode, is replaced by a persisted f().
func GetPersistedMutOrInsertWith[T any](m *IDTypeMap, i id.ID, f func() T) *T {
	k := keyOf[T](i)
	if p, ok := cell.GetMut[T](m.cells[k]); ok {
		return p
	}
	c := cell.NewPersisted(f(), m.codec)
	m.cells[k] = c
	p, _ := cell.Peek[T](c)
	return p
}

// GetPersistedMutOrDefault is GetPersistedMutOrInsertWith with the zero value.
func GetPersistedMutOrDefault[T any](m *IDTypeMap, i id.ID) *T {
	return GetPersistedMutOrInsertWith(m, i, zeroOf[T])
}

func zeroOf[T any]() T {
	var zero T
	return zero
}

// Remove deletes the value of type T owned by i. Values of other types owned by i are kept.
func Remove[T any](m *IDTypeMap, i id.ID) bool {
	k := keyOf[T](i)
	_, ok := m.cells[k]
	delete(m.cells, k)
	return ok
}

// RemoveByType deletes every value of type T. It walks the whole map.
func RemoveByType[T any](m *IDTypeMap) {
	tid := cell.TypeOf[T]()
	for k := range m.cells {
		if k.typ == tid {
			delete(m.cells, k)
		}
	}
}

// CountOf returns the number of values of type T. It walks the whole map.
func CountOf[T any](m *IDTypeMap) int {
	tid := cell.TypeOf[T]()
	n := 0
	for k := range m.cells {
		if k.typ == tid {
			n++
		}
	}
	return n
}

// Clear removes every value.
func (m *IDTypeMap) Clear() {
	clear(m.cells)
}

// Len returns the number of values, temporary and persisted.
func (m *IDTypeMap) Len() int {
	return len(m.cells)
}

// IsEmpty reports whether the map holds nothing.
func (m *IDTypeMap) IsEmpty() bool {
	return len(m.cells) == 0
}

// CountSerialized returns the number of restored values nobody has read yet.
func (m *IDTypeMap) CountSerialized() int {
	n := 0
	for _, c := range m.cells {
		if c.IsSerialized() {
			n++
		}
	}
	return n
}

// CountByType returns the number of values per type, for leak diagnostics.
func (m *IDTypeMap) CountByType() map[cell.TypeID]int {
	out := make(map[cell.TypeID]int)
	for k := range m.cells {
		out[k.typ]++
	}
	return out
}

// IDs returns every id that holds at least one value.
func (m *IDTypeMap) IDs() id.Set {
	out := make(id.Set, len(m.cells))
	for k := range m.cells {
		out.Insert(k.id)
	}
	return out
}

// Clone returns an independent copy.
func (m *IDTypeMap) Clone() *IDTypeMap {
	out := &IDTypeMap{cells: make(map[idKey]*cell.Cell, len(m.cells)), codec: m.codec}
	for k, c := range m.cells {
		out.cells[k] = c.Clone()
	}
	return out
}

// Snapshot returns every persisted value sorted by id and type. Values still serialized
// are written back as they were read.
func (m *IDTypeMap) Snapshot() []IDEntry {
	out := make([]IDEntry, 0, len(m.cells))
	for k, c := range m.cells {
		if s, ok := c.Serialize(); ok {
			out = append(out, IDEntry{ID: k.id, Type: s.Type, Data: s.Data})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID != out[j].ID {
			return out[i].ID < out[j].ID
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// Restore replaces the contents with entries. Nothing is decoded until accessed.
func (m *IDTypeMap) Restore(entries []IDEntry) {
	clear(m.cells)
	for _, e := range entries {
		m.cells[idKey{id: e.ID, typ: e.Type}] = cell.FromSerialized(cell.Serialized{Type: e.Type, Data: e.Data}, m.codec)
	}
}
