// Package cell provides Cell, a box holding one value of any type together with that
// type's identity.
//
// Reads name the type they expect. A read with the wrong type reports "absent" instead of
// failing, because many unrelated features share the same key space:
//
//	c := cell.New(uint32(42))
//	_, ok := cell.Get[string](c) // ok == false
//	n, _ := cell.Get[uint32](c)   // n == 42
//
// A cell is either live (holding a *T) or serialized (holding the encoded text of a value
// restored from disk). Serialized cells are decoded lazily on the first typed access.
package cell

import (
	"fmt"
	"log/slog"
)

// Serialized is the persisted form of one cell.
type Serialized struct {
	Type TypeID `json:"type_id" yaml:"type_id"`
	Data string `json:"data" yaml:"data"`
}

// Cell owns exactly one value. The zero value is not usable; use New, NewPersisted or FromSerialized.
type Cell struct {
	typ TypeID

	// ptr is a *T while live, nil while serialized.
	ptr   any
	clone func(any) any

	// codec is nil for temporary cells, which are never serialized.
	codec Codec

	raw string
}

// New creates a temporary cell. Temporary cells are never serialized.
func New[T any](v T) *Cell {
	return NewPersisted(v, nil)
}

// NewPersisted creates a cell whose value is serialized with codec. A nil codec makes it temporary.
func NewPersisted[T any](v T, codec Codec) *Cell {
	c := &Cell{codec: codec}
	Set(c, v)
	return c
}

// FromSerialized creates a serialized cell. It is decoded with codec on first typed access.
func FromSerialized(s Serialized, codec Codec) *Cell {
	return &Cell{typ: s.Type, codec: codec, raw: s.Data}
}

func cloneOf[T any](p any) any {
	v := *(p.(*T))
	return &v
}

// TypeID is the type of the stored value, also while serialized.
func (c *Cell) TypeID() TypeID {
	return c.typ
}

// IsSerialized reports whether the value is still waiting to be decoded.
func (c *Cell) IsSerialized() bool {
	return c.ptr == nil
}

// IsPersisted reports whether the value is written out by Serialize.
func (c *Cell) IsPersisted() bool {
	return c.codec != nil
}

// Codec is the codec of a persisted cell, nil for temporary cells.
func (c *Cell) Codec() Codec {
	return c.codec
}

// Peek returns the live value if it has type T. It never decodes a serialized value.
func Peek[T any](c *Cell) (*T, bool) {
	if c == nil || c.ptr == nil {
		return nil, false
	}
	p, ok := c.ptr.(*T)
	return p, ok
}

// GetMut returns a pointer to the value if it has type T. The pointer stays valid until the
// cell is overwritten with another type. A serialized value of type T is decoded on the
// first call; if decoding fails the cell stays serialized and GetMut reports absent.
func GetMut[T any](c *Cell) (*T, bool) {
	if c == nil {
		return nil, false
	}
	if c.ptr != nil {
		p, ok := c.ptr.(*T)
		return p, ok
	}
	if c.codec == nil || c.typ != TypeOf[T]() {
		return nil, false
	}

	p := new(T)
	if err := c.codec.Unmarshal([]byte(c.raw), p); err != nil {
		slog.Warn("cell: failed to deserialize value",
			"type", fmt.Sprintf("%T", *p),
			"codec", c.codec.Name(),
			"error", err,
		)
		return nil, false
	}
	c.ptr = p
	c.clone = cloneOf[T]
	c.raw = ""
	return p, true
}

// Get returns a copy of the value if it has type T.
func Get[T any](c *Cell) (T, bool) {
	p, ok := GetMut[T](c)
	if !ok {
		var zero T
		return zero, false
	}
	return *p, true
}

/*
GetMutOrSetWith returns the value if it has type T.

Otherwise the old value is DISCARDED and f() is stored in its place:
  - stored value has another type     -> replaced
  - serialized value of another type  -> replaced
  - serialized value fails to decode  -> replaced

f is called at most once. The cell keeps its persistence mode.
*/
func GetMutOrSetWith[T any](c *Cell, f func() T) *T {
	if p, ok := GetMut[T](c); ok {
		return p
	}
	return Set(c, f())
}

// Set replaces the value wholesale, whatever was stored before.
func Set[T any](c *Cell, v T) *T {
	p := new(T)
	*p = v
	c.typ = TypeOf[T]()
	c.ptr = p
	c.clone = cloneOf[T]
	c.raw = ""
	return p
}

// Clone returns an independent copy. Values are copied with plain assignment, so the copy
// shares whatever the value points to.
func (c *Cell) Clone() *Cell {
	out := *c
	if c.ptr != nil {
		out.ptr = c.clone(c.ptr)
	}
	return &out
}

// Serialize returns the persisted form. It reports false for temporary cells and for values
// the codec cannot encode; a value that fails to encode is logged and skipped.
func (c *Cell) Serialize() (Serialized, bool) {
	if c.codec == nil {
		return Serialized{}, false
	}
	if c.ptr == nil {
		return Serialized{Type: c.typ, Data: c.raw}, true
	}

	data, err := c.codec.Marshal(c.ptr)
	if err != nil {
		slog.Warn("cell: failed to serialize value",
			"type", c.typ.String(),
			"codec", c.codec.Name(),
			"error", err,
		)
		return Serialized{}, false
	}
	return Serialized{Type: c.typ, Data: string(data)}, true
}

func (c *Cell) String() string {
	if c.ptr == nil {
		return fmt.Sprintf("Cell{type: %s, serialized: %q}", c.typ, c.raw)
	}
	return fmt.Sprintf("Cell{type: %s}", c.typ)
}
