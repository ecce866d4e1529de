package id

import (
	"encoding/binary"
	"math"
	"reflect"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
)

/*
This file defines HOW arbitrary values are turned into 64-bit fingerprints.

The hash must be identical for identical inputs across frames AND across process
restarts, because ids are written to disk as keys of persisted widget state.
So we never use a random seed and never hash memory addresses of data we can
reach structurally.

Every value is written as a typed stream:
  - a tag byte saying what kind of value follows
  - a fixed 8 byte payload (number, length or count)
  - variable data (string bytes, elements, fields)

The tag and length prefix make ("ab", "c") and ("a", "bc") different streams.
*/

const (
	tagNil byte = iota + 1
	tagBool
	tagInt
	tagUint
	tagFloat
	tagComplex
	tagString
	tagBytes
	tagID
	tagSeq
	tagMap
	tagStruct
	tagPtr
	tagAddr
	tagRoot
	tagChild
	tagKey
)

// maxDepth bounds the reflect walk so cyclic pointer graphs terminate.
const maxDepth = 32

// Hashable is implemented by types that want to control how they are hashed.
type Hashable interface {
	HashInto(h *Hasher)
}

// Hasher writes values into an xxhash digest using a stable, typed layout.
type Hasher struct {
	d   *xxhash.Digest
	buf [9]byte
}

var hasherPool = sync.Pool{
	New: func() any { return &Hasher{d: xxhash.New()} },
}

// NewHasher returns an empty Hasher.
func NewHasher() *Hasher {
	return &Hasher{d: xxhash.New()}
}

func acquireHasher() *Hasher {
	h := hasherPool.Get().(*Hasher)
	h.d.Reset()
	return h
}

func releaseHasher(h *Hasher) {
	hasherPool.Put(h)
}

// Reset clears the digest.
func (h *Hasher) Reset() {
	h.d.Reset()
}

// Sum64 returns the fingerprint of everything written so far.
func (h *Hasher) Sum64() uint64 {
	return h.d.Sum64()
}

func (h *Hasher) tagged(tag byte, v uint64) {
	h.buf[0] = tag
	binary.LittleEndian.PutUint64(h.buf[1:], v)
	_, _ = h.d.Write(h.buf[:])
}

// WriteBool writes a bool.
func (h *Hasher) WriteBool(v bool) {
	var b uint64
	if v {
		b = 1
	}
	h.tagged(tagBool, b)
}

// WriteInt64 writes a signed integer. All signed widths hash alike.
func (h *Hasher) WriteInt64(v int64) {
	h.tagged(tagInt, uint64(v))
}

// WriteUint64 writes an unsigned integer. All unsigned widths hash alike.
func (h *Hasher) WriteUint64(v uint64) {
	h.tagged(tagUint, v)
}

// WriteFloat64 writes a float. Negative zero hashes as zero and all NaNs hash alike.
func (h *Hasher) WriteFloat64(v float64) {
	switch {
	case v == 0:
		v = 0
	case math.IsNaN(v):
		v = math.NaN()
	}
	h.tagged(tagFloat, math.Float64bits(v))
}

// WriteString writes a length-prefixed string.
func (h *Hasher) WriteString(s string) {
	h.tagged(tagString, uint64(len(s)))
	_, _ = h.d.WriteString(s)
}

// WriteBytes writes a length-prefixed byte slice.
func (h *Hasher) WriteBytes(b []byte) {
	h.tagged(tagBytes, uint64(len(b)))
	_, _ = h.d.Write(b)
}

// WriteID writes an ID.
func (h *Hasher) WriteID(i ID) {
	h.tagged(tagID, uint64(i))
}

// Write writes any value. Common types take a fast path; everything else is walked with reflect.
//
// Funcs, channels and unsafe pointers hash by address and are therefore only
// stable for the lifetime of the process.
func (h *Hasher) Write(v any) {
	switch x := v.(type) {
	case nil:
		h.tagged(tagNil, 0)
	case Hashable:
		if rv := reflect.ValueOf(x); rv.Kind() == reflect.Pointer && rv.IsNil() {
			h.tagged(tagNil, 0)
		} else {
			x.HashInto(h)
		}
	case string:
		h.WriteString(x)
	case []byte:
		h.WriteBytes(x)
	case bool:
		h.WriteBool(x)
	case int:
		h.WriteInt64(int64(x))
	case int8:
		h.WriteInt64(int64(x))
	case int16:
		h.WriteInt64(int64(x))
	case int32:
		h.WriteInt64(int64(x))
	case int64:
		h.WriteInt64(x)
	case uint:
		h.WriteUint64(uint64(x))
	case uint8:
		h.WriteUint64(uint64(x))
	case uint16:
		h.WriteUint64(uint64(x))
	case uint32:
		h.WriteUint64(uint64(x))
	case uint64:
		h.WriteUint64(x)
	case uintptr:
		h.WriteUint64(uint64(x))
	case float32:
		h.WriteFloat64(float64(x))
	case float64:
		h.WriteFloat64(x)
	case []any:
		h.tagged(tagSeq, uint64(len(x)))
		for _, e := range x {
			h.Write(e)
		}
	default:
		h.writeValue(reflect.ValueOf(v), 0)
	}
}

var hashableType = reflect.TypeOf((*Hashable)(nil)).Elem()

func (h *Hasher) writeValue(rv reflect.Value, depth int) {
	if !rv.IsValid() {
		h.tagged(tagNil, 0)
		return
	}
	if depth > maxDepth {
		h.tagged(tagAddr, uint64(depth))
		return
	}
	if rv.CanInterface() && rv.Type().Implements(hashableType) {
		nilable := rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface
		if !nilable || !rv.IsNil() {
			rv.Interface().(Hashable).HashInto(h)
			return
		}
	}

	switch rv.Kind() {
	case reflect.Bool:
		h.WriteBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		h.WriteInt64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		h.WriteUint64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		h.WriteFloat64(rv.Float())
	case reflect.Complex64, reflect.Complex128:
		c := rv.Complex()
		h.tagged(tagComplex, 2)
		h.WriteFloat64(real(c))
		h.WriteFloat64(imag(c))
	case reflect.String:
		h.WriteString(rv.String())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			h.WriteBytes(rv.Bytes())
			return
		}
		h.writeSeq(rv, depth)
	case reflect.Array:
		h.writeSeq(rv, depth)
	case reflect.Map:
		h.writeMap(rv, depth)
	case reflect.Struct:
		n := rv.NumField()
		h.tagged(tagStruct, uint64(n))
		for i := 0; i < n; i++ {
			h.writeValue(rv.Field(i), depth+1)
		}
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			h.tagged(tagNil, 0)
			return
		}
		h.tagged(tagPtr, 0)
		h.writeValue(rv.Elem(), depth+1)
	default:
		// func, chan, unsafe pointer
		h.tagged(tagAddr, uint64(rv.Pointer()))
	}
}

func (h *Hasher) writeSeq(rv reflect.Value, depth int) {
	n := rv.Len()
	h.tagged(tagSeq, uint64(n))
	for i := 0; i < n; i++ {
		h.writeValue(rv.Index(i), depth+1)
	}
}

// writeMap hashes every entry on its own and writes the sorted entry hashes,
// so iteration order does not matter.
func (h *Hasher) writeMap(rv reflect.Value, depth int) {
	sums := make([]uint64, 0, rv.Len())
	sub := NewHasher()
	iter := rv.MapRange()
	for iter.Next() {
		sub.Reset()
		sub.tagged(tagKey, 0)
		sub.writeValue(iter.Key(), depth+1)
		sub.writeValue(iter.Value(), depth+1)
		sums = append(sums, sub.Sum64())
	}
	slices.Sort(sums)

	h.tagged(tagMap, uint64(len(sums)))
	for _, s := range sums {
		h.WriteUint64(s)
	}
}

// HashOf returns the stable 64-bit hash of v, using the same layout as New.
// The result may be any value, including the reserved ids.
func HashOf(v any) uint64 {
	h := acquireHasher()
	defer releaseHasher(h)
	h.Write(v)
	return h.Sum64()
}
