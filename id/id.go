// Package id derives stable identifiers for widgets that are re-created every frame.
//
// An immediate-mode UI keeps no widget objects between frames, so anything that
// must survive (focus, scroll offsets, open/closed state) is keyed by an ID that
// the widget re-derives each frame from the same inputs:
//
//	panel := id.New("settings")
//	row := panel.With(3)
//	toggle := row.With("advanced")
//
// The same inputs always produce the same ID, in every frame and in every run of
// the program. IDs are compared by value; two unrelated widgets that hash the same
// inputs get the same ID, which is the caller's bug to fix (see memory.CheckForIDClash).
package id

import "fmt"

// ID is an opaque 64-bit fingerprint. The zero value is Null.
type ID uint64

// Reserved ids. Ordinary hashing never produces them.
const (
	// Null is a valid key with no widget attached, e.g. for state only identified by its type.
	Null ID = 0

	// Background is the root id of the background layer.
	Background ID = 1

	// Tooltip is the root id of the tooltip layer.
	Tooltip ID = 2

	firstHashed ID = 3
)

// New derives an ID by hashing source.
func New(source any) ID {
	h := acquireHasher()
	h.tagged(tagRoot, 0)
	h.Write(source)
	out := finish(h.Sum64())
	releaseHasher(h)

	recordNew(out, source)
	return out
}

// With derives a child ID from i and child. The result differs from i, from New(child)
// and from New(child).With(i).
func (i ID) With(child any) ID {
	h := acquireHasher()
	h.tagged(tagChild, uint64(i))
	h.Write(child)
	out := finish(h.Sum64())
	releaseHasher(h)

	recordWith(out, i, child)
	return out
}

// finish keeps hashed ids out of the reserved range.
func finish(sum uint64) ID {
	out := ID(sum)
	if out < firstHashed {
		out += firstHashed
	}
	return out
}

// HashInto implements Hashable.
func (i ID) HashInto(h *Hasher) {
	h.WriteID(i)
}

// Value returns the raw fingerprint.
func (i ID) Value() uint64 {
	return uint64(i)
}

// IsNull reports whether i is Null.
func (i ID) IsNull() bool {
	return i == Null
}

// IsReserved reports whether i is one of the reserved ids.
func (i ID) IsReserved() bool {
	return i < firstHashed
}

// Short is a short, readable summary for on-screen diagnostics.
func (i ID) Short() string {
	return fmt.Sprintf("%04X", uint16(i))
}

func (i ID) String() string {
	return fmt.Sprintf("%016X", uint64(i))
}
