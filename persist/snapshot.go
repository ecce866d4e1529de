// Package persist moves memory snapshots in and out of a types.Store.
//
// A snapshot is a JSON envelope around the persisted entries of a memory.
// Entries are kept as the codec produced them and are only decoded when a
// widget asks for them, so a snapshot written by an older build loads fine
// even if some of its types changed since.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/krisalay/ui-memory/anymap"
	"github.com/krisalay/ui-memory/typemap"
)

// Version is the envelope format written by Encode.
const Version = 1

var (
	// ErrCorrupt is returned when a snapshot envelope cannot be decoded.
	ErrCorrupt = errors.New("persist: corrupt snapshot")

	// ErrUnsupportedVersion is returned for envelopes written by a newer format.
	ErrUnsupportedVersion = errors.New("persist: unsupported snapshot version")
)

// Snapshot is everything a memory persists.
type Snapshot struct {
	ID      uuid.UUID        `json:"id"`
	Version int              `json:"version"`
	SavedAt time.Time        `json:"saved_at"`
	Frame   uint64           `json:"frame"`
	Codec   string           `json:"codec"`
	Data    []anymap.IDEntry `json:"data"`
	Globals []typemap.Entry  `json:"globals"`
}

// NewSnapshot returns an empty snapshot with a fresh id.
func NewSnapshot(codec string, frame uint64) *Snapshot {
	return &Snapshot{
		ID:      uuid.New(),
		Version: Version,
		SavedAt: time.Now().UTC(),
		Frame:   frame,
		Codec:   codec,
	}
}

// Len returns the number of entries in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.Data) + len(s.Globals)
}

// Encode serializes the envelope.
func Encode(s *Snapshot) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("persist: encode snapshot %s: %w", s.ID, err)
	}
	return b, nil
}

// Decode parses an envelope written by Encode.
func Decode(b []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if s.Version > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}
	return &s, nil
}
