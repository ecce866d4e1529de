package persist

import (
	"context"
	"errors"

	"golang.org/x/sync/singleflight"

	"github.com/krisalay/ui-memory/types"
)

/*
Loader reads snapshots from a store.

Several memories opened at once with the same key (e.g. one per window) would each
hit the store. singleflight ensures that:
  - Only ONE read per key is in flight
  - Everyone else waits and shares the result
*/
type Loader struct {
	store types.Store
	sf    singleflight.Group
}

// NewLoader returns a Loader reading from store.
func NewLoader(store types.Store) *Loader {
	return &Loader{store: store}
}

// Load returns the snapshot under key, or (nil, nil) if there is none yet.
// The returned snapshot may be shared with concurrent callers and must not be modified.
func (l *Loader) Load(ctx context.Context, key string) (*Snapshot, error) {
	v, err, _ := l.sf.Do(key, func() (any, error) {
		b, err := l.store.Load(ctx, key)
		if errors.Is(err, types.ErrNotFound) {
			return (*Snapshot)(nil), nil
		}
		if err != nil {
			return nil, err
		}
		return Decode(b)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}
