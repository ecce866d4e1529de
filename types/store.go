package types

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.Load when nothing was saved under the key.
var ErrNotFound = errors.New("not found")

// Store is the contract between the memory and the place snapshots live.
type Store interface {

	/*
		Load returns the snapshot saved under key.

		It is called once at startup, before the first frame:
		1. Memory asks the Store for the key
		2. Store reads it from disk/Redis/etc
		3. Memory restores the entries, still serialized
		4. Entries are decoded one by one as widgets ask for them

		Returns ErrNotFound (possibly wrapped) when there is no snapshot yet.
	*/
	Load(ctx context.Context, key string) ([]byte, error)

	/*
		Put writes a snapshot under key, replacing the previous one.

		This is used by write policies:
		-------------------------------
		- Write-through: write immediately
		- Write-back: write asynchronously later
	*/
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes the snapshot. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
