package api

import (
	"context"

	"github.com/krisalay/ui-memory/frame"
	"github.com/krisalay/ui-memory/id"
	"github.com/krisalay/ui-memory/types"
)

/*
Owner defines the PUBLIC frame lifecycle of a UI memory.
This is the contract a host's frame loop is written against, without exposing
how state is stored, cached or persisted.
*/
type Owner interface {

	/*
		BeginFrame starts a frame covering screen.

		BEHAVIOR:
		---------
		- Forgets which ids were claimed in the previous frame
		- Empties the per-frame scratch map
		- Does NOT touch per-widget state or frame caches
	*/
	BeginFrame(screen types.Rect)

	/*
		EndFrame finishes the frame.

		BEHAVIOR:
		---------
		- Sweeps every frame cache: entries not used this frame are dropped
		- Advances the frame counter
		- Autosaves if the autosave interval passed

		Only the autosave can fail; the frame is finished regardless.
	*/
	EndFrame(ctx context.Context) error

	/*
		CheckForIDClash records that a widget uses i at rect this frame.

		RETURN VALUES:
		--------------
		nil     : the id is free, or reused by a widget nested in the first one
		*Clash  : two unrelated widgets share the id. This is a bug in the widget code;
		          it is reported, never fatal.
	*/
	CheckForIDClash(i id.ID, rect types.Rect, what string) *frame.Clash

	// Clashes lists the clashes of the current frame so the host can paint them.
	Clashes() []*frame.Clash

	/*
		Save writes every persisted value to the store.

		USE CASES:
		----------
		- Before the application exits
		- After a setting the user cares about changed

		Autosave calls this on its own; most hosts never need to.
	*/
	Save(ctx context.Context) error

	// Load replaces persisted state with the last saved snapshot.
	Load(ctx context.Context) error

	// Stats counts what the memory holds, for leak diagnostics.
	Stats() types.Stats

	/*
		Close saves a final snapshot, flushes pending writes and releases the store.
	*/
	Close(ctx context.Context) error
}
