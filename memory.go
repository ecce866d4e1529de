// Package memory is the state owner of an immediate-mode UI.
//
// Widgets are re-created every frame, so whatever must outlive a frame lives here,
// keyed by the widget's id.ID:
//
//	mem.BeginFrame(screen)
//	open := anymap.GetPersistedMutOrDefault[bool](mem.Data, id.New("advanced"))
//	...
//	mem.EndFrame(ctx)
//
// Memory is not safe for concurrent use. Hosts that touch it from several goroutines
// wrap it in a Shared.
package memory

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/krisalay/ui-memory/anymap"
	"github.com/krisalay/ui-memory/api"
	"github.com/krisalay/ui-memory/cell"
	"github.com/krisalay/ui-memory/engine"
	"github.com/krisalay/ui-memory/frame"
	"github.com/krisalay/ui-memory/framecache"
	"github.com/krisalay/ui-memory/id"
	"github.com/krisalay/ui-memory/persist"
	"github.com/krisalay/ui-memory/typemap"
	"github.com/krisalay/ui-memory/types"
)

var (
	// ErrNoStore is returned by Save and Load when the memory has no persistence configured.
	ErrNoStore = errors.New("memory: no store configured")

	// ErrCodecMismatch is returned by Restore for snapshots encoded with another codec.
	ErrCodecMismatch = errors.New("memory: snapshot codec mismatch")

	// ErrClosed is returned by Save and Load after Close.
	ErrClosed = errors.New("memory: closed")
)

var _ api.Owner = (*Memory)(nil)

/*
Memory is the main state owner.
This struct is the orchestrator that connects:
- per-widget state (Data)
- singleton state (Globals)
- frame caches (Caches)
- per-frame bookkeeping
- persistence
- metrics
*/
type Memory struct {
	// Data holds per-widget state keyed by (id, type). Persisted entries survive restarts.
	Data *anymap.IDTypeMap

	// Globals holds one persisted value per type, for state that belongs to no widget.
	Globals *typemap.TypeMap

	// Caches holds the frame caches. They are swept by EndFrame.
	Caches *framecache.Storage

	// engine contains the "rules": autosave, write policy, clash reporting, metrics.
	engine *engine.Engine

	frame   *frame.State
	frameNr uint64
	codec   cell.Codec

	loader *persist.Loader
	closer io.Closer
	closed bool
}

// New creates an empty Memory. A nil engine keeps everything in memory; a nil codec uses cell.JSON.
func New(e *engine.Engine, codec cell.Codec) *Memory {
	if e == nil {
		e = engine.NewEngine(nil, nil, nil, nil)
	}
	if codec == nil {
		codec = cell.JSON
	}
	return &Memory{
		Data:    anymap.NewIDTypeMap(codec),
		Globals: typemap.NewPersisted(codec),
		Caches:  framecache.NewStorage(),
		engine:  e,
		frame:   frame.NewState(),
		codec:   codec,
	}
}

// SetLoader makes Load read snapshots through l.
func (m *Memory) SetLoader(l *persist.Loader) {
	m.loader = l
}

// Engine returns the policy layer.
func (m *Memory) Engine() *engine.Engine {
	return m.engine
}

/*
BeginFrame starts a frame covering screen.

BEHAVIOR:
---------
- Clears frame bookkeeping: claimed ids, clashes, layout scratch, frame scratch map
- Does NOT touch Data, Globals or frame caches
*/
func (m *Memory) BeginFrame(screen types.Rect) {
	m.frame.Begin(screen)
}

/*
EndFrame finishes a frame.

BEHAVIOR:
---------
 1. Every frame cache drops the entries this frame did not use
 2. The frame counter advances
 3. If the autosave interval passed, a snapshot is saved (never after Close)

Only the autosave can fail. Its error is returned but the frame is finished regardless.
*/
func (m *Memory) EndFrame(ctx context.Context) error {
	m.Caches.Update()
	m.frameNr++

	if !m.closed && m.engine.ShouldAutosave() {
		return m.Save(ctx)
	}
	return nil
}

// Frame returns the per-frame bookkeeping of the current frame.
func (m *Memory) Frame() *frame.State {
	return m.frame
}

// FrameNr returns the number of finished frames.
func (m *Memory) FrameNr() uint64 {
	return m.frameNr
}

/*
CheckForIDClash records that a widget described by what uses i at rect this frame.

Returns nil when the id is free, or when it was claimed at a rect that contains or is contained
by rect (e.g. a frame and the widget it surrounds). Otherwise returns the clash, which is also
logged, counted and listed by Clashes until the next BeginFrame. A clash never stops the frame.
*/
func (m *Memory) CheckForIDClash(i id.ID, rect types.Rect, what string) *frame.Clash {
	c := m.frame.Claim(i, rect, what)
	if c != nil {
		m.engine.OnClash(c)
	}
	return c
}

// Clashes returns the id clashes of the current frame, for the host to paint.
func (m *Memory) Clashes() []*frame.Clash {
	return m.frame.Clashes()
}

// CacheOptions returns the options frame caches should be created with to share the memory's
// metrics and expiration.
func (m *Memory) CacheOptions(name string) []framecache.Option {
	return []framecache.Option{
		framecache.WithName(name),
		framecache.WithMetrics(m.engine.Metrics),
		framecache.WithExpiration(m.engine.Expiration),
	}
}

// Snapshot captures every persisted value. Values restored earlier and never read are included as they were.
func (m *Memory) Snapshot() *persist.Snapshot {
	s := persist.NewSnapshot(m.codec.Name(), m.frameNr)
	s.Data = m.Data.Snapshot()
	s.Globals = m.Globals.Snapshot()
	return s
}

// Restore replaces Data and Globals with the contents of s. Temporary values are lost.
// Nothing is decoded until a widget asks for it.
func (m *Memory) Restore(s *persist.Snapshot) error {
	if s.Codec != m.codec.Name() {
		return fmt.Errorf("%w: snapshot %s uses %q, memory uses %q", ErrCodecMismatch, s.ID, s.Codec, m.codec.Name())
	}
	m.Data.Restore(s.Data)
	m.Globals.Restore(s.Globals)
	return nil
}

// Save encodes a snapshot and hands it to the write policy.
// With a write-back policy the snapshot may not be in the store yet when Save returns.
func (m *Memory) Save(ctx context.Context) error {
	if m.closed {
		return ErrClosed
	}
	s := m.Snapshot()
	b, err := persist.Encode(s)
	if err != nil {
		return err
	}
	if !m.engine.OnSave(ctx, b) {
		return ErrNoStore
	}
	m.engine.Logger.Debug("memory snapshot saved", "snapshot", s.ID, "entries", s.Len(), "bytes", len(b))
	return nil
}

// Load restores the snapshot saved under the engine's key. A missing snapshot is not an error.
func (m *Memory) Load(ctx context.Context) error {
	if m.closed {
		return ErrClosed
	}
	if m.loader == nil {
		return ErrNoStore
	}
	s, err := m.loader.Load(ctx, m.engine.Key)
	if err != nil {
		return err
	}
	if s == nil {
		return nil
	}
	if err := m.Restore(s); err != nil {
		return err
	}
	m.engine.Logger.Info("memory snapshot loaded", "snapshot", s.ID, "saved_at", s.SavedAt, "entries", s.Len())
	return nil
}

// Stats counts what the memory holds.
func (m *Memory) Stats() types.Stats {
	return types.Stats{
		Frame:          m.frameNr,
		Data:           m.Data.Len(),
		DataSerialized: m.Data.CountSerialized(),
		Globals:        m.Globals.CountAll(),
		CacheValues:    m.Caches.Sizes(),
		UsedIDs:        m.frame.UsedCount(),
	}
}

/*
Close shuts the memory down.
------------------
1. Saves a final snapshot if persistence is configured
2. Flushes pending write-back snapshots
3. Closes the store

Closing twice is a no-op. Frames may still run afterwards, but nothing is saved.
*/
func (m *Memory) Close(ctx context.Context) error {
	if m.closed {
		return nil
	}
	var errs []error
	if err := m.Save(ctx); err != nil && !errors.Is(err, ErrNoStore) {
		errs = append(errs, err)
	}
	m.closed = true
	m.engine.Close()
	if m.closer != nil {
		if err := m.closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
