package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/krisalay/ui-memory/expiration"
	"github.com/krisalay/ui-memory/frame"
	"github.com/krisalay/ui-memory/types"
	"github.com/krisalay/ui-memory/writepolicy"
)

/*
Engine is the "brain" of the memory.
It is responsible for the "behavior" of the memory, NOT storage.
This acts as the policy layer.

It decides:
- When state is saved (autosave cadence)
- Where saved snapshots go (write policy)
- How frame caches are swept (expiration)
- How id clashes are reported
- How metrics are recorded

It does NOT:
- Store widget state
- Hash ids
- Handle locking
*/
type Engine struct {

	// Expiration controls when frame cache entries are dropped.
	// If this is nil, entries not used in a frame are dropped at its end.
	Expiration expiration.Strategy

	// WritePolicy decides what happens to saved snapshots.
	// Examples:
	// - Write-through: write to the store immediately
	// - Write-back: write to the store asynchronously later
	//
	// If nil, state stays only in memory.
	WritePolicy writepolicy.WritePolicy

	// Metrics is how we keep track of what the memory is doing.
	Metrics types.Metrics

	// Logger receives clash warnings and persistence errors.
	Logger *slog.Logger

	// Key is the store key snapshots are saved under.
	Key string

	// AutosaveInterval is the minimum time between two autosaves. Zero disables autosave.
	AutosaveInterval time.Duration

	// WarnOnIDClash logs every id clash. Clashes are recorded either way.
	WarnOnIDClash bool

	now func() time.Time

	mu       sync.Mutex
	lastSave time.Time
}

/*
NewEngine creates an Engine.
*/
func NewEngine(
	exp expiration.Strategy,
	writePolicy writepolicy.WritePolicy,
	metrics types.Metrics,
	logger *slog.Logger,
) *Engine {

	// Ensure metrics and logger are always non-nil
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if exp == nil {
		exp = expiration.LastFrame{}
	}

	e := &Engine{
		Expiration:    exp,
		WritePolicy:   writePolicy,
		Metrics:       metrics,
		Logger:        logger,
		Key:           "ui-memory",
		WarnOnIDClash: true,
		now:           time.Now,
	}
	e.lastSave = e.now()
	return e
}

// SetClock replaces the clock used for autosave decisions.
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
	e.lastSave = now()
}

/*
ShouldAutosave is called at the end of every frame.

BEHAVIOR:
---------
- Returns false without a write policy or with autosave disabled
- Returns true once AutosaveInterval has passed since the last save,
  and starts a new interval
*/
func (e *Engine) ShouldAutosave() bool {
	if e.WritePolicy == nil || e.AutosaveInterval <= 0 {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	if now.Sub(e.lastSave) < e.AutosaveInterval {
		return false
	}
	e.lastSave = now
	return true
}

/*
OnSave is called with every encoded snapshot.

Write propagation depends entirely on the configured WritePolicy.
Returns false if there is nowhere to write to.
*/
func (e *Engine) OnSave(ctx context.Context, data []byte) bool {
	if e.WritePolicy == nil {
		return false
	}
	e.mu.Lock()
	e.lastSave = e.now()
	e.mu.Unlock()

	e.WritePolicy.OnWrite(ctx, e.Key, data)
	return true
}

/*
OnClash is called for every id clash found while a frame is built.

A clash is a bug in the widget code, never in the memory: two widgets derived
the same id. It is counted, and logged unless WarnOnIDClash is off.
*/
func (e *Engine) OnClash(c *frame.Clash) {
	e.Metrics.IDClash()
	if !e.WarnOnIDClash {
		return
	}
	e.Logger.Warn("id clash",
		"id", c.ID.String(),
		"what", c.What,
		"previous", c.Previous.String(),
		"current", c.Current.String(),
		"provenance", c.ID.Provenance(),
	)
}

/*
Close flushes pending writes. Call it once the last snapshot was saved.
*/
func (e *Engine) Close() {
	if e.WritePolicy != nil {
		e.WritePolicy.Close()
	}
}
