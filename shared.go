package memory

import (
	"context"

	"github.com/krisalay/ui-memory/lock"
	"github.com/krisalay/ui-memory/types"
)

// Shared is a Memory behind a lock, for hosts that use it from more than one goroutine
// (e.g. a render thread and a metrics scraper).
//
// Calling any Shared method from inside Write deadlocks; with re-entrancy checks on it panics instead.
type Shared struct {
	mu *lock.Mutex[*Memory]
}

// NewShared wraps m. m must not be used directly afterwards.
func NewShared(m *Memory, opts ...lock.Option) *Shared {
	return &Shared{mu: lock.New(m, opts...)}
}

// Write calls fn with exclusive access to the memory.
func (s *Shared) Write(fn func(*Memory)) {
	s.mu.Lock(func(m **Memory) { fn(*m) })
}

// Read is Write under another name, for call sites that only look.
func (s *Shared) Read(fn func(*Memory)) {
	s.Write(fn)
}

// BeginFrame locks and calls Memory.BeginFrame.
func (s *Shared) BeginFrame(screen types.Rect) {
	s.Write(func(m *Memory) { m.BeginFrame(screen) })
}

// EndFrame locks and calls Memory.EndFrame.
func (s *Shared) EndFrame(ctx context.Context) error {
	return lock.With(s.mu, func(m **Memory) error { return (*m).EndFrame(ctx) })
}

// Save locks and calls Memory.Save.
func (s *Shared) Save(ctx context.Context) error {
	return lock.With(s.mu, func(m **Memory) error { return (*m).Save(ctx) })
}

// Stats locks and calls Memory.Stats. It is safe to pass to metrics.NewStatsCollector.
func (s *Shared) Stats() types.Stats {
	return lock.With(s.mu, func(m **Memory) types.Stats { return (*m).Stats() })
}

// Close locks and calls Memory.Close.
func (s *Shared) Close(ctx context.Context) error {
	return lock.With(s.mu, func(m **Memory) error { return (*m).Close(ctx) })
}
