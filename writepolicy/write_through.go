package writepolicy

import (
	"context"
	"log/slog"

	"github.com/krisalay/ui-memory/types"
)

/*
This file implements the "write-through" policy.

Whenever the memory saves, the snapshot is written to the store before OnWrite returns.

So the flow is: EndFrame → autosave → store write (synchronous)
*/
type WriteThroughPolicy struct {

	// store is where snapshots must be persisted immediately.
	store   types.Store
	logger  *slog.Logger
	metrics types.Metrics
}

/*
NewWriteThroughPolicy creates a new write-through policy.
A nil logger uses slog.Default(); nil metrics are ignored.
*/
func NewWriteThroughPolicy(store types.Store, logger *slog.Logger, metrics types.Metrics) *WriteThroughPolicy {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	return &WriteThroughPolicy{store: store, logger: logger, metrics: metrics}
}

/*
OnWrite writes the snapshot to the store.
  - This call is synchronous
  - If the store is slow, the frame that saves is slow
  - A failed write is logged; the next save tries again with fresher data
*/
func (w *WriteThroughPolicy) OnWrite(ctx context.Context, key string, data []byte) {
	err := w.store.Put(ctx, key, data)
	w.metrics.Save(len(data), err)
	if err != nil {
		w.logger.Error("failed to save memory snapshot", "key", key, "bytes", len(data), "error", err)
	}
}

/*
Close is required by the WritePolicy interface. Write-through does not use background workers,
so there is nothing to clean up.
*/
func (w *WriteThroughPolicy) Close() {}
