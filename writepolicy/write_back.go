package writepolicy

import (
	"context"
	"log/slog"
	"sync"

	"github.com/krisalay/ui-memory/types"
)

// This file implements the "write-back" policy.

// writeReq represents one pending snapshot that needs to be sent to the store.
type writeReq struct {
	ctx  context.Context
	key  string
	data []byte
}

/*
WriteBackPolicy manages asynchronous writes to the store.
*/
type WriteBackPolicy struct {
	store   types.Store
	logger  *slog.Logger
	metrics types.Metrics

	// ch is a buffered channel that holds pending snapshots.
	// Buffering lets a save return immediately even while the store is busy with the previous one.
	ch chan writeReq

	// wg is used to wait for the worker to finish during shutdown.
	wg sync.WaitGroup

	// mu guards closed against OnWrite sending on a closed channel.
	mu     sync.RWMutex
	closed bool
}

// NewWriteBackPolicy creates a new write-back policy with room for buffer pending snapshots.
func NewWriteBackPolicy(store types.Store, buffer int, logger *slog.Logger, metrics types.Metrics) *WriteBackPolicy {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	w := &WriteBackPolicy{
		store:   store,
		logger:  logger,
		metrics: metrics,
		ch:      make(chan writeReq, buffer),
	}

	// Start one background worker. One worker keeps snapshots in save order.
	w.wg.Add(1)
	go w.worker()

	return w
}

// OnWrite queues the snapshot. If the queue is full the snapshot is DROPPED: the
// frame loop must never wait on the store, and a newer snapshot will follow.
// Snapshots written after Close are dropped as well.
func (w *WriteBackPolicy) OnWrite(ctx context.Context, key string, data []byte) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		w.logger.Warn("dropping memory snapshot, write-back policy is closed", "key", key, "bytes", len(data))
		return
	}
	select {
	case w.ch <- writeReq{ctx: context.WithoutCancel(ctx), key: key, data: data}:
	default:
		w.logger.Warn("dropping memory snapshot, write-back queue is full", "key", key, "bytes", len(data))
	}
}

/*
worker runs in the background and writes queued snapshots to the store.
*/
func (w *WriteBackPolicy) worker() {
	defer w.wg.Done()

	for req := range w.ch {
		err := w.store.Put(req.ctx, req.key, req.data)
		w.metrics.Save(len(req.data), err)
		if err != nil {
			w.logger.Error("failed to save memory snapshot", "key", req.key, "bytes", len(req.data), "error", err)
		}
	}
}

/*
Close shuts down the write-back policy gracefully.
------------------
1. Close the channel (no more writes accepted)
2. Wait for the worker to finish processing queued writes

Without this, the last snapshot could be lost when the application shuts down.
Calling Close twice is safe. OnWrite after Close drops the snapshot.
*/
func (w *WriteBackPolicy) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.ch)
	w.mu.Unlock()

	w.wg.Wait()
}
