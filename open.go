package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"

	"github.com/krisalay/ui-memory/cell"
	"github.com/krisalay/ui-memory/config"
	"github.com/krisalay/ui-memory/engine"
	"github.com/krisalay/ui-memory/expiration"
	"github.com/krisalay/ui-memory/internal/buildmode"
	"github.com/krisalay/ui-memory/lock"
	"github.com/krisalay/ui-memory/metrics"
	"github.com/krisalay/ui-memory/persist"
	"github.com/krisalay/ui-memory/types"
	"github.com/krisalay/ui-memory/writepolicy"
)

// OpenOption adjusts Open.
type OpenOption func(*openOptions)

type openOptions struct {
	registerer prometheus.Registerer
	store      types.Store
}

// WithRegisterer registers Prometheus metrics with reg instead of prometheus.DefaultRegisterer.
func WithRegisterer(reg prometheus.Registerer) OpenOption {
	return func(o *openOptions) { o.registerer = reg }
}

// WithStore uses store instead of the backend named in the config.
func WithStore(store types.Store) OpenOption {
	return func(o *openOptions) { o.store = store }
}

/*
Open builds a Shared memory from cfg.

BEHAVIOR:
---------
 1. Validates cfg
 2. Sets up metric exporters (OpenTelemetry, Prometheus)
 3. Opens the store and the write policy, if persistence is enabled
 4. Loads the last snapshot. A corrupt snapshot is logged and the memory starts empty;
    a store that cannot be read fails Open
*/
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...OpenOption) (_ *Shared, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	o := openOptions{registerer: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(&o)
	}
	if o.store != nil {
		if err := cfg.Persistence.ValidateWrites(); err != nil {
			return nil, err
		}
	}

	// undo releases what was registered or opened if Open fails later on.
	var undo []func()
	defer func() {
		if err != nil {
			for i := len(undo) - 1; i >= 0; i-- {
				undo[i]()
			}
		}
	}()

	codec, err := cell.CodecByName(cfg.Persistence.Codec)
	if err != nil {
		return nil, err
	}

	var (
		sinks  metrics.Multi
		shared atomic.Pointer[Shared]
	)
	if cfg.Metrics.OTel {
		m, err := metrics.NewOTel(otel.Meter(cfg.Metrics.MeterName))
		if err != nil {
			return nil, fmt.Errorf("memory: otel metrics: %w", err)
		}
		sinks = append(sinks, m)
	}
	if cfg.Metrics.Prometheus {
		prom := metrics.NewPrometheus("uimemory")
		if err := prom.Register(o.registerer); err != nil {
			return nil, fmt.Errorf("memory: prometheus metrics: %w", err)
		}
		undo = append(undo, func() { prom.Unregister(o.registerer) })
		stats := metrics.NewStatsCollector("uimemory", func() types.Stats {
			if s := shared.Load(); s != nil {
				return s.Stats()
			}
			return types.Stats{}
		})
		if err := o.registerer.Register(stats); err != nil {
			return nil, fmt.Errorf("memory: prometheus stats: %w", err)
		}
		undo = append(undo, func() { o.registerer.Unregister(stats) })
		sinks = append(sinks, prom)
	}
	var sink types.Metrics = types.NoopMetrics{}
	if len(sinks) > 0 {
		sink = sinks
	}

	var exp expiration.Strategy = expiration.LastFrame{}
	if cfg.Frame.KeepFrames > 0 {
		exp = expiration.KeepFrames{N: cfg.Frame.KeepFrames}
	}

	store := o.store
	if cfg.Persistence.Enabled && store == nil {
		if store, err = openStore(ctx, cfg.Persistence, logger); err != nil {
			return nil, err
		}
	}

	var policy writepolicy.WritePolicy
	if store != nil {
		switch cfg.Persistence.WritePolicy {
		case config.WriteThrough:
			policy = writepolicy.NewWriteThroughPolicy(store, logger, sink)
		default:
			policy = writepolicy.NewWriteBackPolicy(store, cfg.Persistence.WriteBackBuffer, logger, sink)
		}
	}

	e := engine.NewEngine(exp, policy, sink, logger)
	e.Key = cfg.Persistence.Key
	e.AutosaveInterval = cfg.Persistence.AutosaveInterval
	e.WarnOnIDClash = cfg.Debug.WarnOnIDClash

	mem := New(e, codec)
	if store != nil {
		mem.SetLoader(persist.NewLoader(store))
		if c, ok := store.(io.Closer); ok && o.store == nil {
			mem.closer = c
		}

		err := mem.Load(ctx)
		switch {
		case errors.Is(err, persist.ErrCorrupt),
			errors.Is(err, persist.ErrUnsupportedVersion),
			errors.Is(err, ErrCodecMismatch):
			logger.Warn("discarding unreadable memory snapshot", "key", e.Key, "error", err)
		case err != nil:
			e.Close()
			if mem.closer != nil {
				_ = mem.closer.Close()
			}
			return nil, fmt.Errorf("memory: load snapshot: %w", err)
		}
	}

	s := NewShared(mem, lock.WithReentrancyCheck(cfg.Debug.ReentrancyCheck || buildmode.Debug))
	shared.Store(s)
	return s, nil
}

func openStore(ctx context.Context, cfg config.PersistenceConfig, logger *slog.Logger) (types.Store, error) {
	switch cfg.Backend {
	case config.BackendBadger:
		return persist.OpenBadger(persist.BadgerConfig{
			Path:       cfg.Badger.Path,
			InMemory:   cfg.Badger.InMemory,
			SyncWrites: cfg.Badger.SyncWrites,
			Logger:     logger,
		})
	case config.BackendRedis:
		return persist.OpenRedis(ctx, persist.RedisOptions{
			URL:            cfg.Redis.URL,
			Prefix:         cfg.Redis.Prefix,
			TTL:            cfg.Redis.TTL,
			ConnectTimeout: cfg.Redis.ConnectTimeout,
		})
	default:
		return persist.NewMemoryStore(), nil
	}
}
