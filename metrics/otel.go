// Package metrics exports memory events and sizes to OpenTelemetry and Prometheus.
package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/krisalay/ui-memory/types"
)

// DefaultMeterName is the instrumentation scope used when no meter is given.
const DefaultMeterName = "github.com/krisalay/ui-memory"

// OTel implements types.Metrics with OpenTelemetry instruments.
type OTel struct {
	hits      metric.Int64Counter
	misses    metric.Int64Counter
	evictions metric.Int64Counter
	live      metric.Int64Gauge
	clashes   metric.Int64Counter
	saves     metric.Int64Counter
	saveBytes metric.Int64Histogram
}

var _ types.Metrics = (*OTel)(nil)

// NewOTel creates the instruments on meter. A nil meter uses the global provider.
func NewOTel(meter metric.Meter) (*OTel, error) {
	if meter == nil {
		meter = otel.Meter(DefaultMeterName)
	}

	var (
		o   OTel
		err error
	)
	if o.hits, err = meter.Int64Counter(
		"uimemory_frame_cache_hits_total",
		metric.WithDescription("Frame cache lookups answered from an earlier frame"),
	); err != nil {
		return nil, err
	}
	if o.misses, err = meter.Int64Counter(
		"uimemory_frame_cache_misses_total",
		metric.WithDescription("Frame cache lookups that had to compute"),
	); err != nil {
		return nil, err
	}
	if o.evictions, err = meter.Int64Counter(
		"uimemory_frame_cache_evictions_total",
		metric.WithDescription("Frame cache entries dropped because a frame did not use them"),
	); err != nil {
		return nil, err
	}
	if o.live, err = meter.Int64Gauge(
		"uimemory_frame_cache_entries",
		metric.WithDescription("Frame cache entries alive after the last sweep"),
	); err != nil {
		return nil, err
	}
	if o.clashes, err = meter.Int64Counter(
		"uimemory_id_clashes_total",
		metric.WithDescription("Widgets that claimed an id already used in the same frame"),
	); err != nil {
		return nil, err
	}
	if o.saves, err = meter.Int64Counter(
		"uimemory_saves_total",
		metric.WithDescription("Snapshot writes"),
	); err != nil {
		return nil, err
	}
	if o.saveBytes, err = meter.Int64Histogram(
		"uimemory_save_size_bytes",
		metric.WithDescription("Size of written snapshots"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	return &o, nil
}

func cacheAttr(cache string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("cache", cache))
}

// Hit implements types.Metrics.
func (o *OTel) Hit(cache string) {
	o.hits.Add(context.Background(), 1, cacheAttr(cache))
}

// Miss implements types.Metrics.
func (o *OTel) Miss(cache string) {
	o.misses.Add(context.Background(), 1, cacheAttr(cache))
}

// Eviction implements types.Metrics.
func (o *OTel) Eviction(cache string, n int) {
	o.evictions.Add(context.Background(), int64(n), cacheAttr(cache))
}

// Sweep implements types.Metrics.
func (o *OTel) Sweep(cache string, _ uint32, live int) {
	o.live.Record(context.Background(), int64(live), cacheAttr(cache))
}

// IDClash implements types.Metrics.
func (o *OTel) IDClash() {
	o.clashes.Add(context.Background(), 1)
}

// Save implements types.Metrics.
func (o *OTel) Save(bytes int, err error) {
	ctx := context.Background()
	o.saves.Add(ctx, 1, metric.WithAttributes(attribute.Bool("ok", err == nil)))
	if err == nil {
		o.saveBytes.Record(ctx, int64(bytes))
	}
}
