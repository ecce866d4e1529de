package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumFor(t *testing.T, data metricdata.Aggregation, attr attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "want a sum, got %T", data)
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attr.Key); ok && v == attr.Value {
			return dp.Value
		}
	}
	return 0
}

func TestOTelRecordsEvents(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	m, err := NewOTel(provider.Meter("test"))
	require.NoError(t, err)

	m.Hit("galley")
	m.Hit("galley")
	m.Miss("galley")
	m.Eviction("galley", 3)
	m.Sweep("galley", 1, 5)
	m.IDClash()
	m.Save(100, nil)
	m.Save(0, errors.New("disk full"))

	data := collect(t, reader)
	galley := attribute.String("cache", "galley")
	assert.Equal(t, int64(2), sumFor(t, data["uimemory_frame_cache_hits_total"], galley))
	assert.Equal(t, int64(1), sumFor(t, data["uimemory_frame_cache_misses_total"], galley))
	assert.Equal(t, int64(3), sumFor(t, data["uimemory_frame_cache_evictions_total"], galley))
	assert.Equal(t, int64(1), sumFor(t, data["uimemory_saves_total"], attribute.Bool("ok", false)))
	assert.Equal(t, int64(1), sumFor(t, data["uimemory_saves_total"], attribute.Bool("ok", true)))

	gauge, ok := data["uimemory_frame_cache_entries"].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(5), gauge.DataPoints[0].Value)

	clashes, ok := data["uimemory_id_clashes_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, clashes.DataPoints, 1)
	assert.Equal(t, int64(1), clashes.DataPoints[0].Value)
}

func TestOTelDefaultsToGlobalMeter(t *testing.T) {
	m, err := NewOTel(nil)
	require.NoError(t, err)
	m.Hit("x") // global no-op provider
}
