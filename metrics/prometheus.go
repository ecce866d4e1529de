package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/krisalay/ui-memory/types"
)

// Prometheus implements types.Metrics with Prometheus counters.
type Prometheus struct {
	hits      *prometheus.CounterVec
	misses    *prometheus.CounterVec
	evictions *prometheus.CounterVec
	live      *prometheus.GaugeVec
	clashes   prometheus.Counter
	saves     *prometheus.CounterVec
}

var _ types.Metrics = (*Prometheus)(nil)

// NewPrometheus creates the metrics. They are not registered until Register is called.
func NewPrometheus(namespace string) *Prometheus {
	return &Prometheus{
		hits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "frame_cache_hits_total",
				Help:      "Frame cache lookups answered from an earlier frame",
			},
			[]string{"cache"},
		),
		misses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "frame_cache_misses_total",
				Help:      "Frame cache lookups that had to compute",
			},
			[]string{"cache"},
		),
		evictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "frame_cache_evictions_total",
				Help:      "Frame cache entries dropped because a frame did not use them",
			},
			[]string{"cache"},
		),
		live: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "frame_cache_entries",
				Help:      "Frame cache entries alive after the last sweep",
			},
			[]string{"cache"},
		),
		clashes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "id_clashes_total",
				Help:      "Widgets that claimed an id already used in the same frame",
			},
		),
		saves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "saves_total",
				Help:      "Snapshot writes by result",
			},
			[]string{"result"},
		),
	}
}

func (p *Prometheus) collectors() []prometheus.Collector {
	return []prometheus.Collector{p.hits, p.misses, p.evictions, p.live, p.clashes, p.saves}
}

// Register registers every metric with reg. On failure nothing stays registered.
func (p *Prometheus) Register(reg prometheus.Registerer) error {
	cs := p.collectors()
	for i, c := range cs {
		if err := reg.Register(c); err != nil {
			for _, done := range cs[:i] {
				reg.Unregister(done)
			}
			return err
		}
	}
	return nil
}

// Unregister removes every metric from reg.
func (p *Prometheus) Unregister(reg prometheus.Registerer) {
	for _, c := range p.collectors() {
		reg.Unregister(c)
	}
}

// Hit implements types.Metrics.
func (p *Prometheus) Hit(cache string) { p.hits.WithLabelValues(cache).Inc() }

// Miss implements types.Metrics.
func (p *Prometheus) Miss(cache string) { p.misses.WithLabelValues(cache).Inc() }

// Eviction implements types.Metrics.
func (p *Prometheus) Eviction(cache string, n int) {
	p.evictions.WithLabelValues(cache).Add(float64(n))
}

// Sweep implements types.Metrics.
func (p *Prometheus) Sweep(cache string, _ uint32, live int) {
	p.live.WithLabelValues(cache).Set(float64(live))
}

// IDClash implements types.Metrics.
func (p *Prometheus) IDClash() { p.clashes.Inc() }

// Save implements types.Metrics.
func (p *Prometheus) Save(_ int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	p.saves.WithLabelValues(result).Inc()
}

/*
StatsCollector exposes the sizes of a memory as Prometheus gauges.

Values are read on every scrape by calling stats, so they are always current.
A steadily growing data gauge usually means widgets with ids derived from
changing inputs (e.g. a counter) that are never removed.
*/
type StatsCollector struct {
	stats func() types.Stats

	frame      *prometheus.Desc
	data       *prometheus.Desc
	serialized *prometheus.Desc
	globals    *prometheus.Desc
	cached     *prometheus.Desc
}

var _ prometheus.Collector = (*StatsCollector)(nil)

// NewStatsCollector returns a collector reading sizes from stats. stats must be safe to call from the scrape goroutine.
func NewStatsCollector(namespace string, stats func() types.Stats) *StatsCollector {
	return &StatsCollector{
		stats:      stats,
		frame:      prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "frame"), "Frames completed", nil, nil),
		data:       prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "data_entries"), "Per-widget values held", nil, nil),
		serialized: prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "data_serialized_entries"), "Restored per-widget values not decoded yet", nil, nil),
		globals:    prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "global_entries"), "Singleton values held", nil, nil),
		cached:     prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "cached_values"), "Values per frame cache", []string{"cache"}, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.frame
	ch <- c.data
	ch <- c.serialized
	ch <- c.globals
	ch <- c.cached
}

// Collect implements prometheus.Collector.
func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(c.frame, prometheus.CounterValue, float64(s.Frame))
	ch <- prometheus.MustNewConstMetric(c.data, prometheus.GaugeValue, float64(s.Data))
	ch <- prometheus.MustNewConstMetric(c.serialized, prometheus.GaugeValue, float64(s.DataSerialized))
	ch <- prometheus.MustNewConstMetric(c.globals, prometheus.GaugeValue, float64(s.Globals))
	for name, n := range s.CacheValues {
		ch <- prometheus.MustNewConstMetric(c.cached, prometheus.GaugeValue, float64(n), name)
	}
}
