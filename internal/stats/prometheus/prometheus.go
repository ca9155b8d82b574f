// Package prometheus provides a Prometheus-based stats collector.
package prometheus

import (
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/discochess/pgnswing/internal/stats"
)

// swingBuckets cover evaluation ranges in pawns, up to mate scores.
var swingBuckets = []float64{0.25, 0.5, 1, 2, 4, 8, 16, 64, 320}

// help describes the library's metrics; other names use themselves.
var help = map[string]string{
	stats.MetricGames:        "Games analyzed.",
	stats.MetricGamesFailed:  "Games skipped because they could not be analyzed.",
	stats.MetricComments:     "Mainline move comments read.",
	stats.MetricScoresAbsent: "Moves left without an evaluation.",
	stats.MetricReportGames:  "Games read by the last run.",
	stats.MetricSwing:        "Distance between the lowest and highest evaluation of one side, in pawns.",
	stats.MetricSourceBytes:  "Bytes read from sources before decompression.",
	stats.MetricCacheHits:    "Remote objects served from the cache.",
	stats.MetricCacheMisses:  "Remote objects fetched from their store.",
	stats.MetricCacheSize:    "Remote objects held in the cache.",
}

// Collector implements stats.Collector using Prometheus metrics.
type Collector struct {
	registry prometheus.Registerer
	gatherer prometheus.Gatherer

	mu         sync.RWMutex
	counters   map[string]prometheus.Counter
	gauges     map[string]prometheus.Gauge
	histograms map[string]prometheus.Histogram
}

// Compile-time check that Collector implements stats.Collector.
var _ stats.Collector = (*Collector)(nil)

// New creates a new Prometheus collector.
// If registry is nil, prometheus.DefaultRegisterer is used.
func New(registry prometheus.Registerer) *Collector {
	c := &Collector{
		registry:   registry,
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),
		histograms: make(map[string]prometheus.Histogram),
	}
	switch r := registry.(type) {
	case nil:
		c.registry = prometheus.DefaultRegisterer
		c.gatherer = prometheus.DefaultGatherer
	case prometheus.Gatherer:
		c.gatherer = r
	}
	return c
}

// NewIsolated creates a collector backed by its own registry.
func NewIsolated() *Collector {
	return New(prometheus.NewRegistry())
}

// IncCounter increments a counter metric.
func (c *Collector) IncCounter(name string, delta int64) {
	lookup(c, c.counters, name, func() prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: helpFor(name)})
	}).Add(float64(delta))
}

// SetGauge sets a gauge metric.
func (c *Collector) SetGauge(name string, value int64) {
	lookup(c, c.gauges, name, func() prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: helpFor(name)})
	}).Set(float64(value))
}

// ObserveHistogram records a value in a histogram.
func (c *Collector) ObserveHistogram(name string, value float64) {
	lookup(c, c.histograms, name, func() prometheus.Histogram {
		buckets := prometheus.DefBuckets
		if name == stats.MetricSwing {
			buckets = swingBuckets
		}
		return prometheus.NewHistogram(prometheus.HistogramOpts{Name: name, Help: helpFor(name), Buckets: buckets})
	}).Observe(value)
}

// WriteTextfile writes every gathered metric to path in the text
// exposition format, for node exporter's textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if c.gatherer == nil {
		return errors.New("prometheus: registry cannot be gathered")
	}
	if err := prometheus.WriteToTextfile(path, c.gatherer); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}

// lookup returns the metric registered under name, creating it on first use.
// A metric registered elsewhere under the same name is reused.
func lookup[M prometheus.Collector](c *Collector, metrics map[string]M, name string, create func() M) M {
	c.mu.RLock()
	m, ok := metrics[name]
	c.mu.RUnlock()
	if ok {
		return m
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock.
	if m, ok = metrics[name]; ok {
		return m
	}

	m = create()
	if err := c.registry.Register(m); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(M); ok {
				m = existing
			}
		}
		// Otherwise keep the unregistered metric; it still counts.
	}
	metrics[name] = m
	return m
}

func helpFor(name string) string {
	if h, ok := help[name]; ok {
		return h
	}
	return name
}
