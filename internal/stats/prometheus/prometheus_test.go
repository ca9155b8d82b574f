package prometheus

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/discochess/pgnswing/internal/stats"
)

func TestNew_Registries(t *testing.T) {
	if c := New(nil); c.registry != prometheus.DefaultRegisterer || c.gatherer != prometheus.DefaultGatherer {
		t.Error("New(nil) should use the default registry")
	}

	reg := prometheus.NewRegistry()
	if c := New(reg); c.registry != reg || c.gatherer != reg {
		t.Error("New(reg) should register and gather with reg")
	}
}

func TestCollector_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.IncCounter(stats.MetricGames, 5)
	c.IncCounter(stats.MetricGames, 3)
	c.SetGauge(stats.MetricReportGames, 9)
	c.SetGauge(stats.MetricReportGames, 42)
	for _, v := range []float64{0.5, 1.5, 2.5} {
		c.ObserveHistogram("pgnswing_test_seconds", v)
	}

	if got := testutil.ToFloat64(c.counters[stats.MetricGames]); got != 8 {
		t.Errorf("%s = %v, want 8", stats.MetricGames, got)
	}
	if got := testutil.ToFloat64(c.gauges[stats.MetricReportGames]); got != 42 {
		t.Errorf("%s = %v, want 42", stats.MetricReportGames, got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(families) != 3 {
		t.Errorf("Gather() returned %d families, want 3", len(families))
	}
	for _, f := range families {
		switch f.GetName() {
		case stats.MetricGames:
			if got := f.GetHelp(); got != help[stats.MetricGames] {
				t.Errorf("help = %q, want %q", got, help[stats.MetricGames])
			}
		case "pgnswing_test_seconds":
			if got := f.GetMetric()[0].GetHistogram().GetSampleCount(); got != 3 {
				t.Errorf("histogram count = %d, want 3", got)
			}
			if got := f.GetHelp(); got != "pgnswing_test_seconds" {
				t.Errorf("help = %q, want the metric name", got)
			}
		}
	}
}

func TestCollector_ConcurrentAccess(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.IncCounter(stats.MetricComments, 1)
				c.SetGauge(stats.MetricCacheSize, int64(j))
				c.ObserveHistogram(stats.MetricSwing, float64(j))
			}
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(c.counters[stats.MetricComments]); got != 1000 {
		t.Errorf("%s = %v, want 1000", stats.MetricComments, got)
	}
	n, err := testutil.GatherAndCount(reg)
	if err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
	if n != 3 {
		t.Errorf("GatherAndCount() = %d, want 3", n)
	}
}

func TestCollector_AlreadyRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	existing := prometheus.NewCounter(prometheus.CounterOpts{
		Name: stats.MetricGamesFailed,
		Help: "registered elsewhere",
	})
	reg.MustRegister(existing)
	existing.Add(100)

	c := New(reg)
	c.IncCounter(stats.MetricGamesFailed, 5)

	if got := testutil.ToFloat64(existing); got != 105 {
		t.Errorf("counter value = %v, want 105", got)
	}
}

func TestCollector_SwingBuckets(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	c.ObserveHistogram(stats.MetricSwing, 3.3)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, m := range metrics {
		if m.GetName() != stats.MetricSwing {
			continue
		}
		if got := m.GetHelp(); got != help[stats.MetricSwing] {
			t.Errorf("help = %q, want %q", got, help[stats.MetricSwing])
		}
		buckets := m.GetMetric()[0].GetHistogram().GetBucket()
		if len(buckets) != len(swingBuckets) {
			t.Fatalf("len(buckets) = %d, want %d", len(buckets), len(swingBuckets))
		}
		for i, b := range buckets {
			if b.GetUpperBound() != swingBuckets[i] {
				t.Errorf("bucket %d bound = %v, want %v", i, b.GetUpperBound(), swingBuckets[i])
			}
		}
		return
	}
	t.Errorf("%s not found in registry", stats.MetricSwing)
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := NewIsolated()
	c.IncCounter(stats.MetricGames, 3)

	path := filepath.Join(t.TempDir(), "pgnswing.prom")
	if err := c.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), stats.MetricGames+" 3") {
		t.Errorf("textfile = %q, want %s 3", data, stats.MetricGames)
	}
}

type registerOnly struct{ prometheus.Registerer }

func TestCollector_WriteTextfile_NoGatherer(t *testing.T) {
	c := New(registerOnly{prometheus.NewRegistry()})
	if err := c.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err == nil {
		t.Error("WriteTextfile() error = nil, want error")
	}
}
