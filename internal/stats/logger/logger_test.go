package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/discochess/pgnswing/internal/stats"
)

func TestCollector_Totals(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := New(zap.New(core))

	c.IncCounter(stats.MetricGames, 2)
	c.IncCounter(stats.MetricGames, 3)
	c.SetGauge(stats.MetricReportGames, 5)
	c.ObserveHistogram(stats.MetricSwing, 1.5)

	if got := c.Total(stats.MetricGames); got != 5 {
		t.Errorf("Total() = %d, want 5", got)
	}
	if got := logs.FilterMessage("counter").Len(); got != 2 {
		t.Errorf("counter entries = %d, want 2", got)
	}

	c.Flush()
	flushed := logs.FilterMessage("stats").All()
	if len(flushed) != 1 {
		t.Fatalf("stats entries = %d, want 1", len(flushed))
	}
	if got := flushed[0].ContextMap()[stats.MetricGames]; got != int64(5) {
		t.Errorf("flushed %s = %v, want 5", stats.MetricGames, got)
	}
}

func TestNew_NilLogger(t *testing.T) {
	c := New(nil)
	c.IncCounter("x", 1)
	c.Flush()
}
