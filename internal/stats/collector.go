// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Analyzer metrics.
	MetricGames        = "pgnswing_games_total"
	MetricGamesFailed  = "pgnswing_games_failed_total"
	MetricComments     = "pgnswing_comments_total"
	MetricScoresAbsent = "pgnswing_scores_absent_total"
	MetricReportGames  = "pgnswing_report_games"

	// MetricSwing observes the evaluation range of each side, in pawns.
	MetricSwing = "pgnswing_swing_pawns"

	// Source metrics.
	MetricSourceBytes = "pgnswing_source_bytes_total"

	// Remote object cache metrics.
	MetricCacheHits   = "pgnswing_cache_hits_total"
	MetricCacheMisses = "pgnswing_cache_misses_total"
	MetricCacheSize   = "pgnswing_cache_objects"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
