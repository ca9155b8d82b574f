package pgnswing

import (
	"go.uber.org/zap"

	"github.com/discochess/pgnswing/internal/annotation"
	"github.com/discochess/pgnswing/internal/series"
	"github.com/discochess/pgnswing/internal/stats"
)

// Option configures an Analyzer.
type Option interface {
	apply(*options)
}

// options holds the analyzer configuration.
type options struct {
	dialect        annotation.Dialect
	pov            annotation.POV
	parser         annotation.Parser
	explicitParser bool
	minDepth       int
	stats          stats.Collector
	logger         *zap.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		dialect:  annotation.DefaultDialect,
		pov:      annotation.POVSideToMove,
		minDepth: series.DefaultMinDepth,
		stats:    stats.NewNoop(),
		logger:   zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithDialect sets the comment dialect to parse.
// Default is cutechess; winboard, xboard and shredder are aliases for it.
func WithDialect(d annotation.Dialect) Option {
	return optionFunc(func(o *options) {
		o.dialect = d
	})
}

// WithPOV sets the point of view of scores written by dialects without a
// fixed convention. Default is the side to move.
func WithPOV(p annotation.POV) Option {
	return optionFunc(func(o *options) {
		o.pov = p
	})
}

// WithParser sets a custom annotation parser. It overrides WithDialect and
// WithPOV.
func WithParser(p annotation.Parser) Option {
	return optionFunc(func(o *options) {
		o.parser = p
		o.explicitParser = true
	})
}

// WithMinDepth discards scores searched shallower than depth.
// Default is 1.
func WithMinDepth(depth int) Option {
	return optionFunc(func(o *options) {
		o.minDepth = depth
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}
