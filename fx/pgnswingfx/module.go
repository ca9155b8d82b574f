// Package pgnswingfx provides an fx module for a pgnswing analyzer and a
// source opener for its inputs.
package pgnswingfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/pgnswing"
	"github.com/discochess/pgnswing/internal/config"
	"github.com/discochess/pgnswing/internal/source"
	"github.com/discochess/pgnswing/internal/stats"
	"github.com/discochess/pgnswing/internal/stats/logger"
	"github.com/discochess/pgnswing/internal/store/memstore"
	"github.com/discochess/pgnswing/internal/store/s3store"
)

// Config holds configuration for the analyzer and its input opener.
type Config struct {
	// Dialect names the engine comment grammar.
	// Default is "cutechess".
	Dialect string

	// MinimumDepth is the shallowest search depth whose score is kept.
	// Default is 1.
	MinimumDepth int

	// PointOfView is "side-to-move" or "white".
	// Default is "side-to-move".
	PointOfView string

	// RemoteCache is the number of S3 or GCS objects kept in memory per
	// bucket. Zero disables caching.
	RemoteCache int

	// S3Region and S3Endpoint configure s3:// inputs.
	S3Region   string
	S3Endpoint string
}

// resolve fills defaults and validates c as a full configuration.
func (c Config) resolve() (config.Config, error) {
	cfg := config.Default()
	if c.Dialect != "" {
		cfg.Dialect = c.Dialect
	}
	if c.MinimumDepth > 0 {
		cfg.MinimumDepth = c.MinimumDepth
	}
	if c.PointOfView != "" {
		cfg.PointOfView = c.PointOfView
	}
	cfg.RemoteCache = c.RemoteCache
	cfg.S3 = config.S3{Region: c.S3Region, Endpoint: c.S3Endpoint}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// MemBucket is the mem:// bucket served by a provided *memstore.Store.
const MemBucket = "fixtures"

// Module provides an *pgnswing.Analyzer and a *source.Opener.
// Requires a *zap.Logger and a Config to be provided. A
// *memstore.Store, when provided, serves mem://fixtures/... inputs.
var Module = fx.Module("pgnswing",
	fx.Provide(
		newStatsCollector,
		newOpener,
		newAnalyzer,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("pgnswing.stats"))
}

// OpenerParams holds dependencies for creating the opener.
type OpenerParams struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Mem       *memstore.Store `optional:"true"`
	Lifecycle fx.Lifecycle
}

func newOpener(p OpenerParams) (*source.Opener, error) {
	cfg, err := p.Config.resolve()
	if err != nil {
		return nil, err
	}
	opts := []source.Option{
		source.WithStats(p.Collector),
		source.WithLogger(p.Logger.Named("pgnswing.source")),
	}
	if p.Mem != nil {
		opts = append(opts, source.WithStore(source.SchemeMem, MemBucket, p.Mem))
	}
	var s3Opts []s3store.Option
	if cfg.S3.Region != "" {
		s3Opts = append(s3Opts, s3store.WithRegion(cfg.S3.Region))
	}
	if cfg.S3.Endpoint != "" {
		s3Opts = append(s3Opts, s3store.WithEndpoint(cfg.S3.Endpoint))
	}
	opts = append(opts, source.WithS3Options(s3Opts...), source.WithCache(cfg.RemoteCache))

	opener := source.NewOpener(opts...)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return opener.Close()
		},
	})
	return opener, nil
}

// Params holds dependencies for creating the analyzer.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
}

// Result holds the provided analyzer.
type Result struct {
	fx.Out

	Analyzer *pgnswing.Analyzer
}

func newAnalyzer(p Params) (Result, error) {
	cfg, err := p.Config.resolve()
	if err != nil {
		return Result{}, err
	}
	dialect, _ := cfg.DialectValue()
	pov, _ := cfg.POV()

	a, err := pgnswing.New(
		pgnswing.WithDialect(dialect),
		pgnswing.WithPOV(pov),
		pgnswing.WithMinDepth(cfg.MinimumDepth),
		pgnswing.WithStats(p.Collector),
		pgnswing.WithLogger(p.Logger.Named("pgnswing")),
	)
	if err != nil {
		return Result{}, err
	}
	return Result{Analyzer: a}, nil
}
