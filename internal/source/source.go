package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/inhies/go-bytesize"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/discochess/pgnswing/internal/codec"
	"github.com/discochess/pgnswing/internal/codec/bzip2codec"
	"github.com/discochess/pgnswing/internal/codec/gzipcodec"
	"github.com/discochess/pgnswing/internal/codec/noopcodec"
	"github.com/discochess/pgnswing/internal/codec/zstdcodec"
	"github.com/discochess/pgnswing/internal/stats"
	"github.com/discochess/pgnswing/internal/store"
	"github.com/discochess/pgnswing/internal/store/cachedstore"
	"github.com/discochess/pgnswing/internal/store/cachedstore/cachestrategy/lru"
	"github.com/discochess/pgnswing/internal/store/cachedstore/memory"
	"github.com/discochess/pgnswing/internal/store/diskstore"
	"github.com/discochess/pgnswing/internal/store/gcsstore"
	"github.com/discochess/pgnswing/internal/store/httpstore"
	"github.com/discochess/pgnswing/internal/store/s3store"
)

// DefaultRegistry returns the codecs recognized by extension: zst, bz2 and
// gz, with everything else read as plain text.
func DefaultRegistry() *codec.Registry {
	return codec.NewRegistry(noopcodec.New(), zstdcodec.New(), bzip2codec.New(), gzipcodec.New())
}

// Opener opens inputs, creating one store per bucket or directory and
// reusing it for later inputs.
type Opener struct {
	registry *codec.Registry
	stats    stats.Collector
	logger   *zap.Logger
	s3Opts   []s3store.Option
	stdin    io.Reader
	cache    int

	mu     sync.Mutex
	stores map[string]store.Store
	owned  []store.Store
}

// Option configures an Opener.
type Option func(*Opener)

// WithRegistry replaces the extension to codec mapping.
func WithRegistry(r *codec.Registry) Option {
	return func(o *Opener) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithStore serves scheme://bucket/... from s. The Opener does not close it.
func WithStore(scheme, bucket string, s store.Store) Option {
	return func(o *Opener) {
		o.stores[storeKey(scheme, bucket)] = s
	}
}

// WithS3Options passes options to every S3 store the Opener creates.
func WithS3Options(opts ...s3store.Option) Option {
	return func(o *Opener) {
		o.s3Opts = append(o.s3Opts, opts...)
	}
}

// WithCache keeps up to n recently opened objects of each remote bucket or
// host in memory, so an input named twice is downloaded once. Zero disables it.
func WithCache(n int) Option {
	return func(o *Opener) {
		o.cache = n
	}
}

// WithStdin sets the reader used for "-".
func WithStdin(r io.Reader) Option {
	return func(o *Opener) {
		o.stdin = r
	}
}

// WithStats sets the collector that receives source byte counts.
func WithStats(c stats.Collector) Option {
	return func(o *Opener) {
		if c != nil {
			o.stats = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Opener) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOpener creates an Opener.
func NewOpener(opts ...Option) *Opener {
	o := &Opener{
		registry: DefaultRegistry(),
		stats:    stats.NewNoop(),
		logger:   zap.NewNop(),
		stdin:    os.Stdin,
		stores:   make(map[string]store.Store),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open resolves name and returns a reader over its decompressed content.
func (o *Opener) Open(ctx context.Context, name string) (*Source, error) {
	loc, err := Parse(name)
	if err != nil {
		return nil, err
	}
	c, _ := o.registry.ForName(loc.Name())

	if loc.Scheme == SchemeStdin {
		return o.wrap(loc, io.NopCloser(o.stdin), c)
	}

	s, err := o.store(ctx, loc)
	if err != nil {
		return nil, err
	}
	raw, err := s.Open(ctx, loc.Key)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", loc, err)
	}

	if sizer, ok := s.(store.Sizer); ok {
		if size, err := sizer.Size(ctx, loc.Key); err == nil {
			o.logger.Info("opened source",
				zap.String("source", loc.String()),
				zap.String("size", bytesize.ByteSize(size).String()),
				zap.String("codec", codecName(c)),
			)
		}
	}
	return o.wrap(loc, raw, c)
}

func (o *Opener) wrap(loc Location, raw io.ReadCloser, c codec.Codec) (*Source, error) {
	counted := &countingReader{r: raw}
	dec, err := c.Reader(counted)
	if err != nil {
		raw.Close()
		return nil, fmt.Errorf("creating decompressor for %s: %w", loc, err)
	}
	return &Source{
		Location: loc,
		dec:      dec,
		raw:      raw,
		counted:  counted,
		stats:    o.stats,
	}, nil
}

// store returns the store serving loc, creating it on first use.
func (o *Opener) store(ctx context.Context, loc Location) (store.Store, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	key := storeKey(loc.Scheme, loc.Bucket)
	if s, ok := o.stores[key]; ok {
		return s, nil
	}

	var (
		s   store.Store
		err error
	)
	switch loc.Scheme {
	case SchemeFile:
		s, err = diskstore.New(loc.Bucket, diskstore.WithLogger(o.logger))
	case SchemeS3:
		s, err = s3store.New(ctx, loc.Bucket, o.s3Opts...)
	case SchemeGCS:
		s, err = gcsstore.New(ctx, loc.Bucket)
	case SchemeHTTP, SchemeHTTPS:
		s, err = httpstore.New(loc.Scheme+"://"+loc.Bucket, httpstore.WithLogger(o.logger))
	default:
		return nil, fmt.Errorf("%w: no store for %s", ErrLocation, loc)
	}
	if err != nil {
		return nil, fmt.Errorf("creating %s store: %w", loc.Scheme, err)
	}
	if o.cache > 0 && loc.Scheme != SchemeFile {
		if s, err = o.cached(s); err != nil {
			return nil, err
		}
	}
	o.stores[key] = s
	o.owned = append(o.owned, s)
	return s, nil
}

func (o *Opener) cached(s store.Store) (store.Store, error) {
	strategy, err := lru.New(o.cache)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("creating cache: %w", err), s.Close())
	}
	return cachedstore.New(s, memory.New(strategy, o.stats)), nil
}

// Close closes every store the Opener created.
func (o *Opener) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var err error
	for _, s := range o.owned {
		err = multierr.Append(err, s.Close())
	}
	o.owned = nil
	return err
}

func storeKey(scheme, bucket string) string {
	return scheme + "://" + bucket
}

func codecName(c codec.Codec) string {
	if ext := c.Extension(); ext != "" {
		return ext
	}
	return "none"
}

// Source is an open input. Reads return decompressed PGN text.
type Source struct {
	Location Location

	dec     io.ReadCloser
	raw     io.ReadCloser
	counted *countingReader
	stats   stats.Collector
}

func (s *Source) Read(p []byte) (int, error) {
	return s.dec.Read(p)
}

// BytesRead returns the number of raw, possibly compressed, bytes consumed.
func (s *Source) BytesRead() bytesize.ByteSize {
	return bytesize.ByteSize(s.counted.n)
}

// Close closes the decompressor and the underlying object and records the
// bytes consumed.
func (s *Source) Close() error {
	s.stats.IncCounter(stats.MetricSourceBytes, s.counted.n)
	return multierr.Append(s.dec.Close(), s.raw.Close())
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
