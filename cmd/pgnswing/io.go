package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/discochess/pgnswing/internal/source"
	"github.com/discochess/pgnswing/internal/stats"
	"github.com/discochess/pgnswing/internal/store/s3store"
)

const maxConcurrentOpens = 4

// inputs is the concatenation of every opened source.
type inputs struct {
	io.Reader
	opener  *source.Opener
	sources []*source.Source
}

// openInputs opens every name and joins them into one PGN stream. A newline
// is inserted between sources so a file without a trailing newline cannot
// merge its last line with the next file's first tag.
func openInputs(ctx context.Context, names []string, collector stats.Collector) (*inputs, error) {
	var s3Opts []s3store.Option
	if cfg.S3.Region != "" {
		s3Opts = append(s3Opts, s3store.WithRegion(cfg.S3.Region))
	}
	if cfg.S3.Endpoint != "" {
		s3Opts = append(s3Opts, s3store.WithEndpoint(cfg.S3.Endpoint))
	}

	in := &inputs{
		opener: source.NewOpener(
			source.WithStats(collector),
			source.WithLogger(logger.Named("pgnswing.source")),
			source.WithS3Options(s3Opts...),
			source.WithCache(cfg.RemoteCache),
		),
	}

	// Remote opens wait on a round trip each, so they run concurrently. The
	// group has no derived context: bodies outlive Wait and must keep ctx.
	in.sources = make([]*source.Source, len(names))
	var g errgroup.Group
	g.SetLimit(maxConcurrentOpens)
	for i, name := range names {
		g.Go(func() error {
			src, err := in.opener.Open(ctx, name)
			if err != nil {
				return err
			}
			in.sources[i] = src
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, multierr.Append(err, in.Close())
	}

	readers := make([]io.Reader, 0, 2*len(names))
	for _, src := range in.sources {
		readers = append(readers, src, strings.NewReader("\n"))
	}
	in.Reader = io.MultiReader(readers...)
	return in, nil
}

// Close closes every source and the stores behind them.
func (in *inputs) Close() error {
	var err error
	for _, src := range in.sources {
		if src != nil {
			err = multierr.Append(err, src.Close())
		}
	}
	return multierr.Append(err, in.opener.Close())
}

// output is a possibly compressed destination file.
type output struct {
	io.Writer
	closers []io.Closer
}

// createOutput opens path for writing, compressing by extension. An empty
// path or "-" writes to standard output.
func createOutput(path string) (*output, error) {
	if path == "" || path == "-" {
		return &output{Writer: os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	c, _ := source.DefaultRegistry().ForName(path)
	cw, err := c.Writer(f)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("creating compressor: %w", err), f.Close())
	}
	// The compressor is closed before the file it writes to.
	return &output{Writer: cw, closers: []io.Closer{cw, f}}, nil
}

func (o *output) Close() error {
	var err error
	for _, c := range o.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}
