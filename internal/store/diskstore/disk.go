// Package diskstore implements a disk-based filesystem storage backend.
package diskstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/inhies/go-bytesize"
	"go.uber.org/zap"

	"github.com/discochess/pgnswing/internal/store"
)

// Compile-time checks that Store implements the store interfaces.
var (
	_ store.Store = (*Store)(nil)
	_ store.Sizer = (*Store)(nil)
)

// Store is a disk-based filesystem storage backend.
type Store struct {
	root   string
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report opened files.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a new disk store rooted at the given directory.
// The directory must exist.
func New(root string, opts ...Option) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	s := &Store{
		root:   root,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Open opens the file stored under key, relative to the root.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	// Check for cancellation before starting I/O.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	path := s.path(key)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("opening %s: %w", key, err)
	}

	if info, err := f.Stat(); err == nil {
		s.logger.Debug("opened file",
			zap.String("path", path),
			zap.String("size", bytesize.ByteSize(info.Size()).String()),
		)
	}
	return f, nil
}

// Size returns the size of the file stored under key.
func (s *Store) Size(ctx context.Context, key string) (int64, error) {
	info, err := os.Stat(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, store.ErrNotFound
		}
		return 0, fmt.Errorf("stat %s: %w", key, err)
	}
	return info.Size(), nil
}

// Close releases any resources held by the store.
func (s *Store) Close() error {
	return nil
}

// path returns the filesystem path for a key.
func (s *Store) path(key string) string {
	if filepath.IsAbs(key) {
		return key
	}
	return filepath.Join(s.root, filepath.FromSlash(key))
}
