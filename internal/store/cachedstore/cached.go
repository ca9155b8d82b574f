package cachedstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/discochess/pgnswing/internal/store"
)

// DefaultMaxObjectSize is the largest object kept in the cache.
const DefaultMaxObjectSize = 64 << 20

// Compile-time checks.
var (
	_ store.Store = (*Store)(nil)
	_ store.Sizer = (*Store)(nil)
)

// Store wraps another Store and serves repeated opens of the same key from
// memory. Objects larger than the size limit are streamed and not cached.
type Store struct {
	underlying store.Store
	backend    Backend
	maxSize    int64
}

// Option configures a Store.
type Option func(*Store)

// WithMaxObjectSize sets the largest object kept in the cache.
func WithMaxObjectSize(n int64) Option {
	return func(s *Store) {
		s.maxSize = n
	}
}

// New creates a new cached store wrapping the given store.
func New(underlying store.Store, backend Backend, opts ...Option) *Store {
	s := &Store{
		underlying: underlying,
		backend:    backend,
		maxSize:    DefaultMaxObjectSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open returns the object, checking the cache first.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if data, ok := s.backend.Get(key); ok {
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	if sizer, ok := s.underlying.(store.Sizer); ok {
		if size, err := sizer.Size(ctx, key); err == nil && size > s.maxSize {
			return s.underlying.Open(ctx, key)
		}
	}

	rc, err := s.underlying.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	// One extra byte tells an object at the limit from a larger one.
	data, err := io.ReadAll(io.LimitReader(rc, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, fmt.Errorf("reading %s: object exceeds cache limit of %d bytes", key, s.maxSize)
	}
	s.backend.Set(key, data)
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Size reports the cached length when present, else asks the underlying
// store.
func (s *Store) Size(ctx context.Context, key string) (int64, error) {
	if data, ok := s.backend.Peek(key); ok {
		return int64(len(data)), nil
	}
	sizer, ok := s.underlying.(store.Sizer)
	if !ok {
		return 0, fmt.Errorf("size of %s: %w", key, store.ErrNotFound)
	}
	return sizer.Size(ctx, key)
}

// Close closes the underlying store.
func (s *Store) Close() error {
	return s.underlying.Close()
}

// Stats returns cache statistics.
func (s *Store) Stats() Stats {
	return s.backend.Stats()
}
