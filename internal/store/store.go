// Package store defines the storage backend interface for reading PGN inputs.
package store

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when an object does not exist in the store.
var ErrNotFound = errors.New("store: object not found")

// Store defines the interface for storage backends.
// Implementations handle path formats and storage details internally.
type Store interface {
	// Open returns a reader for the raw content stored under key.
	// The content may be compressed; decompression is the caller's job.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Close releases any resources held by the store.
	Close() error
}

// Sizer is implemented by stores that can report an object's size
// without reading it.
type Sizer interface {
	Size(ctx context.Context, key string) (int64, error)
}
