// Package codec provides decompression for PGN sources and compression for
// written games.
package codec

import (
	"io"
	"path"
	"strings"
)

// Codec provides compression and decompression functionality.
type Codec interface {
	// Reader wraps r to decompress data read from it.
	Reader(r io.Reader) (io.ReadCloser, error)
	// Writer wraps w to compress data written to it.
	Writer(w io.Writer) (io.WriteCloser, error)
	// Extension returns the file extension without dot (e.g., "zst", "gz").
	// Returns empty string for no compression.
	Extension() string
}

// Registry selects a codec from a file name's extension.
type Registry struct {
	byExt    map[string]Codec
	fallback Codec
}

// NewRegistry returns a registry of codecs keyed by their extensions.
// fallback serves names with no known extension.
func NewRegistry(fallback Codec, codecs ...Codec) *Registry {
	r := &Registry{byExt: make(map[string]Codec, len(codecs)), fallback: fallback}
	for _, c := range codecs {
		if ext := c.Extension(); ext != "" {
			r.byExt[ext] = c
		}
	}
	return r
}

// ForName returns the codec for name and name without the codec's extension.
// The match is case-insensitive.
func (r *Registry) ForName(name string) (Codec, string) {
	ext := strings.TrimPrefix(path.Ext(name), ".")
	if c, ok := r.byExt[strings.ToLower(ext)]; ok {
		return c, strings.TrimSuffix(name, "."+ext)
	}
	return r.fallback, name
}

// Extensions returns the registered extensions.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	return exts
}
