// Package httpstore reads objects over HTTP or HTTPS.
package httpstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/pgnswing/internal/store"
)

// DefaultResponseHeaderTimeout is the default timeout for receiving response headers.
const DefaultResponseHeaderTimeout = 30 * time.Second

// Compile-time checks.
var (
	_ store.Store = (*Store)(nil)
	_ store.Sizer = (*Store)(nil)
)

// Store serves keys as paths below a base URL such as https://lichess.org.
type Store struct {
	base   string
	client *http.Client
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Store) {
		if client != nil {
			s.client = client
		}
	}
}

// WithTimeout limits each request, body included.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Store) {
		s.client = &http.Client{Timeout: timeout}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Store for base, which must be an http or https URL.
func New(base string, opts ...Option) (*Store, error) {
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, fmt.Errorf("httpstore: %q is not an http(s) URL", base)
	}
	s := &Store{
		base: strings.TrimSuffix(base, "/"),
		client: &http.Client{
			// Bodies of large exports stream for minutes; only headers are bounded.
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ResponseHeaderTimeout: DefaultResponseHeaderTimeout,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// URL returns the address of key.
func (s *Store) URL(key string) string {
	return s.base + "/" + strings.TrimPrefix(key, "/")
}

// Open issues a GET for key and returns the response body.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.do(ctx, http.MethodGet, key)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("fetching",
		zap.String("url", s.URL(key)),
		zap.Int64("content_length", resp.ContentLength),
	)
	return resp.Body, nil
}

// Size issues a HEAD for key. Servers that omit Content-Length give
// store.ErrNotFound.
func (s *Store) Size(ctx context.Context, key string) (int64, error) {
	resp, err := s.do(ctx, http.MethodHead, key)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	if resp.ContentLength < 0 {
		return 0, fmt.Errorf("size of %s: %w", s.URL(key), store.ErrNotFound)
	}
	return resp.ContentLength, nil
}

func (s *Store) do(ctx context.Context, method, key string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.URL(key), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", req.URL, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		resp.Body.Close()
		return nil, store.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, fmt.Errorf("requesting %s: unexpected status: %s", req.URL, resp.Status)
	}
	return resp, nil
}

// Close releases idle connections.
func (s *Store) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
