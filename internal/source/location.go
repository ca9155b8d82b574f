// Package source opens PGN inputs named by path or URI and decompresses them
// by extension.
package source

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Schemes understood by Parse.
const (
	SchemeFile  = "file"
	SchemeS3    = "s3"
	SchemeGCS   = "gs"
	SchemeMem   = "mem"
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
	SchemeStdin = "stdin"
)

// ErrLocation is returned for inputs that cannot be resolved to a store.
var ErrLocation = errors.New("source: invalid location")

// Location identifies an object in a store.
// For files, Bucket is the containing directory and Key the base name. For
// http and https, Bucket is the host and Key the path with any query.
type Location struct {
	Scheme string
	Bucket string
	Key    string
}

// String returns the location in the form accepted by Parse.
func (l Location) String() string {
	switch l.Scheme {
	case SchemeFile:
		return filepath.Join(l.Bucket, l.Key)
	case SchemeStdin:
		return "-"
	}
	return l.Scheme + "://" + l.Bucket + "/" + l.Key
}

// Parse resolves an input name. Plain paths name local files, "-" names
// standard input, s3://, gs:// and mem:// URIs name objects as bucket/key,
// and http(s) URLs are fetched as given.
func Parse(name string) (Location, error) {
	if name == "" {
		return Location{}, fmt.Errorf("%w: empty name", ErrLocation)
	}
	if name == "-" {
		return Location{Scheme: SchemeStdin, Key: "-"}, nil
	}

	scheme, _, ok := strings.Cut(name, "://")
	if !ok {
		return fileLocation(name)
	}

	u, err := url.Parse(name)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrLocation, err)
	}
	switch scheme = strings.ToLower(scheme); scheme {
	case SchemeFile:
		return fileLocation(u.Path)
	case SchemeHTTP, SchemeHTTPS:
		key := strings.TrimPrefix(u.Path, "/")
		if u.RawQuery != "" {
			key += "?" + u.RawQuery
		}
		if u.Host == "" || key == "" {
			return Location{}, fmt.Errorf("%w: %s needs a host and a path", ErrLocation, name)
		}
		return Location{Scheme: scheme, Bucket: u.Host, Key: key}, nil
	case SchemeS3, SchemeGCS, SchemeMem:
	default:
		return Location{}, fmt.Errorf("%w: unsupported scheme %q", ErrLocation, scheme)
	}

	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return Location{}, fmt.Errorf("%w: %s needs a bucket and a key", ErrLocation, name)
	}
	return Location{Scheme: scheme, Bucket: u.Host, Key: key}, nil
}

// Name is the key without any query, used to pick a codec.
func (l Location) Name() string {
	name, _, _ := strings.Cut(l.Key, "?")
	return name
}

func fileLocation(path string) (Location, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrLocation, err)
	}
	return Location{Scheme: SchemeFile, Bucket: filepath.Dir(abs), Key: filepath.Base(abs)}, nil
}
