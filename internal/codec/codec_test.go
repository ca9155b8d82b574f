package codec_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/discochess/pgnswing/internal/codec"
	"github.com/discochess/pgnswing/internal/codec/bzip2codec"
	"github.com/discochess/pgnswing/internal/codec/gzipcodec"
	"github.com/discochess/pgnswing/internal/codec/noopcodec"
	"github.com/discochess/pgnswing/internal/codec/zstdcodec"
)

func codecs() []codec.Codec {
	return []codec.Codec{noopcodec.New(), gzipcodec.New(), zstdcodec.New(), bzip2codec.New()}
}

func TestCodec_RoundTrip(t *testing.T) {
	original := bytes.Repeat([]byte("1. e4 {+0.31/18 1.27s} e5 {-0.20/17 0.98s} "), 2000)

	for _, c := range codecs() {
		t.Run("ext="+c.Extension(), func(t *testing.T) {
			var compressed bytes.Buffer
			w, err := c.Writer(&compressed)
			if err != nil {
				t.Fatalf("Writer() error = %v", err)
			}
			if _, err := w.Write(original); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			r, err := c.Reader(&compressed)
			if err != nil {
				t.Fatalf("Reader() error = %v", err)
			}
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if err := r.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}
			if !bytes.Equal(got, original) {
				t.Errorf("round trip returned %d bytes, want %d", len(got), len(original))
			}
		})
	}
}

func TestGzip_Multistream(t *testing.T) {
	c := gzipcodec.New()
	var buf bytes.Buffer
	for _, part := range []string{"[Event \"a\"]\n", "[Event \"b\"]\n"} {
		w, err := c.Writer(&buf)
		if err != nil {
			t.Fatalf("Writer() error = %v", err)
		}
		io.WriteString(w, part)
		w.Close()
	}

	r, err := c.Reader(&buf)
	if err != nil {
		t.Fatalf("Reader() error = %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if want := "[Event \"a\"]\n[Event \"b\"]\n"; string(got) != want {
		t.Errorf("ReadAll() = %q, want %q", got, want)
	}
}

func TestRegistry_ForName(t *testing.T) {
	reg := codec.NewRegistry(noopcodec.New(), codecs()...)

	tests := []struct {
		name     string
		wantExt  string
		wantBase string
	}{
		{"games.pgn", "", "games.pgn"},
		{"games.pgn.zst", "zst", "games.pgn"},
		{"games.pgn.bz2", "bz2", "games.pgn"},
		{"s3://bucket/tcec/season.pgn.gz", "gz", "s3://bucket/tcec/season.pgn"},
		{"GAMES.PGN.ZST", "zst", "GAMES.PGN"},
		{"noext", "", "noext"},
	}
	for _, tt := range tests {
		c, base := reg.ForName(tt.name)
		if got := c.Extension(); got != tt.wantExt {
			t.Errorf("ForName(%q) codec = %q, want %q", tt.name, got, tt.wantExt)
		}
		if base != tt.wantBase {
			t.Errorf("ForName(%q) base = %q, want %q", tt.name, base, tt.wantBase)
		}
	}

	if got := len(reg.Extensions()); got != 3 {
		t.Errorf("len(Extensions()) = %d, want 3", got)
	}
}
