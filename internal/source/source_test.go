package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/discochess/pgnswing/internal/codec/zstdcodec"
	"github.com/discochess/pgnswing/internal/stats"
	"github.com/discochess/pgnswing/internal/store"
	"github.com/discochess/pgnswing/internal/store/memstore"
)

const game = "[Event \"Test\"]\n\n1. e4 {+0.30/12 5s} e5 *\n"

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		want Location
	}{
		{"s3://tcec/season/25.pgn.zst", Location{Scheme: SchemeS3, Bucket: "tcec", Key: "season/25.pgn.zst"}},
		{"gs://broadcasts/2024.pgn", Location{Scheme: SchemeGCS, Bucket: "broadcasts", Key: "2024.pgn"}},
		{"MEM://fixtures/a.pgn", Location{Scheme: SchemeMem, Bucket: "fixtures", Key: "a.pgn"}},
		{"/data/games.pgn.bz2", Location{Scheme: SchemeFile, Bucket: "/data", Key: "games.pgn.bz2"}},
		{"file:///data/games.pgn", Location{Scheme: SchemeFile, Bucket: "/data", Key: "games.pgn"}},
		{"-", Location{Scheme: SchemeStdin, Key: "-"}},
		{"https://lichess.org/api/broadcast/abc.pgn?clocks=true", Location{Scheme: SchemeHTTPS, Bucket: "lichess.org", Key: "api/broadcast/abc.pgn?clocks=true"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.name)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, name := range []string{"", "ftp://host/a.pgn", "s3://bucket", "s3:///key.pgn", "https://lichess.org"} {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(name); !errors.Is(err, ErrLocation) {
				t.Errorf("Parse(%q) error = %v, want ErrLocation", name, err)
			}
		})
	}
}

func TestLocation_Name(t *testing.T) {
	loc := Location{Scheme: SchemeHTTPS, Bucket: "h", Key: "x/games.pgn.zst?v=2"}
	if got := loc.Name(); got != "x/games.pgn.zst" {
		t.Errorf("Name() = %q, want %q", got, "x/games.pgn.zst")
	}
}

func TestLocation_String(t *testing.T) {
	loc := Location{Scheme: SchemeS3, Bucket: "b", Key: "k/a.pgn"}
	if got := loc.String(); got != "s3://b/k/a.pgn" {
		t.Errorf("String() = %q, want %q", got, "s3://b/k/a.pgn")
	}
}

func readAll(t *testing.T, o *Opener, name string) string {
	t.Helper()
	src, err := o.Open(context.Background(), name)
	if err != nil {
		t.Fatalf("Open(%q) error = %v", name, err)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return string(data)
}

func TestOpener_MemStoreCompressed(t *testing.T) {
	var buf bytes.Buffer
	w, err := zstdcodec.New().Writer(&buf)
	if err != nil {
		t.Fatalf("Writer() error = %v", err)
	}
	w.Write([]byte(game))
	w.Close()

	mem := memstore.New()
	mem.Put("season.pgn.zst", buf.Bytes())
	mem.Put("plain.pgn", []byte(game))

	rec := stats.NewRecorder()
	o := NewOpener(WithStore(SchemeMem, "fixtures", mem), WithStats(rec))
	defer o.Close()

	if got := readAll(t, o, "mem://fixtures/season.pgn.zst"); got != game {
		t.Errorf("compressed read = %q, want %q", got, game)
	}
	if got := readAll(t, o, "mem://fixtures/plain.pgn"); got != game {
		t.Errorf("plain read = %q, want %q", got, game)
	}

	want := int64(buf.Len() + len(game))
	if got := rec.Counter(stats.MetricSourceBytes); got != want {
		t.Errorf("%s = %d, want %d", stats.MetricSourceBytes, got, want)
	}
}

func TestOpener_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.pgn")
	if err := os.WriteFile(path, []byte(game), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	o := NewOpener()
	defer o.Close()
	if got := readAll(t, o, path); got != game {
		t.Errorf("file read = %q, want %q", got, game)
	}
	if got := len(o.owned); got != 1 {
		t.Errorf("owned stores = %d, want 1", got)
	}
}

func TestOpener_Stdin(t *testing.T) {
	o := NewOpener(WithStdin(strings.NewReader(game)))
	if got := readAll(t, o, "-"); got != game {
		t.Errorf("stdin read = %q, want %q", got, game)
	}
}

func TestOpener_NotFound(t *testing.T) {
	o := NewOpener(WithStore(SchemeMem, "fixtures", memstore.New()))
	_, err := o.Open(context.Background(), "mem://fixtures/missing.pgn")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Open() error = %v, want ErrNotFound", err)
	}
}

func TestOpener_UnregisteredMemBucket(t *testing.T) {
	o := NewOpener()
	_, err := o.Open(context.Background(), "mem://nowhere/a.pgn")
	if !errors.Is(err, ErrLocation) {
		t.Errorf("Open() error = %v, want ErrLocation", err)
	}
}

func TestOpener_CachedStore(t *testing.T) {
	mem := memstore.New()
	mem.Put("games.pgn", []byte(game))

	rec := stats.NewRecorder()
	o := NewOpener(WithCache(2), WithStats(rec))
	s, err := o.cached(mem)
	if err != nil {
		t.Fatalf("cached() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		rc, err := s.Open(context.Background(), "games.pgn")
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		rc.Close()
	}
	if got := rec.Counter(stats.MetricCacheHits); got != 1 {
		t.Errorf("%s = %d, want 1", stats.MetricCacheHits, got)
	}

	if _, err := NewOpener(WithCache(-1)).cached(mem); err == nil {
		t.Error("cached() with negative size should return error")
	}
}

func TestOpener_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/round.pgn" || r.URL.Query().Get("clocks") != "true" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, game)
	}))
	defer srv.Close()

	o := NewOpener()
	defer o.Close()

	if got := readAll(t, o, srv.URL+"/round.pgn?clocks=true"); got != game {
		t.Errorf("http read = %q, want %q", got, game)
	}
	if _, err := o.Open(context.Background(), srv.URL+"/other.pgn"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Open() error = %v, want ErrNotFound", err)
	}
}
