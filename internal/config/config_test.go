package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/discochess/pgnswing/internal/annotation"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Dialect != "cutechess" || cfg.MinimumDepth != 1 || cfg.PointOfView != "side-to-move" {
		t.Errorf("Default() = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad_Layers(t *testing.T) {
	path := writeConfig(t, `
[analysis]
dialect = "tcec"
minimum-depth = 8

[output]
format = "markdown"

[input]
remote-cache = 4

[s3]
region = "eu-west-1"
`)
	t.Setenv("PGNSWING_MINIMUM_DEPTH", "12")
	t.Setenv("PGNSWING_S3_ENDPOINT", "http://localhost:9000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Dialect from file", cfg.Dialect, "tcec"},
		{"MinimumDepth from env", cfg.MinimumDepth, 12},
		{"PointOfView default", cfg.PointOfView, "side-to-move"},
		{"Format from file", cfg.Format, "markdown"},
		{"RemoteCache from file", cfg.RemoteCache, 4},
		{"S3.Region from file", cfg.S3.Region, "eu-west-1"},
		{"S3.Endpoint from env", cfg.S3.Endpoint, "http://localhost:9000"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoad_DefaultPathMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Dialect != "cutechess" {
		t.Errorf("Dialect = %q, want cutechess", cfg.Dialect)
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load() with missing explicit path should return error")
	}
}

func TestLoadFile_UnknownKey(t *testing.T) {
	path := writeConfig(t, "[analysis]\ndialekt = \"tcec\"\n")
	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile() with unknown key should return error")
	}
}

func TestLoadFile_BadSyntax(t *testing.T) {
	path := writeConfig(t, "[analysis\n")
	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile() with bad syntax should return error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"unknown dialect", func(c *Config) { c.Dialect = "pgn4web" }, ErrUnknownDialect},
		{"bad pov", func(c *Config) { c.PointOfView = "black" }, nil},
		{"negative depth", func(c *Config) { c.MinimumDepth = -1 }, nil},
		{"negative cache", func(c *Config) { c.RemoteCache = -2 }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() error = nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Values(t *testing.T) {
	cfg := Default()
	cfg.Dialect = "Shredder"
	cfg.PointOfView = "white"

	d, err := cfg.DialectValue()
	if err != nil || d != annotation.Cutechess {
		t.Errorf("DialectValue() = %q, %v, want cutechess", d, err)
	}
	pov, err := cfg.POV()
	if err != nil || pov != annotation.POVWhite {
		t.Errorf("POV() = %v, %v, want white", pov, err)
	}
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultPath(); got != "/cfg/pgnswing/config.toml" {
		t.Errorf("DefaultPath() = %q", got)
	}
	if got := DefaultArchivePath(); got != "/data/pgnswing/archive.db" {
		t.Errorf("DefaultArchivePath() = %q", got)
	}
}
