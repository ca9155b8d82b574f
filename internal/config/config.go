// Package config loads pgnswing settings from defaults, a TOML file and the
// environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/discochess/pgnswing/internal/annotation"
)

// EnvPrefix prefixes every environment variable, e.g. PGNSWING_DIALECT.
const EnvPrefix = "PGNSWING"

// ErrUnknownDialect is returned when the configured dialect is not known.
var ErrUnknownDialect = errors.New("config: unknown dialect")

// Config is the resolved configuration.
type Config struct {
	Dialect      string `envconfig:"DIALECT"`
	MinimumDepth int    `envconfig:"MINIMUM_DEPTH"`
	PointOfView  string `envconfig:"POINT_OF_VIEW"`

	Format      string `envconfig:"FORMAT"`
	Archive     string `envconfig:"ARCHIVE"`
	MetricsFile string `envconfig:"METRICS_FILE"`

	// RemoteCache is the number of S3 or GCS objects kept in memory per
	// bucket. Zero disables caching.
	RemoteCache int `envconfig:"REMOTE_CACHE"`

	S3 S3 `envconfig:"S3"`
}

// S3 holds settings for s3:// inputs.
type S3 struct {
	Region   string `envconfig:"REGION"`
	Endpoint string `envconfig:"ENDPOINT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Dialect:      string(annotation.DefaultDialect),
		MinimumDepth: 1,
		PointOfView:  annotation.POVSideToMove.String(),
		Format:       "auto",
	}
}

// FileConfig represents the TOML configuration file. Nil fields are unset.
type FileConfig struct {
	Analysis AnalysisConfig `toml:"analysis"`
	Output   OutputConfig   `toml:"output"`
	Input    InputConfig    `toml:"input"`
	S3       S3Config       `toml:"s3"`
}

// AnalysisConfig maps analysis settings.
type AnalysisConfig struct {
	Dialect      *string `toml:"dialect"`
	MinimumDepth *int    `toml:"minimum-depth"`
	PointOfView  *string `toml:"point-of-view"`
}

// OutputConfig maps report settings.
type OutputConfig struct {
	Format      *string `toml:"format"`
	Archive     *string `toml:"archive"`
	MetricsFile *string `toml:"metrics-file"`
}

// InputConfig maps input settings.
type InputConfig struct {
	RemoteCache *int `toml:"remote-cache"`
}

// S3Config maps S3 settings.
type S3Config struct {
	Region   *string `toml:"region"`
	Endpoint *string `toml:"endpoint"`
}

// LoadFile reads a TOML config from path. A missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var fc FileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}
	return fc, nil
}

// Apply overrides c with every field set in fc.
func (c *Config) Apply(fc FileConfig) {
	setString(&c.Dialect, fc.Analysis.Dialect)
	setInt(&c.MinimumDepth, fc.Analysis.MinimumDepth)
	setString(&c.PointOfView, fc.Analysis.PointOfView)
	setString(&c.Format, fc.Output.Format)
	setString(&c.Archive, fc.Output.Archive)
	setString(&c.MetricsFile, fc.Output.MetricsFile)
	setInt(&c.RemoteCache, fc.Input.RemoteCache)
	setString(&c.S3.Region, fc.S3.Region)
	setString(&c.S3.Endpoint, fc.S3.Endpoint)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// ApplyEnv overrides c with the PGNSWING_* variables that are set.
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	return nil
}

// Load resolves the configuration from defaults, the file at path and the
// environment. An empty path reads DefaultPath if it exists; an explicit
// path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	} else if _, err := os.Stat(path); err != nil {
		return Config{}, fmt.Errorf("config file: %w", err)
	}
	fc, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg.Apply(fc)

	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DialectValue returns the configured dialect.
func (c Config) DialectValue() (annotation.Dialect, error) {
	d, err := annotation.ParseDialect(c.Dialect)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownDialect, c.Dialect)
	}
	return d, nil
}

// POV returns the configured point of view.
func (c Config) POV() (annotation.POV, error) {
	return annotation.ParsePOV(c.PointOfView)
}

// Validate checks that every setting has a usable value.
func (c Config) Validate() error {
	if _, err := c.DialectValue(); err != nil {
		return err
	}
	if _, err := c.POV(); err != nil {
		return err
	}
	if c.MinimumDepth < 0 {
		return fmt.Errorf("config: minimum depth must not be negative, got %d", c.MinimumDepth)
	}
	if c.RemoteCache < 0 {
		return fmt.Errorf("config: remote cache size must not be negative, got %d", c.RemoteCache)
	}
	return nil
}
