package main

import (
	"fmt"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/discochess/pgnswing"
	"github.com/discochess/pgnswing/internal/config"
	"github.com/discochess/pgnswing/internal/report"
	"github.com/discochess/pgnswing/internal/stats"
)

var (
	// Global flags.
	configPath string
	verbose    bool
	cpuProfile string

	// Analysis flags, shared by swing and series.
	flagDialect  string
	flagMinDepth int
	flagPOV      string
	flagWhitePOV bool

	// Set up before any command runs.
	cfg      config.Config
	logger   = zap.NewNop()
	profiler interface{ Stop() }
)

var rootCmd = &cobra.Command{
	Use:   "pgnswing",
	Short: "Evaluation swings in engine-annotated PGN files",
	Long: `pgnswing reads PGN files annotated by engines or tournament software
and reports, per game and per side, the most favorable and unfavorable
evaluation and the move where it occurred.

Comments in the TCEC, Lichess, Cutechess (also Winboard and Shredder) and
plain dialects are understood. Inputs may be local paths, s3:// or gs://
URIs, http(s) URLs, or - for standard input; .zst, .bz2 and .gz files are
decompressed.

Settings are read from $XDG_CONFIG_HOME/pgnswing/config.toml, then
PGNSWING_* environment variables, then flags.

Examples:
  # Swing table of a TCEC season
  pgnswing swing --dialect tcec season25.pgn.zst

  # Evaluation curves for plotting
  pgnswing series --format csv --white-pov games.pgn > curves.csv

  # Mirror games board-wise
  pgnswing flip -o flipped.pgn games.pgn`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file (default $XDG_CONFIG_HOME/pgnswing/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cpuProfile, "cpuprofile", "", "write a CPU profile to this directory")
}

func setup(cmd *cobra.Command, _ []string) error {
	var err error
	if logger, err = newLogger(verbose); err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	if cfg, err = config.Load(configPath); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cpuProfile != "" {
		profiler = profile.Start(profile.CPUProfile, profile.ProfilePath(cpuProfile), profile.NoShutdownHook, profile.Quiet)
	}
	return nil
}

// teardown stops the profiler and flushes the logger. It runs after the
// command, whether or not it failed.
func teardown() {
	if profiler != nil {
		profiler.Stop()
	}
	_ = logger.Sync()
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return zc.Build()
}

func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagDialect, "dialect", "", "comment dialect: tcec, lichess, cutechess or plain")
	cmd.Flags().IntVar(&flagMinDepth, "min-depth", 1, "ignore scores searched shallower than this depth")
	cmd.Flags().StringVar(&flagPOV, "pov", "", "point of view of cutechess and plain scores: side-to-move or white")
	cmd.Flags().BoolVar(&flagWhitePOV, "wpov", false, "shorthand for --pov white")
}

// applyAnalysisFlags overrides the configuration with explicitly set flags.
func applyAnalysisFlags(cmd *cobra.Command) {
	fl := cmd.Flags()
	if fl.Changed("dialect") {
		cfg.Dialect = flagDialect
	}
	if fl.Changed("min-depth") {
		cfg.MinimumDepth = flagMinDepth
	}
	if fl.Changed("pov") {
		cfg.PointOfView = flagPOV
	}
	if flagWhitePOV {
		cfg.PointOfView = "white"
	}
}

func newAnalyzer(collector stats.Collector) (*pgnswing.Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dialect, _ := cfg.DialectValue()
	pov, _ := cfg.POV()
	return pgnswing.New(
		pgnswing.WithDialect(dialect),
		pgnswing.WithPOV(pov),
		pgnswing.WithMinDepth(cfg.MinimumDepth),
		pgnswing.WithStats(collector),
		pgnswing.WithLogger(logger.Named("pgnswing")),
	)
}

// resolveFormat maps "auto" to the styled table on terminals and plain text
// otherwise.
func resolveFormat(name string) (report.Format, error) {
	if name == "" || name == "auto" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return report.FormatPretty, nil
		}
		return report.FormatText, nil
	}
	return report.ParseFormat(name)
}
