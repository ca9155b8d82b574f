package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/discochess/pgnswing"
	"github.com/discochess/pgnswing/internal/archive"
	"github.com/discochess/pgnswing/internal/report"
	"github.com/discochess/pgnswing/internal/stats"
	statslog "github.com/discochess/pgnswing/internal/stats/logger"
	"github.com/discochess/pgnswing/internal/stats/prometheus"
)

var swingCmd = &cobra.Command{
	Use:   "swing [input...]",
	Short: "Show the largest evaluation swings of each game",
	Long: `Show, for each game and each side, the most favorable and unfavorable
evaluation and the move where it first occurred.

A side that won reports its maximum only, a side that lost its minimum only,
and drawn or unfinished games report both. Games whose comments cannot be
parsed are reported as errors and the run continues.

Examples:
  # TCEC season as Markdown with statistics
  pgnswing swing --dialect tcec --format markdown --stats s25.pgn

  # Lichess broadcast from S3, archived for later comparison
  pgnswing swing --dialect lichess --archive runs.db s3://broadcasts/2024.pgn.zst`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSwing,
}

var (
	swingFormat      string
	swingArchive     string
	swingMetricsFile string
	swingStats       bool
	swingHistogram   int
	swingTitle       string
)

func init() {
	addAnalysisFlags(swingCmd)
	swingCmd.Flags().StringVar(&swingFormat, "format", "auto", "output format: text, markdown, json, pretty or auto")
	swingCmd.Flags().StringVar(&swingArchive, "archive", "", "store the run in this SQLite database")
	swingCmd.Flags().StringVar(&swingMetricsFile, "metrics-file", "", "write Prometheus metrics to this file at exit")
	swingCmd.Flags().BoolVar(&swingStats, "stats", false, "append swing statistics")
	swingCmd.Flags().IntVar(&swingHistogram, "histogram", 0, "buckets of the Markdown swing distribution chart")
	swingCmd.Flags().StringVar(&swingTitle, "title", "", "Markdown report title")
	rootCmd.AddCommand(swingCmd)
}

func runSwing(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	applyAnalysisFlags(cmd)
	fl := cmd.Flags()
	if fl.Changed("format") {
		cfg.Format = swingFormat
	}
	if fl.Changed("archive") {
		cfg.Archive = swingArchive
	}
	if fl.Changed("metrics-file") {
		cfg.MetricsFile = swingMetricsFile
	}

	format, err := resolveFormat(cfg.Format)
	if err != nil {
		return err
	}

	collector, finish := newCollector()
	analyzer, err := newAnalyzer(collector)
	if err != nil {
		return err
	}

	in, err := openInputs(ctx, args, collector)
	if err != nil {
		return err
	}
	defer in.Close()

	started := time.Now()
	rep, err := analyzer.Analyze(ctx, in)
	if err != nil {
		return fmt.Errorf("analyzing: %w", err)
	}

	opts := []report.Option{
		report.WithStatistics(swingStats),
		report.WithHistogram(swingHistogram),
	}
	if swingTitle != "" {
		opts = append(opts, report.WithTitle(swingTitle))
	} else {
		opts = append(opts, report.WithTitle("Evaluation swings: "+strings.Join(args, ", ")))
	}
	if err := report.Write(cmd.OutOrStdout(), format, rep, opts...); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if cfg.Archive != "" {
		if err := archiveRun(cmd, started, args, rep); err != nil {
			return err
		}
	}
	return finish()
}

func archiveRun(cmd *cobra.Command, started time.Time, sources []string, rep *pgnswing.Report) error {
	a, err := archive.Open(cfg.Archive)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.SaveRun(cmd.Context(), archive.Run{
		StartedAt: started,
		Sources:   sources,
		Dialect:   cfg.Dialect,
	}, rep)
	if err != nil {
		return fmt.Errorf("archiving run: %w", err)
	}
	logger.Info("archived run", zap.Int64("run", id), zap.String("archive", cfg.Archive))
	return nil
}

// newCollector returns the stats collector for a run and a function that
// publishes its totals when the run ends.
func newCollector() (stats.Collector, func() error) {
	if cfg.MetricsFile != "" {
		prom := prometheus.NewIsolated()
		return prom, func() error {
			if err := prom.WriteTextfile(cfg.MetricsFile); err != nil {
				return fmt.Errorf("writing metrics: %w", err)
			}
			return nil
		}
	}
	c := statslog.New(logger.Named("pgnswing.stats"))
	return c, func() error {
		c.Flush()
		return nil
	}
}
