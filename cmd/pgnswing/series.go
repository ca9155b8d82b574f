package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discochess/pgnswing"
	"github.com/discochess/pgnswing/internal/report"
)

var seriesCmd = &cobra.Command{
	Use:   "series [input...]",
	Short: "Export per-move evaluation and think-time curves",
	Long: `Export each game's evaluation and think-time curves for plotting.

Both sides are aligned move by move; when a game ends on White's move,
Black's curve repeats its last evaluation with a think time of 0.
Evaluations are from the moving side's point of view unless --white-pov
is given.

Examples:
  pgnswing series --format csv games.pgn > curves.csv
  pgnswing series --format json --white-pov --from 10 --to 60 games.pgn`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSeries,
}

var (
	seriesFormat   string
	seriesWhitePOV bool
	seriesFrom     int
	seriesTo       int
	seriesOutput   string
)

func init() {
	addAnalysisFlags(seriesCmd)
	seriesCmd.Flags().StringVar(&seriesFormat, "format", "csv", "output format: csv or json (one object per line)")
	seriesCmd.Flags().BoolVar(&seriesWhitePOV, "white-pov", false, "render both curves from White's point of view")
	seriesCmd.Flags().IntVar(&seriesFrom, "from", 0, "first move to export")
	seriesCmd.Flags().IntVar(&seriesTo, "to", 0, "last move to export")
	seriesCmd.Flags().StringVarP(&seriesOutput, "output", "o", "", "output file (default standard output)")
	rootCmd.AddCommand(seriesCmd)
}

type seriesWriter interface {
	Write(*pgnswing.GameResult) error
	Flush() error
}

func runSeries(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	applyAnalysisFlags(cmd)

	collector, finish := newCollector()
	analyzer, err := newAnalyzer(collector)
	if err != nil {
		return err
	}

	out, err := createOutput(seriesOutput)
	if err != nil {
		return err
	}
	defer out.Close()

	opts := report.SeriesOptions{WhitePOV: seriesWhitePOV, FromMove: seriesFrom, ToMove: seriesTo}
	var w seriesWriter
	switch seriesFormat {
	case "csv":
		w = report.NewSeriesCSV(out, opts)
	case "json", "jsonl":
		w = report.NewSeriesJSON(out, opts)
	default:
		return fmt.Errorf("%w: %q", report.ErrUnknownFormat, seriesFormat)
	}

	in, err := openInputs(ctx, args, collector)
	if err != nil {
		return err
	}
	defer in.Close()

	err = analyzer.Walk(ctx, in, func(res *pgnswing.GameResult) error {
		if res.Err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "error:", res.Err)
		}
		return w.Write(res)
	})
	if err != nil {
		return fmt.Errorf("exporting series: %w", err)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return finish()
}
