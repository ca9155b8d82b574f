package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/discochess/pgnswing"
	"github.com/discochess/pgnswing/internal/archive"
	"github.com/discochess/pgnswing/internal/config"
	"github.com/discochess/pgnswing/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List archived runs or show one of them",
	Long: `Without arguments, list the runs stored in the archive, newest first.
With a run id, print that run's summaries. With --player, print every
archived game the player took part in.

Examples:
  pgnswing history
  pgnswing history 3 --format markdown
  pgnswing history --player "Stockfish 16"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var (
	historyArchive string
	historyPlayer  string
	historyFormat  string
)

func init() {
	historyCmd.Flags().StringVar(&historyArchive, "archive", "", "SQLite archive (default from config or XDG data dir)")
	historyCmd.Flags().StringVar(&historyPlayer, "player", "", "show every archived game of this player")
	historyCmd.Flags().StringVar(&historyFormat, "format", "auto", "output format: text, markdown, json, pretty or auto")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := cfg.Archive
	if cmd.Flags().Changed("archive") {
		path = historyArchive
	}
	if path == "" {
		path = config.DefaultArchivePath()
	}

	a, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer a.Close()

	var (
		summaries []pgnswing.Summary
		title     string
	)
	switch {
	case historyPlayer != "":
		summaries, err = a.PlayerSummaries(ctx, historyPlayer)
		title = "Archived games of " + historyPlayer
	case len(args) == 1:
		id, perr := strconv.ParseInt(args[0], 10, 64)
		if perr != nil {
			return fmt.Errorf("invalid run id %q: %w", args[0], perr)
		}
		summaries, err = a.Summaries(ctx, id)
		title = "Run " + args[0]
	default:
		return listRuns(cmd, a)
	}
	if err != nil {
		return err
	}

	format, err := resolveFormat(historyFormat)
	if err != nil {
		return err
	}
	rep := &pgnswing.Report{Games: len(summaries), Summaries: summaries}
	return report.Write(cmd.OutOrStdout(), format, rep,
		report.WithTitle(title),
		report.WithErrors(false),
	)
}

func listRuns(cmd *cobra.Command, a *archive.Archive) error {
	runs, err := a.Runs(cmd.Context())
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "no archived runs")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%4d  %s  %-9s  %4d games  %3d failed  %s\n",
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			r.Dialect,
			r.Games,
			r.Failed,
			strings.Join(r.Sources, ", "),
		)
	}
	return nil
}
