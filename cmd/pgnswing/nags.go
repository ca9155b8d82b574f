package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/discochess/pgnswing/internal/nag"
	"github.com/discochess/pgnswing/internal/stats"
)

var nagsCmd = &cobra.Command{
	Use:   "nags [input...]",
	Short: "Strip annotation glyphs from the opening of games",
	Long: `Remove numeric annotation glyphs ($1, $2, ...) and move suffixes
(!, ?, !?, ...) from every mainline move played before ply --keep-from.
Later glyphs, comments and variations are kept as written.

Examples:
  # Drop glyphs from the first 20 moves of each side
  pgnswing nags --keep-from 41 -o clean.pgn games.pgn`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNags,
}

var (
	nagsOutput   string
	nagsKeepFrom int
)

func init() {
	nagsCmd.Flags().StringVarP(&nagsOutput, "output", "o", "", "output file (default standard output)")
	nagsCmd.Flags().IntVar(&nagsKeepFrom, "keep-from", 1, "first ply (1-based) whose glyphs are kept")
	rootCmd.AddCommand(nagsCmd)
}

func runNags(cmd *cobra.Command, args []string) error {
	in, err := openInputs(cmd.Context(), args, stats.NewNoop())
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := createOutput(nagsOutput)
	if err != nil {
		return err
	}
	defer out.Close()

	n, err := nag.Copy(out, in, nagsKeepFrom)
	if err != nil {
		return fmt.Errorf("stripping glyphs: %w", err)
	}
	logger.Info("stripped games", zap.Int("games", n), zap.Int("keep_from", nagsKeepFrom))
	return out.Close()
}
