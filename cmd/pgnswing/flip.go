package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/discochess/pgnswing/internal/flip"
	"github.com/discochess/pgnswing/internal/stats"
)

var flipCmd = &cobra.Command{
	Use:   "flip [input...]",
	Short: "Mirror games board-wise",
	Long: `Mirror every game board-wise: ranks are reversed, colors swapped,
player tags exchanged and decisive results inverted. Comments and glyphs
are kept; variations are dropped. Flipping twice restores the moves.

Examples:
  pgnswing flip -o flipped.pgn games.pgn
  pgnswing flip -o flipped.pgn.gz s3://archive/games.pgn.zst`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFlip,
}

var flipOutput string

func init() {
	flipCmd.Flags().StringVarP(&flipOutput, "output", "o", "", "output file (default standard output)")
	rootCmd.AddCommand(flipCmd)
}

func runFlip(cmd *cobra.Command, args []string) error {
	in, err := openInputs(cmd.Context(), args, stats.NewNoop())
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := createOutput(flipOutput)
	if err != nil {
		return err
	}
	defer out.Close()

	n, err := flip.Copy(out, in)
	if err != nil {
		return fmt.Errorf("flipping: %w", err)
	}
	logger.Info("flipped games", zap.Int("games", n))
	return out.Close()
}
