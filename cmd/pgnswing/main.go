// Package main provides the pgnswing CLI for summarizing evaluation swings
// in engine-annotated PGN files, exporting evaluation curves, and rewriting
// games.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	teardown()
	if err != nil {
		os.Exit(1)
	}
}
