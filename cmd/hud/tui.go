package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/hud/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the overlay in the terminal",
	Long: `Run a self-contained overlay drawn in the terminal.

Messages typed at the prompt are queued, colored and expired exactly as
hudd would show them, which makes this handy for trying out colors and
durations without a compositor. It does not talk to a running hudd.

Key bindings:
  enter       Send with the selected color and duration
  ctrl+p      Send permanently
  tab         Next color (shift+tab: previous)
  ctrl+t      Cycle duration
  ctrl+o      Clear oldest
  ctrl+n      Clear newest
  ctrl+x      Clear all
  f1          Show help
  esc         Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	return tui.Run(ctx, tui.RunOptions{
		Config: cfg,
	})
}

