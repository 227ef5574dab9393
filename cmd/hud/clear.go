package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/hud/internal/dbus"
)

var clearCmd = &cobra.Command{
	Use:   "clear [all|oldest|newest]",
	Short: "Remove messages from the overlay",
	Long: `Remove messages from the overlay.

  all     remove every message (default)
  oldest  remove the message that was sent first
  newest  remove the message that was sent last

Clearing an empty overlay does nothing.`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"all", "oldest", "newest"},
	RunE:      runClear,
}

var countOpts struct {
	quiet bool
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of active messages",
	Long: `Print the number of active messages.

With --quiet nothing is printed and the exit code reports whether anything is
on screen (0 = messages present, 1 = empty).`,
	RunE: runCount,
}

func init() {
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(countCmd)

	countCmd.Flags().BoolVarP(&countOpts.quiet, "quiet", "q", false,
		"Suppress output, return exit code only")
}

func runClear(cmd *cobra.Command, args []string) error {
	which := "all"
	if len(args) == 1 {
		which = args[0]
	}

	return withClient(func(ctx context.Context, client *dbus.Client) error {
		switch which {
		case "oldest":
			return client.ClearOldest(ctx)
		case "newest":
			return client.ClearNewest(ctx)
		default:
			return client.ClearAll(ctx)
		}
	})
}

func runCount(cmd *cobra.Command, args []string) error {
	return withClient(func(ctx context.Context, client *dbus.Client) error {
		count, err := client.Count(ctx)
		if err != nil {
			return err
		}

		if countOpts.quiet {
			if count == 0 {
				return errEmpty
			}
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), count)
		return nil
	})
}
