package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/hud/internal/config"
	"github.com/jmylchreest/hud/internal/dbus"
	"github.com/jmylchreest/hud/internal/model"
)

var sendOpts struct {
	color    string
	duration string
	quiet    bool
}

var sendCmd = &cobra.Command{
	Use:   "send MESSAGE...",
	Short: "Show a message on the overlay",
	Long: `Show a message on the overlay.

Arguments are joined with spaces. The color accepts a name (red, green,
blue, yellow, cyan, magenta, orange, white, black, gray) or a hex value
(#rgb, #rrggbb, #rrggbbaa). The duration accepts Go notation ("2s",
"1m30s") or integer milliseconds; "0" keeps the message until cleared.

Examples:
  hud send "Build finished"
  hud send --color red --duration 10s "Tests failed"
  hud send -c '#ffaa00' -d 0 "On call"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

var permanentCmd = &cobra.Command{
	Use:   "permanent MESSAGE...",
	Short: "Show a message that stays until cleared",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sendOpts.duration = "0"
		return runSend(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(permanentCmd)

	for _, cmd := range []*cobra.Command{sendCmd, permanentCmd} {
		cmd.Flags().StringVarP(&sendOpts.color, "color", "c", "",
			"Message color (name or hex; default from config)")
		cmd.Flags().BoolVarP(&sendOpts.quiet, "quiet", "q", false,
			"Do not print the notification ID")
	}
	sendCmd.Flags().StringVarP(&sendOpts.duration, "duration", "d", "",
		"How long the message stays (default from config; 0 = permanent)")
}

func runSend(cmd *cobra.Command, args []string) error {
	message := strings.Join(args, " ")

	if sendOpts.color != "" {
		if _, err := model.ParseColor(sendOpts.color); err != nil {
			return err
		}
	}

	seconds, err := parseSeconds(sendOpts.duration)
	if err != nil {
		return err
	}

	return withClient(func(ctx context.Context, client *dbus.Client) error {
		var id string
		var err error
		if seconds == 0 {
			id, err = client.SendPermanent(ctx, message, sendOpts.color)
		} else {
			id, err = client.Send(ctx, message, sendOpts.color, seconds)
		}
		if err != nil {
			return err
		}

		logger.Debug("sent notification", "id", id, "seconds", seconds)
		if !sendOpts.quiet {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	})
}

// parseSeconds converts a duration flag to the wire form. Empty asks the
// daemon for its default, which is spelled as a negative value.
func parseSeconds(value string) (float64, error) {
	if value == "" {
		return -1, nil
	}

	var d config.Duration
	if err := d.UnmarshalText([]byte(value)); err != nil {
		return 0, err
	}
	if d.Duration() < 0 {
		return 0, fmt.Errorf("duration must not be negative, got %s", d)
	}
	return d.Duration().Seconds(), nil
}
