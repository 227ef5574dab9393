package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/hud/internal/dbus"
	"github.com/jmylchreest/hud/internal/model"
	"github.com/jmylchreest/hud/internal/output"
)

var statusOpts struct {
	follow bool
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Output Waybar-compatible JSON status",
	Long: `Output overlay status in Waybar's custom module JSON format.

This is designed to be used with Waybar's custom module:

  "custom/hud": {
    "exec": "hud status --follow",
    "return-type": "json",
    "on-click": "hud clear oldest",
    "on-click-right": "hud clear all"
  }

The output includes:
  - text: Number of active messages (empty when none)
  - alt/class: empty, active, permanent or offline
  - tooltip: The active messages, one per line

With --follow a new line is written every time the overlay changes.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&statusOpts.follow, "follow", "f", false,
		"Keep running and print a line on every change")
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if !statusOpts.follow {
		err := withClient(func(ctx context.Context, client *dbus.Client) error {
			status, err := currentStatus(ctx, client)
			if err != nil {
				return err
			}
			return status.Write(out)
		})
		if err != nil {
			logger.Debug("status unavailable", "error", err)
			return output.OfflineWaybarStatus().Write(out)
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := dbus.Connect()
	if err != nil {
		_ = output.OfflineWaybarStatus().Write(out)
		return err
	}
	defer func() { _ = client.Close() }()

	emit := func() {
		status, err := currentStatus(ctx, client)
		if err != nil {
			logger.Debug("status unavailable", "error", err)
			status = output.OfflineWaybarStatus()
		}
		if err := status.Write(out); err != nil {
			logger.Warn("failed to write status", "error", err)
		}
	}

	emit()
	return client.WatchChanged(ctx, func(int) { emit() })
}

// currentStatus fetches the active messages and summarizes them.
func currentStatus(ctx context.Context, client *dbus.Client) (output.WaybarStatus, error) {
	if !client.Running(ctx) {
		return output.WaybarStatus{}, errNotRunning
	}
	items, err := client.List(ctx)
	if err != nil {
		return output.WaybarStatus{}, err
	}
	return output.NewWaybarStatus(notifications(items)), nil
}

// notifications converts wire items back to notifications.
func notifications(items []dbus.Item) []model.Notification {
	ns := make([]model.Notification, len(items))
	for i, item := range items {
		ns[i] = item.Notification()
	}
	return ns
}
