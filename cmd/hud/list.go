package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/hud/internal/core"
	"github.com/jmylchreest/hud/internal/dbus"
	"github.com/jmylchreest/hud/internal/model"
	"github.com/jmylchreest/hud/internal/output"
)

var listOpts struct {
	// Filter options
	filter string
	search string
	limit  int

	// Output options
	format   string
	template string
	field    string
	noIndex  bool
	noColor  bool
	maxLen   int
}

var listCmd = &cobra.Command{
	Use:   "list [index|id]",
	Short: "List active messages",
	Long: `List the messages currently on the overlay, oldest first.

With an index (1-based) or ID argument only that message is printed; --field
selects a single value (message, color, id, remaining).

Formats:
  plain  one line per message with color and time left (default)
  dmenu  one line per message for dmenu, rofi or fuzzel
  json   array of records
  yaml   sequence of records
  ids    notification IDs only

A Go template can be given for plain output. Fields: .Index, .ID,
.Message, .Color, .Permanent, .Remaining (seconds), .CreatedAt.
Functions: truncate, oneline, reltime, seconds.

Filters use "field op value" joined with commas. Fields: message, color,
permanent, remaining, age. Operators: = != ~ ~= > < >= <=.

Examples:
  hud list
  hud list --format json
  hud list --filter 'color=red,age>1m'
  hud list 2 --field message
  hud list --template '{{.Index}} {{truncate (oneline .Message) 40}}'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listOpts.filter, "filter", "",
		"Filter expression (e.g. 'color=red,remaining<2s')")
	listCmd.Flags().StringVarP(&listOpts.search, "search", "s", "",
		"Case-insensitive message search")
	listCmd.Flags().IntVarP(&listOpts.limit, "limit", "n", 0,
		"Show only the newest N messages (0 = all)")
	listCmd.Flags().StringVar(&listOpts.field, "field", "",
		"Print a single field of the selected message")

	listCmd.Flags().StringVarP(&listOpts.format, "format", "f", string(output.FormatPlain),
		"Output format (plain, dmenu, json, yaml, ids)")
	listCmd.Flags().StringVar(&listOpts.template, "template", "",
		"Go template for plain output")
	listCmd.Flags().BoolVar(&listOpts.noIndex, "no-index", false,
		"Omit the index column")
	listCmd.Flags().BoolVar(&listOpts.noColor, "no-color", false,
		"Omit color values and styling")
	listCmd.Flags().IntVar(&listOpts.maxLen, "max-length", 0,
		"Truncate messages to this many characters (0 = unlimited)")
}

func runList(cmd *cobra.Command, args []string) error {
	opts := output.DefaultFormatterOptions()
	opts.Template = listOpts.template
	opts.ShowIndex = !listOpts.noIndex
	opts.ShowColor = !listOpts.noColor
	opts.MessageMax = listOpts.maxLen
	opts.Styled = !listOpts.noColor && term.IsTerminal(os.Stdout.Fd())

	formatter, err := output.NewFormatter(output.FormatType(listOpts.format), opts)
	if err != nil {
		return err
	}

	expr, err := core.ParseFilter(listOpts.filter)
	if err != nil {
		return err
	}

	return withClient(func(ctx context.Context, client *dbus.Client) error {
		var ns []model.Notification
		if len(args) == 1 {
			n, err := lookup(ctx, client, args[0])
			if err != nil {
				return err
			}
			if listOpts.field != "" {
				value, err := field(*n, listOpts.field)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			}
			ns = []model.Notification{*n}
		} else {
			items, err := client.List(ctx)
			if err != nil {
				return err
			}
			ns = notifications(items)
		}

		ns = core.FilterWithExpr(ns, expr, time.Now())
		ns = core.Search(ns, listOpts.search)
		ns = core.Limit(ns, listOpts.limit)
		return formatter.Format(cmd.OutOrStdout(), ns)
	})
}

// lookup resolves an index, ID or ID prefix. Full IDs are fetched directly.
func lookup(ctx context.Context, client *dbus.Client, ref string) (*model.Notification, error) {
	ref = strings.TrimSpace(ref)
	if len(ref) == ulidLength {
		item, found, err := client.Get(ctx, strings.ToUpper(ref))
		if err != nil {
			return nil, err
		}
		if found {
			n := item.Notification()
			return &n, nil
		}
	}

	items, err := client.List(ctx)
	if err != nil {
		return nil, err
	}
	n := core.Lookup(notifications(items), ref)
	if n == nil {
		return nil, fmt.Errorf("no active message matches %q", ref)
	}
	return n, nil
}

// ulidLength is the length of a notification ID.
const ulidLength = 26

// field returns a single value of n for scripting.
func field(n model.Notification, name string) (string, error) {
	switch strings.ToLower(name) {
	case "message", "msg":
		return n.Message, nil
	case "color":
		return n.Color.Hex(), nil
	case "id":
		return n.ID, nil
	case "remaining":
		if n.Permanent {
			return "permanent", nil
		}
		return n.Remaining.String(), nil
	default:
		return "", fmt.Errorf("unknown field %q (want message, color, id or remaining)", name)
	}
}
