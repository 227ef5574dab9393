package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/hud/internal/model"
)

// DmenuFormatter formats notifications one per line for dmenu, rofi or
// fuzzel style pickers.
type DmenuFormatter struct {
	opts FormatterOptions
}

// NewDmenuFormatter creates a new dmenu formatter.
func NewDmenuFormatter(opts FormatterOptions) *DmenuFormatter {
	return &DmenuFormatter{opts: opts}
}

// Format writes notifications in dmenu format (one per line).
func (f *DmenuFormatter) Format(w io.Writer, notifications []model.Notification) error {
	for i, n := range notifications {
		if _, err := fmt.Fprintln(w, f.formatLine(i+1, n)); err != nil {
			return err
		}
	}
	return nil
}

// formatLine formats a single line: [index] [color] message.
func (f *DmenuFormatter) formatLine(index int, n model.Notification) string {
	sep := f.opts.Separator
	if sep == "" {
		sep = " | "
	}

	var parts []string
	if f.opts.ShowIndex {
		parts = append(parts, fmt.Sprintf("%d", index))
	}
	if f.opts.ShowColor {
		parts = append(parts, n.Color.Hex())
	}
	parts = append(parts, truncate(singleLine(n.Message), f.opts.MessageMax))

	return strings.Join(parts, sep)
}
