// Package output provides formatters for listing active overlay
// notifications from the command line.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jmylchreest/hud/internal/model"
)

// Formatter formats notifications for output.
type Formatter interface {
	// Format writes formatted notifications to the writer.
	Format(w io.Writer, notifications []model.Notification) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatDmenu FormatType = "dmenu"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
	FormatIDs   FormatType = "ids"
)

// ValidFormats returns all accepted format names.
func ValidFormats() []FormatType {
	return []FormatType{FormatPlain, FormatDmenu, FormatJSON, FormatYAML, FormatIDs}
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) (Formatter, error) {
	switch format {
	case FormatPlain, "":
		return NewPlainFormatter(opts)
	case FormatDmenu:
		return NewDmenuFormatter(opts), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatYAML:
		return NewYAMLFormatter(), nil
	case FormatIDs:
		return NewIDsFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want one of %s)", format, formatNames())
	}
}

func formatNames() string {
	names := make([]string, 0, len(ValidFormats()))
	for _, f := range ValidFormats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template   string // Custom text/template for plain output
	ShowIndex  bool   // Show 1-based index prefix
	ShowColor  bool   // Show the hex color
	Styled     bool   // Render the message in its own color (terminals only)
	MessageMax int    // Maximum message length (0 = unlimited)
	Separator  string // Field separator for dmenu format
}

// DefaultFormatterOptions returns sensible defaults for terminal output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex: true,
		ShowColor: true,
		Separator: " | ",
	}
}

// Record is the serialized form of an active notification.
type Record struct {
	Index     int       `json:"index" yaml:"index"`
	ID        string    `json:"id" yaml:"id"`
	Message   string    `json:"message" yaml:"message"`
	Color     string    `json:"color" yaml:"color"`
	Permanent bool      `json:"permanent" yaml:"permanent"`
	Remaining float64   `json:"remaining_seconds" yaml:"remaining_seconds"` // 0 when permanent
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewRecord converts the notification at 1-based index.
func NewRecord(index int, n model.Notification) Record {
	r := Record{
		Index:     index,
		ID:        n.ID,
		Message:   n.Message,
		Color:     n.Color.Hex(),
		Permanent: n.Permanent,
		CreatedAt: n.CreatedAt,
	}
	if !n.Permanent {
		r.Remaining = n.Remaining.Seconds()
	}
	return r
}

// Records converts notifications in order.
func Records(notifications []model.Notification) []Record {
	records := make([]Record, len(notifications))
	for i, n := range notifications {
		records[i] = NewRecord(i+1, n)
	}
	return records
}

// truncate shortens s to maxLen runes.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if maxLen <= 0 || len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// singleLine joins a multi-line message for one-line output.
func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\n", " ")), " ")
}
