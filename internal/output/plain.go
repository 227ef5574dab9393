package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/hud/internal/model"
)

// PlainFormatter formats notifications as human readable text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter. An invalid
// template is an error.
func NewPlainFormatter(opts FormatterOptions) (*PlainFormatter, error) {
	f := &PlainFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template: %w", err)
		}
		f.template = tmpl
	}

	return f, nil
}

// Format writes notifications as plain text, one per line.
func (f *PlainFormatter) Format(w io.Writer, notifications []model.Notification) error {
	for i, n := range notifications {
		if err := f.formatNotification(w, i+1, n); err != nil {
			return err
		}
	}
	return nil
}

func (f *PlainFormatter) formatNotification(w io.Writer, index int, n model.Notification) error {
	if f.template != nil {
		if err := f.template.Execute(w, NewRecord(index, n)); err != nil {
			return fmt.Errorf("failed to execute template: %w", err)
		}
		_, err := io.WriteString(w, "\n")
		return err
	}

	var sb strings.Builder

	if f.opts.ShowIndex {
		sb.WriteString(fmt.Sprintf("[%d] ", index))
	}

	message := truncate(singleLine(n.Message), f.opts.MessageMax)
	if f.opts.Styled {
		message = lipgloss.NewStyle().
			Foreground(lipgloss.Color(n.Color.Hex())).
			Bold(true).
			Render(message)
	}
	sb.WriteString(message)

	var meta []string
	if f.opts.ShowColor {
		meta = append(meta, n.Color.Hex())
	}
	meta = append(meta, lifetime(n, time.Now()))
	sb.WriteString(" (" + strings.Join(meta, ", ") + ")\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// lifetime describes how long n stays on screen.
func lifetime(n model.Notification, now time.Time) string {
	if n.Permanent {
		return "permanent, sent " + humanize.RelTime(n.CreatedAt, now, "ago", "from now")
	}
	return "expires " + humanize.RelTime(n.ExpiresAt(now), now, "ago", "from now")
}

// templateFuncs returns template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": func(s string, maxLen int) string {
			return truncate(s, maxLen)
		},
		"oneline": singleLine,
		"reltime": func(t time.Time) string {
			return humanize.Time(t)
		},
		"seconds": func(f float64) string {
			return fmt.Sprintf("%.1fs", f)
		},
	}
}
