package dbus

import (
	"math"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/hud/internal/model"
)

// Item is the wire form of an active notification, signature (ssdbx).
type Item struct {
	ID        string
	Message   string
	Color     string  // Hex color, e.g. "#ff0000"
	Remaining float64 // Seconds until expiry, 0 when permanent
	Permanent bool
	Created   int64 // Unix seconds
}

// ItemFromNotification converts a notification to its wire form.
func ItemFromNotification(n model.Notification) Item {
	item := Item{
		ID:        n.ID,
		Message:   n.Message,
		Color:     n.Color.Hex(),
		Permanent: n.Permanent,
		Created:   n.CreatedAt.Unix(),
	}
	if !n.Permanent {
		item.Remaining = n.Remaining.Seconds()
	}
	return item
}

// Notification converts the wire form back into a notification.
// An unparseable color falls back to the default color.
func (i Item) Notification() model.Notification {
	color, err := model.ParseColor(i.Color)
	if err != nil {
		color = model.DefaultColor
	}
	n := model.Notification{
		ID:        i.ID,
		Message:   i.Message,
		Color:     color,
		Permanent: i.Permanent,
		CreatedAt: time.Unix(i.Created, 0),
	}
	if !i.Permanent {
		n.Remaining = secondsToDuration(i.Remaining)
	}
	return n
}

// maxMillis is the largest millisecond count a time.Duration can hold.
const maxMillis = math.MaxInt64 / int64(time.Millisecond)

// MaxSeconds is the longest timed duration accepted on the wire. Longer
// requests are treated as permanent.
const MaxSeconds = float64(maxMillis) / 1000

// secondsToDuration converts fractional seconds to a duration, rounded to
// the nearest millisecond. NaN and negative values give zero; values past
// MaxSeconds saturate.
func secondsToDuration(seconds float64) time.Duration {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	ms := math.Round(seconds * 1000)
	if ms >= float64(maxMillis) {
		return time.Duration(maxMillis) * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}

// Urgency levels defined by the freedesktop.org notification specification.
const (
	UrgencyLow      = 0
	UrgencyNormal   = 1
	UrgencyCritical = 2
)

// DesktopNotification represents an observed org.freedesktop.Notifications
// Notify call.
type DesktopNotification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string // Alternating key, label pairs
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

// Urgency extracts the urgency hint from the notification.
// Returns UrgencyNormal if not specified.
func (n *DesktopNotification) Urgency() int {
	if v, ok := n.Hints["urgency"]; ok {
		if b, ok := v.Value().(byte); ok {
			return int(b)
		}
	}
	return UrgencyNormal
}

// Transient returns true if the transient hint is set.
func (n *DesktopNotification) Transient() bool {
	if v, ok := n.Hints["transient"]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

// HighlightColor extracts the highlight color hint (dunstify -h string:hlcolor:#RRGGBB).
func (n *DesktopNotification) HighlightColor() string {
	return n.stringHint("hlcolor")
}

// ForegroundColor extracts the foreground color hint (dunstify -h string:fgcolor:#RRGGBB).
func (n *DesktopNotification) ForegroundColor() string {
	return n.stringHint("fgcolor")
}

// Text returns the single line shown on the overlay: "app: summary - body",
// omitting empty parts.
func (n *DesktopNotification) Text() string {
	text := n.Summary
	if n.Body != "" {
		if text != "" {
			text += " - "
		}
		text += n.Body
	}
	if n.AppName != "" && text != "" {
		text = n.AppName + ": " + text
	}
	return text
}

// Timeout returns the requested display time. ok is false when the sender
// asked for the server default.
func (n *DesktopNotification) Timeout() (d time.Duration, ok bool) {
	if n.ExpireTimeout < 0 {
		return 0, false
	}
	return time.Duration(n.ExpireTimeout) * time.Millisecond, true
}

func (n *DesktopNotification) stringHint(key string) string {
	if v, ok := n.Hints[key]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}
