package dbus

import (
	"math"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/hud/internal/model"
)

func TestItemFromNotification(t *testing.T) {
	n := model.NewNotification("hello", model.Red, 1500*time.Millisecond)

	item := ItemFromNotification(n)
	assert.Equal(t, n.ID, item.ID)
	assert.Equal(t, "hello", item.Message)
	assert.Equal(t, "#ff0000", item.Color)
	assert.InDelta(t, 1.5, item.Remaining, 0.0001)
	assert.False(t, item.Permanent)
	assert.Equal(t, n.CreatedAt.Unix(), item.Created)

	pinned := ItemFromNotification(model.NewNotification("pinned", model.Blue, 0))
	assert.True(t, pinned.Permanent)
	assert.Zero(t, pinned.Remaining)
}

func TestItem_Notification(t *testing.T) {
	item := Item{
		ID:        "01HZX",
		Message:   "hi",
		Color:     "#00ff00",
		Remaining: 2.25,
		Created:   1700000000,
	}

	n := item.Notification()
	assert.Equal(t, "01HZX", n.ID)
	assert.Equal(t, model.Green, n.Color)
	assert.Equal(t, 2250*time.Millisecond, n.Remaining)
	assert.Equal(t, int64(1700000000), n.CreatedAt.Unix())

	item.Color = "not-a-color"
	assert.Equal(t, model.DefaultColor, item.Notification().Color)
}

func TestUrgency(t *testing.T) {
	tests := []struct {
		name     string
		hints    map[string]dbus.Variant
		expected int
	}{
		{
			name:     "no hint",
			hints:    nil,
			expected: UrgencyNormal,
		},
		{
			name:     "low urgency",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(0))},
			expected: UrgencyLow,
		},
		{
			name:     "critical urgency",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(2))},
			expected: UrgencyCritical,
		},
		{
			name:     "wrong type returns normal",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant("high")},
			expected: UrgencyNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &DesktopNotification{Hints: tt.hints}
			assert.Equal(t, tt.expected, n.Urgency())
		})
	}
}

func TestTransient(t *testing.T) {
	n := &DesktopNotification{
		Hints: map[string]dbus.Variant{"transient": dbus.MakeVariant(true)},
	}
	assert.True(t, n.Transient())

	n.Hints = nil
	assert.False(t, n.Transient())
}

func TestColorHints(t *testing.T) {
	n := &DesktopNotification{
		Hints: map[string]dbus.Variant{
			"hlcolor": dbus.MakeVariant("#ff0000"),
			"fgcolor": dbus.MakeVariant("#00ff00"),
		},
	}
	assert.Equal(t, "#ff0000", n.HighlightColor())
	assert.Equal(t, "#00ff00", n.ForegroundColor())

	n.Hints = map[string]dbus.Variant{"hlcolor": dbus.MakeVariant(42)}
	assert.Equal(t, "", n.HighlightColor())
}

func TestDesktopNotification_Text(t *testing.T) {
	tests := []struct {
		name     string
		n        DesktopNotification
		expected string
	}{
		{"full", DesktopNotification{AppName: "mail", Summary: "New", Body: "3 unread"}, "mail: New - 3 unread"},
		{"no body", DesktopNotification{AppName: "mail", Summary: "New"}, "mail: New"},
		{"no app", DesktopNotification{Summary: "New", Body: "3 unread"}, "New - 3 unread"},
		{"body only", DesktopNotification{Body: "3 unread"}, "3 unread"},
		{"empty", DesktopNotification{AppName: "mail"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.n.Text())
		})
	}
}

func TestDesktopNotification_Timeout(t *testing.T) {
	n := &DesktopNotification{ExpireTimeout: -1}
	_, ok := n.Timeout()
	assert.False(t, ok)

	n.ExpireTimeout = 0
	d, ok := n.Timeout()
	require.True(t, ok)
	assert.Zero(t, d)

	n.ExpireTimeout = 2500
	d, ok = n.Timeout()
	require.True(t, ok)
	assert.Equal(t, 2500*time.Millisecond, d)
}

func TestSecondsToDuration(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    time.Duration
	}{
		{"whole", 2, 2 * time.Second},
		{"rounds to millisecond", 1.2344, 1234 * time.Millisecond},
		{"rounds half up", 0.0005, time.Millisecond},
		{"zero", 0, 0},
		{"negative", -5, 0},
		{"NaN", math.NaN(), 0},
		{"saturates", 1e13, time.Duration(maxMillis) * time.Millisecond},
		{"infinity saturates", math.Inf(1), time.Duration(maxMillis) * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, secondsToDuration(tt.seconds))
		})
	}
}
