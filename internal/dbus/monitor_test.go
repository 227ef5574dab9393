package dbus

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notifyMessage(body ...any) *dbus.Message {
	return &dbus.Message{
		Type: dbus.TypeMethodCall,
		Headers: map[dbus.HeaderField]dbus.Variant{
			dbus.FieldInterface: dbus.MakeVariant(desktopInterface),
			dbus.FieldMember:    dbus.MakeVariant(desktopMember),
		},
		Body: body,
	}
}

func TestMonitor_HandleMessage(t *testing.T) {
	m := NewMonitor(nil)

	var got []*DesktopNotification
	m.SetNotifyHandler(func(n *DesktopNotification) {
		got = append(got, n)
	})

	m.HandleMessage(notifyMessage(
		"mail", uint32(0), "mail-icon", "New mail", "from bob",
		[]string{"default", "Open"},
		map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(2))},
		int32(3000),
	))

	require.Len(t, got, 1)
	n := got[0]
	assert.Equal(t, "mail", n.AppName)
	assert.Equal(t, "New mail", n.Summary)
	assert.Equal(t, "from bob", n.Body)
	assert.Equal(t, []string{"default", "Open"}, n.Actions)
	assert.Equal(t, UrgencyCritical, n.Urgency())
	assert.Equal(t, int32(3000), n.ExpireTimeout)
}

func TestMonitor_IgnoresOtherTraffic(t *testing.T) {
	m := NewMonitor(nil)

	calls := 0
	m.SetNotifyHandler(func(*DesktopNotification) { calls++ })

	signal := notifyMessage()
	signal.Type = dbus.TypeSignal
	m.HandleMessage(signal)

	other := notifyMessage()
	other.Headers[dbus.FieldMember] = dbus.MakeVariant("CloseNotification")
	m.HandleMessage(other)

	// Malformed Notify call
	m.HandleMessage(notifyMessage("mail", "not-a-uint"))

	assert.Equal(t, 0, calls)
}

func TestParseNotify_TypeErrors(t *testing.T) {
	valid := []any{"app", uint32(1), "icon", "summary", "body", []string{}, map[string]dbus.Variant{}, int32(-1)}

	n, err := parseNotify(valid)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), n.ReplacesID)
	assert.Equal(t, int32(-1), n.ExpireTimeout)

	for i := range 5 {
		bad := append([]any(nil), valid...)
		bad[i] = 3.14
		_, err := parseNotify(bad)
		assert.Error(t, err, "argument %d", i)
	}

	_, err = parseNotify(valid[:7])
	assert.Error(t, err)
}

func TestMonitor_StopWithoutStart(t *testing.T) {
	assert.NoError(t, NewMonitor(nil).Stop())
}
