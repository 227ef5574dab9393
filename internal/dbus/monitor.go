package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	desktopInterface = "org.freedesktop.Notifications"
	desktopMember    = "Notify"
)

// DesktopHandler is called for each observed desktop notification.
type DesktopHandler func(n *DesktopNotification)

// Monitor passively observes org.freedesktop.Notifications traffic without
// claiming ownership, so hudd can mirror desktop notifications while another
// notification daemon keeps running.
type Monitor struct {
	mu     sync.Mutex
	conn   *dbus.Conn
	logger *slog.Logger

	onNotify DesktopHandler
}

// NewMonitor creates a new notification monitor.
func NewMonitor(logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		logger: logger,
	}
}

// SetNotifyHandler sets the callback for observed notifications.
func (m *Monitor) SetNotifyHandler(handler DesktopHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onNotify = handler
}

// Start begins monitoring the session bus.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != nil {
		return nil
	}

	// A monitoring connection can do nothing else, so it must be private.
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	rules := []string{
		fmt.Sprintf("type='method_call',interface='%s',member='%s'", desktopInterface, desktopMember),
	}

	err = conn.BusObject().Call(
		"org.freedesktop.DBus.Monitoring.BecomeMonitor",
		0,
		rules,
		uint32(0),
	).Err
	if err != nil {
		// BecomeMonitor might not be available (older D-Bus versions)
		m.logger.Warn("BecomeMonitor not available, trying AddMatch", "error", err)
		if err := startWithAddMatch(conn); err != nil {
			conn.Close()
			return err
		}
		m.logger.Info("started D-Bus monitor using AddMatch with eavesdrop")
	} else {
		m.logger.Info("started D-Bus monitor using BecomeMonitor")
	}

	m.conn = conn
	go m.processMessages(conn)
	return nil
}

// startWithAddMatch uses the older AddMatch API for eavesdropping.
func startWithAddMatch(conn *dbus.Conn) error {
	matchRule := fmt.Sprintf("type='method_call',interface='%s',member='%s',eavesdrop='true'",
		desktopInterface, desktopMember)

	err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, matchRule).Err
	if err != nil {
		return fmt.Errorf("failed to add match rule (eavesdrop may require permissions): %w", err)
	}
	return nil
}

// processMessages reads messages until the connection closes.
func (m *Monitor) processMessages(conn *dbus.Conn) {
	ch := make(chan *dbus.Message, 100)
	conn.Eavesdrop(ch)

	for msg := range ch {
		m.HandleMessage(msg)
	}
}

// HandleMessage parses a Notify method call and invokes the handler.
// Other messages are ignored.
func (m *Monitor) HandleMessage(msg *dbus.Message) {
	if msg.Type != dbus.TypeMethodCall {
		return
	}
	if iface, ok := msg.Headers[dbus.FieldInterface]; !ok || iface.Value() != desktopInterface {
		return
	}
	if member, ok := msg.Headers[dbus.FieldMember]; !ok || member.Value() != desktopMember {
		return
	}

	n, err := parseNotify(msg.Body)
	if err != nil {
		m.logger.Warn("malformed Notify call", "error", err)
		return
	}

	m.logger.Debug("captured notification", "app", n.AppName, "summary", n.Summary)

	m.mu.Lock()
	handler := m.onNotify
	m.mu.Unlock()
	if handler != nil {
		handler(n)
	}
}

// parseNotify decodes Notify(susssasa{sv}i) arguments.
func parseNotify(body []any) (*DesktopNotification, error) {
	if len(body) < 8 {
		return nil, fmt.Errorf("expected 8 arguments, got %d", len(body))
	}

	n := &DesktopNotification{}
	var ok bool
	if n.AppName, ok = body[0].(string); !ok {
		return nil, fmt.Errorf("invalid app_name type %T", body[0])
	}
	if n.ReplacesID, ok = body[1].(uint32); !ok {
		return nil, fmt.Errorf("invalid replaces_id type %T", body[1])
	}
	if n.AppIcon, ok = body[2].(string); !ok {
		return nil, fmt.Errorf("invalid app_icon type %T", body[2])
	}
	if n.Summary, ok = body[3].(string); !ok {
		return nil, fmt.Errorf("invalid summary type %T", body[3])
	}
	if n.Body, ok = body[4].(string); !ok {
		return nil, fmt.Errorf("invalid body type %T", body[4])
	}

	if actions, ok := body[5].([]string); ok {
		n.Actions = actions
	}
	if hints, ok := body[6].(map[string]dbus.Variant); ok {
		n.Hints = hints
	}
	if timeout, ok := body[7].(int32); ok {
		n.ExpireTimeout = timeout
	}
	return n, nil
}

// Stop stops the monitor.
func (m *Monitor) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		return nil
	}
	err := m.conn.Close()
	m.conn = nil
	return err
}
