package dbus

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/hud/internal/model"
)

const (
	// Interface is the overlay interface name.
	Interface = "io.github.jmylchreest.Hud"
	// Path is the overlay object path.
	Path = "/io/github/jmylchreest/Hud"
	// BusName is the bus name to claim.
	BusName = "io.github.jmylchreest.Hud"
)

// Service is the overlay API exposed over D-Bus.
type Service interface {
	Send(message string, color model.Color, duration time.Duration) model.Notification
	SendPermanent(message string, color model.Color) model.Notification
	ClearAll()
	ClearOldest()
	ClearNewest()
	Count() int
	HasNotifications() bool
	Get(id string) (model.Notification, bool)
	List() []model.Notification
	DefaultColor() model.Color
	DefaultDuration() time.Duration
}

// Server exports a Service on the session bus.
type Server struct {
	conn    *dbus.Conn
	logger  *slog.Logger
	service Service

	mu      sync.RWMutex
	running bool
}

// NewServer creates a Server for service.
func NewServer(service Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:  logger,
		service: service,
	}
}

// Start connects to the session bus and exports the overlay service.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.mu.Unlock()

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	if err := s.export(conn); err != nil {
		return err
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken (is hudd already running?)", BusName)
	}

	s.mu.Lock()
	s.conn = conn
	s.running = true
	s.mu.Unlock()

	s.logger.Info("D-Bus server started", "interface", Interface, "path", Path)
	return nil
}

// export registers the method table and introspection data on conn.
func (s *Server) export(conn *dbus.Conn) error {
	if err := conn.Export(s, Path, Interface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: Path,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    Interface,
				Methods: hudMethods(),
				Signals: hudSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), Path,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}
	return nil
}

// Stop releases the bus name.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.conn != nil {
		if _, err := s.conn.ReleaseName(BusName); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
		// The session bus connection is shared, leave it open
	}

	s.logger.Info("D-Bus server stopped")
	return nil
}

// Send adds a notification.
// An empty color uses the default color. Negative or NaN seconds use the
// default duration; zero, or anything from MaxSeconds up, makes the
// notification permanent.
// D-Bus method: Send(ssd) -> s
func (s *Server) Send(message, color string, seconds float64) (string, *dbus.Error) {
	c, derr := s.parseColor(color)
	if derr != nil {
		return "", derr
	}

	var duration time.Duration
	switch {
	case math.IsNaN(seconds) || seconds < 0:
		duration = s.service.DefaultDuration()
	case seconds == 0, seconds >= MaxSeconds:
		duration = 0
	default:
		duration = secondsToDuration(seconds)
		if duration == 0 {
			// Sub-millisecond requests still expire on the next tick.
			duration = time.Millisecond
		}
	}

	n := s.service.Send(message, c, duration)
	s.logger.Debug("Send called", "id", n.ID, "seconds", seconds)
	return n.ID, nil
}

// SendPermanent adds a notification that never expires.
// D-Bus method: SendPermanent(ss) -> s
func (s *Server) SendPermanent(message, color string) (string, *dbus.Error) {
	c, derr := s.parseColor(color)
	if derr != nil {
		return "", derr
	}

	n := s.service.SendPermanent(message, c)
	s.logger.Debug("SendPermanent called", "id", n.ID)
	return n.ID, nil
}

// ClearAll removes every notification.
// D-Bus method: ClearAll()
func (s *Server) ClearAll() *dbus.Error {
	s.service.ClearAll()
	return nil
}

// ClearOldest removes the oldest notification.
// D-Bus method: ClearOldest()
func (s *Server) ClearOldest() *dbus.Error {
	s.service.ClearOldest()
	return nil
}

// ClearNewest removes the newest notification.
// D-Bus method: ClearNewest()
func (s *Server) ClearNewest() *dbus.Error {
	s.service.ClearNewest()
	return nil
}

// GetCount returns the number of active notifications.
// D-Bus method: GetCount() -> u
func (s *Server) GetCount() (uint32, *dbus.Error) {
	return uint32(s.service.Count()), nil
}

// HasNotifications reports whether anything is displayed.
// D-Bus method: HasNotifications() -> b
func (s *Server) HasNotifications() (bool, *dbus.Error) {
	return s.service.HasNotifications(), nil
}

// Get returns the active notification with the given ID. found is false when
// it has expired or was cleared.
// D-Bus method: Get(s) -> (ssdbx), b
func (s *Server) Get(id string) (Item, bool, *dbus.Error) {
	n, ok := s.service.Get(id)
	if !ok {
		return Item{}, false, nil
	}
	return ItemFromNotification(n), true, nil
}

// List returns the active notifications, oldest first.
// D-Bus method: List() -> a(ssdbx)
func (s *Server) List() ([]Item, *dbus.Error) {
	notifications := s.service.List()
	items := make([]Item, len(notifications))
	for i, n := range notifications {
		items[i] = ItemFromNotification(n)
	}
	return items, nil
}

func (s *Server) parseColor(color string) (model.Color, *dbus.Error) {
	if color == "" {
		return s.service.DefaultColor(), nil
	}
	c, err := model.ParseColor(color)
	if err != nil {
		return model.Color{}, dbus.MakeFailedError(err)
	}
	return c, nil
}

// hudMethods returns the D-Bus method introspection data.
func hudMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "Send",
			Args: []introspect.Arg{
				{Name: "message", Type: "s", Direction: "in"},
				{Name: "color", Type: "s", Direction: "in"},
				{Name: "seconds", Type: "d", Direction: "in"},
				{Name: "id", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "SendPermanent",
			Args: []introspect.Arg{
				{Name: "message", Type: "s", Direction: "in"},
				{Name: "color", Type: "s", Direction: "in"},
				{Name: "id", Type: "s", Direction: "out"},
			},
		},
		{Name: "ClearAll"},
		{Name: "ClearOldest"},
		{Name: "ClearNewest"},
		{
			Name: "GetCount",
			Args: []introspect.Arg{
				{Name: "count", Type: "u", Direction: "out"},
			},
		},
		{
			Name: "HasNotifications",
			Args: []introspect.Arg{
				{Name: "active", Type: "b", Direction: "out"},
			},
		},
		{
			Name: "Get",
			Args: []introspect.Arg{
				{Name: "id", Type: "s", Direction: "in"},
				{Name: "item", Type: "(ssdbx)", Direction: "out"},
				{Name: "found", Type: "b", Direction: "out"},
			},
		},
		{
			Name: "List",
			Args: []introspect.Arg{
				{Name: "items", Type: "a(ssdbx)", Direction: "out"},
			},
		},
	}
}

// hudSignals returns the D-Bus signal introspection data.
func hudSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "Changed",
			Args: []introspect.Arg{
				{Name: "count", Type: "u"},
			},
		},
		{
			Name: "Expired",
			Args: []introspect.Arg{
				{Name: "id", Type: "s"},
				{Name: "message", Type: "s"},
			},
		},
	}
}
