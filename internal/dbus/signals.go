package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// ErrNotConnected is returned when emitting before Start.
var ErrNotConnected = fmt.Errorf("not connected to D-Bus")

// EmitChanged emits the Changed signal with the new notification count.
func (s *Server) EmitChanged(count int) error {
	conn := s.Connection()
	if conn == nil {
		return ErrNotConnected
	}

	if err := conn.Emit(Path, Interface+".Changed", uint32(count)); err != nil {
		return fmt.Errorf("failed to emit Changed signal: %w", err)
	}

	s.logger.Debug("emitted Changed signal", "count", count)
	return nil
}

// EmitExpired emits the Expired signal for a notification that timed out.
func (s *Server) EmitExpired(id, message string) error {
	conn := s.Connection()
	if conn == nil {
		return ErrNotConnected
	}

	if err := conn.Emit(Path, Interface+".Expired", id, message); err != nil {
		return fmt.Errorf("failed to emit Expired signal: %w", err)
	}

	s.logger.Debug("emitted Expired signal", "id", id)
	return nil
}

// Connection returns the underlying D-Bus connection, nil before Start.
func (s *Server) Connection() *dbus.Conn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn
}
