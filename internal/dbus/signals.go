package dbus

import (
	"fmt"

	"github.com/jmylchreest/notiq/internal/queue"
)

// NotificationClosed implements queue.Signaler: every close the engine
// performs is forwarded to the bus as a NotificationClosed signal with
// the reason mapped to its wire value.
func (s *Server) NotificationClosed(id uint32, reason queue.CloseReason) {
	if err := s.EmitNotificationClosed(id, reason); err != nil {
		s.logger.Warn("failed to emit NotificationClosed signal", "id", id, "error", err)
	}
}

// EmitNotificationClosed emits the NotificationClosed signal.
func (s *Server) EmitNotificationClosed(id uint32, reason queue.CloseReason) error {
	conn := s.Connection()
	if conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	err := conn.Emit(NotificationsPath, NotificationsInterface+".NotificationClosed", id, WireReason(reason))
	if err != nil {
		return fmt.Errorf("failed to emit NotificationClosed signal: %w", err)
	}

	s.logger.Debug("emitted NotificationClosed signal", "id", id, "reason", reason.String())
	return nil
}

// EmitActionInvoked emits the ActionInvoked signal.
func (s *Server) EmitActionInvoked(id uint32, actionKey string) error {
	conn := s.Connection()
	if conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	err := conn.Emit(NotificationsPath, NotificationsInterface+".ActionInvoked", id, actionKey)
	if err != nil {
		return fmt.Errorf("failed to emit ActionInvoked signal: %w", err)
	}

	s.logger.Debug("emitted ActionInvoked signal", "id", id, "action_key", actionKey)
	return nil
}
