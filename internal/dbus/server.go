package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

const (
	// NotificationsInterface is the notification interface name.
	NotificationsInterface = "org.freedesktop.Notifications"
	// NotificationsPath is the notification object path.
	NotificationsPath = "/org/freedesktop/Notifications"
	// NotificationsBusName is the bus name to claim.
	NotificationsBusName = "org.freedesktop.Notifications"
)

// NotifyHandler is called for every incoming Notify request with the
// decoded notification. It returns the id to report back to the sender
// (0 when the notification was merged into an existing one).
type NotifyHandler func(w *WireNotification) uint32

// CloseHandler is called when CloseNotification is requested.
type CloseHandler func(id uint32)

// Server implements the org.freedesktop.Notifications D-Bus interface on
// top of the queue engine.
type Server struct {
	logger *slog.Logger

	mu         sync.Mutex
	conn       *dbus.Conn
	running    bool
	serverInfo ServerInfo

	notifyHandler NotifyHandler
	closeHandler  CloseHandler
}

// NewServer creates a new Server.
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:     logger,
		serverInfo: DefaultServerInfo(),
	}
}

// SetNotifyHandler sets the handler called when a notification is received.
func (s *Server) SetNotifyHandler(handler NotifyHandler) {
	s.notifyHandler = handler
}

// SetCloseHandler sets the handler called when CloseNotification is requested.
func (s *Server) SetCloseHandler(handler CloseHandler) {
	s.closeHandler = handler
}

// SetServerInfo sets the server information returned by GetServerInformation.
func (s *Server) SetServerInfo(info ServerInfo) {
	s.serverInfo = info
}

// Start connects to the session bus and claims the notification service.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server already running")
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	s.conn = conn

	if err := conn.Export(s, NotificationsPath, NotificationsInterface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: NotificationsPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    NotificationsInterface,
				Methods: notificationMethods(),
				Signals: notificationSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), NotificationsPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(NotificationsBusName, dbus.NameFlagDoNotQueue|dbus.NameFlagReplaceExisting)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", NotificationsBusName)
	}

	s.running = true
	s.logger.Info("D-Bus notification server started",
		"interface", NotificationsInterface, "path", NotificationsPath)
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
		if _, err := s.conn.ReleaseName(NotificationsBusName); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
		// Don't close the connection as it's shared (SessionBus)
	}

	s.logger.Info("D-Bus notification server stopped")
	return nil
}

// Connection returns the underlying D-Bus connection, for exporting
// additional objects on the same bus. nil before Start.
func (s *Server) Connection() *dbus.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// GetCapabilities returns the list of capabilities supported by this server.
// D-Bus method: GetCapabilities() -> as
func (s *Server) GetCapabilities() ([]string, *dbus.Error) {
	s.logger.Debug("GetCapabilities called")
	return ServerCapabilities, nil
}

// GetServerInformation returns information about the notification server.
// D-Bus method: GetServerInformation() -> (ssss)
func (s *Server) GetServerInformation() (string, string, string, string, *dbus.Error) {
	s.logger.Debug("GetServerInformation called")
	return s.serverInfo.Name, s.serverInfo.Vendor, s.serverInfo.Version, s.serverInfo.SpecVersion, nil
}

// Notify handles incoming notification requests.
// D-Bus method: Notify(susssasa{sv}i) -> u
func (s *Server) Notify(
	appName string,
	replacesID uint32,
	appIcon string,
	summary string,
	body string,
	actions []string,
	hints map[string]dbus.Variant,
	expireTimeout int32,
) (uint32, *dbus.Error) {
	s.logger.Debug("Notify called",
		"app_name", appName,
		"replaces_id", replacesID,
		"summary", summary,
	)

	w := &WireNotification{
		AppName:       appName,
		ReplacesID:    replacesID,
		AppIcon:       appIcon,
		Summary:       summary,
		Body:          body,
		Actions:       actions,
		Hints:         hints,
		ExpireTimeout: expireTimeout,
	}

	if s.notifyHandler == nil {
		return 0, dbus.MakeFailedError(fmt.Errorf("no notification handler attached"))
	}
	return s.notifyHandler(w), nil
}

// CloseNotification closes a notification by ID.
// D-Bus method: CloseNotification(u) -> nothing
func (s *Server) CloseNotification(id uint32) *dbus.Error {
	s.logger.Debug("CloseNotification called", "id", id)

	if s.closeHandler != nil {
		s.closeHandler(id)
	}
	return nil
}

// notificationMethods returns the D-Bus method introspection data.
func notificationMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "GetCapabilities",
			Args: []introspect.Arg{
				{Name: "capabilities", Type: "as", Direction: "out"},
			},
		},
		{
			Name: "GetServerInformation",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "out"},
				{Name: "vendor", Type: "s", Direction: "out"},
				{Name: "version", Type: "s", Direction: "out"},
				{Name: "spec_version", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "Notify",
			Args: []introspect.Arg{
				{Name: "app_name", Type: "s", Direction: "in"},
				{Name: "replaces_id", Type: "u", Direction: "in"},
				{Name: "app_icon", Type: "s", Direction: "in"},
				{Name: "summary", Type: "s", Direction: "in"},
				{Name: "body", Type: "s", Direction: "in"},
				{Name: "actions", Type: "as", Direction: "in"},
				{Name: "hints", Type: "a{sv}", Direction: "in"},
				{Name: "expire_timeout", Type: "i", Direction: "in"},
				{Name: "id", Type: "u", Direction: "out"},
			},
		},
		{
			Name: "CloseNotification",
			Args: []introspect.Arg{
				{Name: "id", Type: "u", Direction: "in"},
			},
		},
	}
}

// notificationSignals returns the D-Bus signal introspection data.
func notificationSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "NotificationClosed",
			Args: []introspect.Arg{
				{Name: "id", Type: "u"},
				{Name: "reason", Type: "u"},
			},
		},
		{
			Name: "ActionInvoked",
			Args: []introspect.Arg{
				{Name: "id", Type: "u"},
				{Name: "action_key", Type: "s"},
			},
		},
	}
}
