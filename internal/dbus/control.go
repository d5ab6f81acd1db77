package dbus

import (
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

const (
	// ControlInterface is the notiq control interface name.
	ControlInterface = "io.github.jmylchreest.notiq.Control"
	// ControlPath is the control object path.
	ControlPath = "/io/github/jmylchreest/notiq"
)

// Controller is the daemon-side surface the control interface drives.
// All calls are marshaled onto the daemon's event loop by the
// implementation.
type Controller interface {
	Pause()
	Unpause()
	Paused() bool
	HistoryPop()
	HistoryClear()
	CloseAll()
	Counts() (waiting, displayed, history int)
}

// Control exports the notiq control interface on an existing bus
// connection, letting notiqctl drive the pause gate and the history
// queue of a running daemon.
type Control struct {
	logger     *slog.Logger
	controller Controller
}

// NewControl creates a Control driving the given controller.
func NewControl(controller Controller, logger *slog.Logger) *Control {
	if logger == nil {
		logger = slog.Default()
	}
	return &Control{logger: logger, controller: controller}
}

// Export exports the control object on the given connection, normally
// the one already holding the notification bus name.
func (c *Control) Export(conn *dbus.Conn) error {
	if err := conn.Export(c, ControlPath, ControlInterface); err != nil {
		return fmt.Errorf("failed to export control object: %w", err)
	}

	node := &introspect.Node{
		Name: ControlPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    ControlInterface,
				Methods: controlMethods(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), ControlPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export control introspectable: %w", err)
	}

	c.logger.Info("control interface exported", "interface", ControlInterface, "path", ControlPath)
	return nil
}

// Pause stops the promotion of waiting notifications.
// D-Bus method: Pause() -> nothing
func (c *Control) Pause() *dbus.Error {
	c.logger.Debug("control Pause called")
	c.controller.Pause()
	return nil
}

// Unpause resumes the promotion of waiting notifications.
// D-Bus method: Unpause() -> nothing
func (c *Control) Unpause() *dbus.Error {
	c.logger.Debug("control Unpause called")
	c.controller.Unpause()
	return nil
}

// TogglePause flips the pause gate and returns the new state.
// D-Bus method: TogglePause() -> b
func (c *Control) TogglePause() (bool, *dbus.Error) {
	c.logger.Debug("control TogglePause called")
	if c.controller.Paused() {
		c.controller.Unpause()
	} else {
		c.controller.Pause()
	}
	return c.controller.Paused(), nil
}

// PauseStatus returns whether queue management is paused.
// D-Bus method: PauseStatus() -> b
func (c *Control) PauseStatus() (bool, *dbus.Error) {
	return c.controller.Paused(), nil
}

// HistoryPop restores the most recently archived notification.
// D-Bus method: HistoryPop() -> nothing
func (c *Control) HistoryPop() *dbus.Error {
	c.logger.Debug("control HistoryPop called")
	c.controller.HistoryPop()
	return nil
}

// HistoryClear drops every archived notification.
// D-Bus method: HistoryClear() -> nothing
func (c *Control) HistoryClear() *dbus.Error {
	c.logger.Debug("control HistoryClear called")
	c.controller.HistoryClear()
	return nil
}

// CloseAll moves every waiting and displayed notification to history.
// D-Bus method: CloseAll() -> nothing
func (c *Control) CloseAll() *dbus.Error {
	c.logger.Debug("control CloseAll called")
	c.controller.CloseAll()
	return nil
}

// Status returns the pause state and the three queue lengths.
// D-Bus method: Status() -> (buuu)
func (c *Control) Status() (bool, uint32, uint32, uint32, *dbus.Error) {
	waiting, displayed, history := c.controller.Counts()
	return c.controller.Paused(), uint32(waiting), uint32(displayed), uint32(history), nil
}

// controlMethods returns the control interface introspection data.
func controlMethods() []introspect.Method {
	return []introspect.Method{
		{Name: "Pause"},
		{Name: "Unpause"},
		{Name: "TogglePause", Args: []introspect.Arg{
			{Name: "paused", Type: "b", Direction: "out"},
		}},
		{Name: "PauseStatus", Args: []introspect.Arg{
			{Name: "paused", Type: "b", Direction: "out"},
		}},
		{Name: "HistoryPop"},
		{Name: "HistoryClear"},
		{Name: "CloseAll"},
		{Name: "Status", Args: []introspect.Arg{
			{Name: "paused", Type: "b", Direction: "out"},
			{Name: "waiting", Type: "u", Direction: "out"},
			{Name: "displayed", Type: "u", Direction: "out"},
			{Name: "history", Type: "u", Direction: "out"},
		}},
	}
}
