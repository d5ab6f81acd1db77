package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Status is a snapshot of a running daemon's queue state.
type Status struct {
	Paused    bool   `yaml:"paused"`
	Waiting   uint32 `yaml:"waiting"`
	Displayed uint32 `yaml:"displayed"`
	History   uint32 `yaml:"history"`
}

// Client talks to a running notiqd over its control interface.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewClient connects to the session bus and binds the control object.
func NewClient() (*Client, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{
		conn: conn,
		obj:  conn.Object(NotificationsBusName, ControlPath),
	}, nil
}

// Close releases the bus connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) call(method string, retvalues ...interface{}) error {
	call := c.obj.Call(ControlInterface+"."+method, 0)
	if call.Err != nil {
		return fmt.Errorf("%s failed: %w", method, call.Err)
	}
	if len(retvalues) > 0 {
		if err := call.Store(retvalues...); err != nil {
			return fmt.Errorf("failed to decode %s reply: %w", method, err)
		}
	}
	return nil
}

// Pause pauses queue management on the daemon.
func (c *Client) Pause() error { return c.call("Pause") }

// Unpause resumes queue management on the daemon.
func (c *Client) Unpause() error { return c.call("Unpause") }

// TogglePause flips the pause gate and reports the new state.
func (c *Client) TogglePause() (bool, error) {
	var paused bool
	err := c.call("TogglePause", &paused)
	return paused, err
}

// PauseStatus reports whether the daemon is paused.
func (c *Client) PauseStatus() (bool, error) {
	var paused bool
	err := c.call("PauseStatus", &paused)
	return paused, err
}

// HistoryPop asks the daemon to restore the most recent history entry.
func (c *Client) HistoryPop() error { return c.call("HistoryPop") }

// HistoryClear asks the daemon to drop all archived notifications.
func (c *Client) HistoryClear() error { return c.call("HistoryClear") }

// CloseAll asks the daemon to archive everything live.
func (c *Client) CloseAll() error { return c.call("CloseAll") }

// Status fetches the daemon's queue counts and pause state.
func (c *Client) Status() (Status, error) {
	var st Status
	err := c.call("Status", &st.Paused, &st.Waiting, &st.Displayed, &st.History)
	return st, err
}
