package dbus

import (
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/notiq/internal/model"
	"github.com/jmylchreest/notiq/internal/queue"
)

// Wire values for the NotificationClosed reason argument, defined by the
// freedesktop.org notification specification.
const (
	wireReasonExpired   uint32 = 1
	wireReasonDismissed uint32 = 2
	wireReasonClosed    uint32 = 3
	wireReasonUndefined uint32 = 4
)

// WireReason maps an engine close reason to its wire value. Reasons the
// spec has no code for (replaced, rule) map to undefined.
func WireReason(r queue.CloseReason) uint32 {
	switch r {
	case queue.ReasonExpired:
		return wireReasonExpired
	case queue.ReasonDismissed:
		return wireReasonDismissed
	case queue.ReasonClosed:
		return wireReasonClosed
	default:
		return wireReasonUndefined
	}
}

// WireNotification represents an incoming D-Bus Notify call. It contains
// the raw parameters from the org.freedesktop.Notifications.Notify method.
type WireNotification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string // Alternating key, label pairs
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

// Urgency extracts the urgency hint. Returns model.UrgencyNormal if not
// specified.
func (w *WireNotification) Urgency() int {
	if v, ok := w.Hints["urgency"]; ok {
		if b, ok := v.Value().(byte); ok {
			return int(b)
		}
	}
	return model.UrgencyNormal
}

// Category extracts the category hint.
func (w *WireNotification) Category() string {
	return w.stringHint("category")
}

// Transient returns true if the transient hint is set.
func (w *WireNotification) Transient() bool {
	if v, ok := w.Hints["transient"]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

// StackTag extracts the stack-tag hint used for in-place replacement of
// grouped notifications. Both the dunst-specific and the generic hint
// name are recognized.
func (w *WireNotification) StackTag() string {
	if tag := w.stringHint("x-dunst-stack-tag"); tag != "" {
		return tag
	}
	return w.stringHint("stack-tag")
}

func (w *WireNotification) stringHint(name string) string {
	if v, ok := w.Hints[name]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

// ToModel converts the wire notification to the engine's model. The
// replaces-id becomes the model id, so a zero value marks a fresh
// arrival exactly as the engine expects.
func (w *WireNotification) ToModel() *model.Notification {
	n := model.New(w.AppName, w.Summary, w.Body)
	n.ID = w.ReplacesID
	n.AppIcon = w.AppIcon
	n.Category = w.Category()
	n.Transient = w.Transient()
	n.StackTag = w.StackTag()
	n.SetUrgency(w.Urgency())

	switch {
	case w.ExpireTimeout < 0:
		n.Timeout = model.TimeoutDefault
	case w.ExpireTimeout == 0:
		n.Timeout = model.TimeoutNever
	default:
		n.Timeout = time.Duration(w.ExpireTimeout) * time.Millisecond
	}
	return n
}

// ServerCapabilities lists the capabilities advertised by notiqd.
var ServerCapabilities = []string{
	"body",            // Support body text
	"body-hyperlinks", // Support hyperlinks in body
	"icon-static",     // Support static icons
	"persistence",     // Closed notifications are kept in history
}

// ServerInfo contains information about the notification server.
type ServerInfo struct {
	Name        string
	Vendor      string
	Version     string
	SpecVersion string
}

// DefaultServerInfo returns the default server information.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:        "notiqd",
		Vendor:      "notiq",
		Version:     "0.0.1", // Will be replaced by build-time version
		SpecVersion: "1.2",
	}
}
