package dbus

import (
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/notiq/internal/model"
	"github.com/jmylchreest/notiq/internal/queue"
)

func TestWireReason(t *testing.T) {
	assert.Equal(t, uint32(1), WireReason(queue.ReasonExpired))
	assert.Equal(t, uint32(2), WireReason(queue.ReasonDismissed))
	assert.Equal(t, uint32(3), WireReason(queue.ReasonClosed))
	assert.Equal(t, uint32(4), WireReason(queue.ReasonReplaced))
	assert.Equal(t, uint32(4), WireReason(queue.ReasonRule))
}

func TestWireNotificationHints(t *testing.T) {
	w := &WireNotification{
		AppName: "mail",
		Summary: "New message",
		Hints: map[string]dbus.Variant{
			"urgency":   dbus.MakeVariant(byte(model.UrgencyCritical)),
			"category":  dbus.MakeVariant("email.arrived"),
			"transient": dbus.MakeVariant(true),
		},
	}

	assert.Equal(t, model.UrgencyCritical, w.Urgency())
	assert.Equal(t, "email.arrived", w.Category())
	assert.True(t, w.Transient())
}

func TestWireNotificationHintDefaults(t *testing.T) {
	w := &WireNotification{Hints: map[string]dbus.Variant{}}

	assert.Equal(t, model.UrgencyNormal, w.Urgency())
	assert.Empty(t, w.Category())
	assert.False(t, w.Transient())
	assert.Empty(t, w.StackTag())
}

func TestWireNotificationStackTag(t *testing.T) {
	w := &WireNotification{
		Hints: map[string]dbus.Variant{
			"x-dunst-stack-tag": dbus.MakeVariant("volume"),
			"stack-tag":         dbus.MakeVariant("ignored"),
		},
	}
	assert.Equal(t, "volume", w.StackTag(), "dunst-specific hint wins")

	w = &WireNotification{
		Hints: map[string]dbus.Variant{
			"stack-tag": dbus.MakeVariant("brightness"),
		},
	}
	assert.Equal(t, "brightness", w.StackTag())
}

func TestWireNotificationHintWrongType(t *testing.T) {
	w := &WireNotification{
		Hints: map[string]dbus.Variant{
			"urgency":   dbus.MakeVariant("critical"),
			"transient": dbus.MakeVariant(int32(1)),
		},
	}

	assert.Equal(t, model.UrgencyNormal, w.Urgency())
	assert.False(t, w.Transient())
}

func TestToModel(t *testing.T) {
	w := &WireNotification{
		AppName:    "chat",
		ReplacesID: 42,
		AppIcon:    "chat-icon",
		Summary:    "ping",
		Body:       "are you there?",
		Hints: map[string]dbus.Variant{
			"urgency": dbus.MakeVariant(byte(model.UrgencyLow)),
		},
		ExpireTimeout: 5000,
	}

	n := w.ToModel()
	assert.Equal(t, uint32(42), n.ID)
	assert.Equal(t, "chat", n.AppName)
	assert.Equal(t, "ping", n.Summary)
	assert.Equal(t, "are you there?", n.Body)
	assert.Equal(t, "chat-icon", n.AppIcon)
	assert.Equal(t, model.UrgencyLow, n.Urgency)
	assert.Equal(t, 5*time.Second, n.Timeout)
	assert.NotEmpty(t, n.Key)
}

func TestToModelTimeouts(t *testing.T) {
	w := &WireNotification{ExpireTimeout: -1}
	assert.Equal(t, model.TimeoutDefault, w.ToModel().Timeout)

	w = &WireNotification{ExpireTimeout: 0}
	assert.Equal(t, model.TimeoutNever, w.ToModel().Timeout)

	w = &WireNotification{ExpireTimeout: 250}
	assert.Equal(t, 250*time.Millisecond, w.ToModel().Timeout)
}
