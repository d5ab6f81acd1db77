// Package model defines the core data structures for notiq.
package model

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Urgency levels matching the freedesktop notification spec.
const (
	UrgencyLow      = 0
	UrgencyNormal   = 1
	UrgencyCritical = 2
)

// UrgencyNames maps urgency levels to human-readable names.
var UrgencyNames = map[int]string{
	UrgencyLow:      "low",
	UrgencyNormal:   "normal",
	UrgencyCritical: "critical",
}

// Timeout sentinel values, matching the wire encoding of ExpireTimeout.
const (
	// TimeoutDefault means the per-urgency timeout from the configuration
	// applies.
	TimeoutDefault time.Duration = -1 * time.Millisecond
	// TimeoutNever means the notification never expires on its own.
	TimeoutNever time.Duration = 0
)

// Notification is the unit of work moving through the queues.
//
// ID is zero until the queue engine assigns one; an ID of zero therefore
// always means "fresh arrival". Key is a ULID assigned at construction and
// used for log correlation across the notification's whole lifetime,
// independent of numeric IDs reused by replacing senders.
type Notification struct {
	ID  uint32
	Key string

	AppName  string
	Summary  string
	Body     string
	AppIcon  string
	Category string

	Urgency   int
	Transient bool

	// StackTag groups notifications that replace each other in place
	// (x-dunst-stack-tag). Empty means no grouping.
	StackTag string

	// Timeout overrides the urgency-derived default when >= 0.
	// TimeoutDefault (-1ms) selects the configured default, TimeoutNever (0)
	// disables expiry.
	Timeout time.Duration

	CreatedAt   time.Time
	DisplayedAt time.Time

	// RepeatCount counts merged duplicates. Starts at 1 and never decreases.
	RepeatCount int

	// CloseReason is set exactly once, when the notification leaves the
	// waiting or displayed queue. Empty while live.
	CloseReason string
}

// New creates a Notification with a fresh trace key and defaults.
func New(appName, summary, body string) *Notification {
	return &Notification{
		Key:         ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String(),
		AppName:     appName,
		Summary:     summary,
		Body:        body,
		Urgency:     UrgencyNormal,
		Timeout:     TimeoutDefault,
		CreatedAt:   time.Now(),
		RepeatCount: 1,
	}
}

// SetUrgency sets the urgency level, clamping unknown values to normal.
func (n *Notification) SetUrgency(level int) {
	if level < UrgencyLow || level > UrgencyCritical {
		level = UrgencyNormal
	}
	n.Urgency = level
}

// UrgencyName returns the human-readable urgency name.
func (n *Notification) UrgencyName() string {
	return UrgencyNames[n.Urgency]
}

// DedupeKey returns the key used for duplicate detection. Notifications
// from the same app with identical summary and body are considered
// semantic duplicates.
func (n *Notification) DedupeKey() string {
	return fmt.Sprintf("%s:%s:%s", n.AppName, n.Summary, n.Body)
}

// Displayed reports whether the notification has been promoted to the
// displayed queue at some point.
func (n *Notification) Displayed() bool {
	return !n.DisplayedAt.IsZero()
}

// Age returns how long ago the notification was created.
func (n *Notification) Age(now time.Time) time.Duration {
	return now.Sub(n.CreatedAt)
}

// Clone creates a deep copy of the notification.
func (n *Notification) Clone() *Notification {
	clone := *n
	return &clone
}
