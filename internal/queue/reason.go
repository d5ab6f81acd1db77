package queue

// CloseReason describes why a notification left the waiting or displayed
// queue. The engine does not interpret the reason beyond deciding whether
// the notification is archived to history; the value is forwarded to the
// transport layer on every close.
type CloseReason int

const (
	// ReasonExpired indicates the notification timed out.
	ReasonExpired CloseReason = iota + 1
	// ReasonDismissed indicates the user dismissed the notification.
	ReasonDismissed
	// ReasonClosed indicates an external CloseNotification request.
	ReasonClosed
	// ReasonReplaced indicates the notification was replaced by a newer
	// one before it was ever shown or closed on its own.
	ReasonReplaced
	// ReasonRule indicates a daemon rule closed the notification.
	ReasonRule
)

// String returns the string representation of the close reason.
func (r CloseReason) String() string {
	switch r {
	case ReasonExpired:
		return "expired"
	case ReasonDismissed:
		return "dismissed"
	case ReasonClosed:
		return "closed"
	case ReasonReplaced:
		return "replaced"
	case ReasonRule:
		return "rule"
	default:
		return "unknown"
	}
}
