package queue

import (
	"math"
	"time"

	"github.com/jmylchreest/notiq/internal/model"
)

// effectiveTimeout resolves a notification's timeout: the explicit
// override when set, else the configured per-urgency default. Zero means
// never expire.
func (q *Queues) effectiveTimeout(n *model.Notification) time.Duration {
	if n.Timeout >= 0 {
		return n.Timeout
	}
	return q.cfg.TimeoutForUrgency(n.Urgency)
}

// CheckTimeouts closes every displayed notification whose effective
// timeout has elapsed.
//
// While the user is idle, non-transient notifications have their
// countdown baseline reset so they survive until the user returns;
// transient ones keep ticking. While fullscreen, notifications that are
// held back from the screen are not timed out either. Runs regardless of
// the pause state.
func (q *Queues) CheckTimeouts(idle, fullscreen bool) {
	now := time.Now()

	var expired []*model.Notification
	for e := q.displayed.Front(); e != nil; e = e.Next() {
		n := e.Value.(*model.Notification)

		if idle && !n.Transient {
			n.DisplayedAt = now
			continue
		}
		if fullscreen && q.delayedInFullscreen(n) {
			continue
		}

		timeout := q.effectiveTimeout(n)
		if timeout <= 0 {
			continue
		}
		if now.Sub(n.DisplayedAt) >= timeout {
			expired = append(expired, n)
		}
	}

	// Close after the scan; closing mutates the displayed list.
	for _, n := range expired {
		q.CloseByID(n.ID, ReasonExpired)
	}
}

// NextWakeup returns the time until the next event that changes what is
// displayed: a notification hitting its timeout, its rendered age label
// ticking to the next second, or its age crossing into a coarser bucket
// (minutes to hours, hours to days). ok is false when nothing is pending,
// letting the event loop sleep indefinitely instead of polling.
func (q *Queues) NextWakeup(now time.Time) (sleep time.Duration, ok bool) {
	const none = time.Duration(math.MaxInt64)
	sleep = none

	ageThreshold := q.cfg.Display.AgeThreshold.Duration()

	for e := q.displayed.Front(); e != nil; e = e.Next() {
		n := e.Value.(*model.Notification)

		if timeout := q.effectiveTimeout(n); timeout > 0 {
			sleep = min(sleep, n.DisplayedAt.Add(timeout).Sub(now))
		}

		if ageThreshold < 0 {
			continue // age labels disabled
		}
		age := n.Age(now)
		if age >= ageThreshold {
			// Label is live: wake on the next second tick.
			sleep = min(sleep, time.Second-age%time.Second)
		} else {
			sleep = min(sleep, ageThreshold-age)
		}
		if boundary, pending := nextAgeBucket(age); pending {
			sleep = min(sleep, boundary-age)
		}
	}

	if sleep == none {
		return 0, false
	}
	return max(sleep, 0), true
}

// ageBuckets are the displayed-age label granularity boundaries.
var ageBuckets = []time.Duration{time.Minute, time.Hour, 24 * time.Hour}

// nextAgeBucket returns the next coarser label boundary an age has yet to
// cross, e.g. the instant a "59m ago" label becomes "1h ago".
func nextAgeBucket(age time.Duration) (time.Duration, bool) {
	for _, b := range ageBuckets {
		if age < b {
			return b, true
		}
	}
	return 0, false
}
