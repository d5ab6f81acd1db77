package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/notiq/internal/config"
	"github.com/jmylchreest/notiq/internal/model"
)

// displayAged inserts a notification, promotes it, and backdates its
// displayed baseline by age.
func displayAged(t *testing.T, q *Queues, n *model.Notification, age time.Duration) {
	t.Helper()
	require.NotZero(t, q.Insert(n))
	q.Update(false)
	n.DisplayedAt = time.Now().Add(-age)
}

func TestCheckTimeouts_ClosesExpired(t *testing.T) {
	q, sig := newTestQueues(nil)

	fresh := testNotification("app", "fresh")
	stale := testNotification("app", "stale")
	displayAged(t, q, fresh, time.Second)
	displayAged(t, q, stale, time.Hour)

	q.CheckTimeouts(false, false)

	displayed := q.Displayed()
	require.Len(t, displayed, 1)
	assert.Equal(t, "fresh", displayed[0].Summary)
	assert.Equal(t, 1, q.LenHistory())
	require.Len(t, sig.events, 1)
	assert.Equal(t, ReasonExpired, sig.events[0].reason)
	assert.Equal(t, "expired", stale.CloseReason)
}

func TestCheckTimeouts_OverrideWins(t *testing.T) {
	q, _ := newTestQueues(nil)

	n := testNotification("app", "short lived")
	n.Timeout = 50 * time.Millisecond
	displayAged(t, q, n, time.Second)

	q.CheckTimeouts(false, false)
	assert.Zero(t, q.LenDisplayed())
	assert.Equal(t, 1, q.LenHistory())
}

func TestCheckTimeouts_NeverExpires(t *testing.T) {
	q, _ := newTestQueues(nil)

	critical := testNotification("app", "sticky")
	critical.SetUrgency(model.UrgencyCritical) // default critical timeout is 0
	displayAged(t, q, critical, 24*time.Hour)

	explicit := testNotification("app", "pinned")
	explicit.Timeout = model.TimeoutNever
	displayAged(t, q, explicit, 24*time.Hour)

	q.CheckTimeouts(false, false)
	assert.Equal(t, 2, q.LenDisplayed())
}

func TestCheckTimeouts_IdlePausesNonTransient(t *testing.T) {
	q, _ := newTestQueues(nil)

	normal := testNotification("app", "patient")
	transient := testNotification("app", "fleeting")
	transient.Transient = true
	displayAged(t, q, normal, time.Hour)
	displayAged(t, q, transient, time.Hour)

	q.CheckTimeouts(true, false)

	// Transient keeps ticking while idle; the rest gets a fresh baseline
	displayed := q.Displayed()
	require.Len(t, displayed, 1)
	assert.Equal(t, "patient", displayed[0].Summary)
	assert.Less(t, time.Since(normal.DisplayedAt), time.Second)

	// Back from idle: the refreshed baseline means nothing expires yet
	q.CheckTimeouts(false, false)
	assert.Equal(t, 1, q.LenDisplayed())
}

func TestCheckTimeouts_FullscreenSuppressesDelayed(t *testing.T) {
	q, _ := newTestQueues(nil)

	normal := testNotification("app", "held")
	critical := testNotification("app", "urgent")
	critical.SetUrgency(model.UrgencyCritical)
	critical.Timeout = time.Second
	displayAged(t, q, normal, time.Hour)
	displayAged(t, q, critical, time.Hour)

	q.CheckTimeouts(false, true)

	// Only the critical notification, which shows in fullscreen, times out
	displayed := q.Displayed()
	require.Len(t, displayed, 1)
	assert.Equal(t, "held", displayed[0].Summary)
}

func TestCheckTimeouts_RunsWhilePaused(t *testing.T) {
	q, _ := newTestQueues(nil)

	stale := testNotification("app", "stale")
	displayAged(t, q, stale, time.Hour)

	q.PauseOn()
	q.CheckTimeouts(false, false)

	assert.Zero(t, q.LenDisplayed(), "pause gates promotion, not expiry")
	assert.Equal(t, 1, q.LenHistory())
}

func TestNextWakeup_EmptyDisplayed(t *testing.T) {
	q, _ := newTestQueues(nil)
	q.Insert(testNotification("app", "still waiting"))

	_, ok := q.NextWakeup(time.Now())
	assert.False(t, ok)
}

func TestNextWakeup_TimeoutDominates(t *testing.T) {
	q, _ := newTestQueues(nil) // normal timeout 10s, age threshold 1m

	n := testNotification("app", "n")
	require.NotZero(t, q.Insert(n))
	q.Update(false)

	sleep, ok := q.NextWakeup(time.Now())
	require.True(t, ok)
	assert.InDelta(t, 10*time.Second, sleep, float64(200*time.Millisecond))
}

func TestNextWakeup_SecondTickPastAgeThreshold(t *testing.T) {
	cfg := config.Default()
	cfg.Display.AgeThreshold = config.Duration(time.Minute)
	q, _ := newTestQueues(cfg)

	n := testNotification("app", "old")
	n.SetUrgency(model.UrgencyCritical) // no timeout component
	require.NotZero(t, q.Insert(n))
	q.Update(false)

	now := time.Now()
	n.CreatedAt = now.Add(-90 * time.Second)

	sleep, ok := q.NextWakeup(now)
	require.True(t, ok)
	assert.Greater(t, sleep, time.Duration(0))
	assert.LessOrEqual(t, sleep, time.Second, "age label ticks every second once past the threshold")
}

func TestNextWakeup_AgeBucketCrossing(t *testing.T) {
	cfg := config.Default()
	cfg.Display.AgeThreshold = config.Duration(2 * time.Hour)
	q, _ := newTestQueues(cfg)

	n := testNotification("app", "almost an hour old")
	n.SetUrgency(model.UrgencyCritical)
	require.NotZero(t, q.Insert(n))
	q.Update(false)

	now := time.Now()
	n.CreatedAt = now.Add(-(59*time.Minute + 30*time.Second))

	// Distance to the threshold is over an hour; the minutes-to-hours
	// bucket boundary at 1h is closer.
	sleep, ok := q.NextWakeup(now)
	require.True(t, ok)
	assert.Equal(t, 30*time.Second, sleep)
}

func TestNextWakeup_NothingPending(t *testing.T) {
	cfg := config.Default()
	cfg.Display.AgeThreshold = config.Duration(-time.Millisecond) // labels disabled
	q, _ := newTestQueues(cfg)

	n := testNotification("app", "sticky")
	n.Timeout = model.TimeoutNever
	require.NotZero(t, q.Insert(n))
	q.Update(false)

	_, ok := q.NextWakeup(time.Now())
	assert.False(t, ok)
}

func TestNextWakeup_OverdueClampsToZero(t *testing.T) {
	q, _ := newTestQueues(nil)

	n := testNotification("app", "overdue")
	displayAged(t, q, n, time.Hour)

	sleep, ok := q.NextWakeup(time.Now())
	require.True(t, ok)
	assert.Equal(t, time.Duration(0), sleep)
}
