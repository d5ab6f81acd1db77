package queue

import (
	"container/list"
	"log/slog"
	"time"

	"github.com/jmylchreest/notiq/internal/config"
	"github.com/jmylchreest/notiq/internal/model"
)

// Signaler receives close events for the transport layer. Exactly one
// event is emitted per id per close.
type Signaler interface {
	NotificationClosed(id uint32, reason CloseReason)
}

// Queues manages the waiting, displayed, and history queues.
//
// The zero value is not usable; construct with New and release with
// Teardown. Calling any operation after Teardown is a caller error; the
// engine does not guard against it at runtime.
type Queues struct {
	cfg      *config.Config
	logger   *slog.Logger
	signaler Signaler

	waiting   *list.List // *model.Notification, insertion order
	displayed *list.List
	history   *list.List

	reg    *registry
	limit  int
	paused bool
}

// New creates the queues. signaler may be nil when no transport is
// attached (tests, dry runs).
func New(cfg *config.Config, signaler Signaler, logger *slog.Logger) *Queues {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queues{
		cfg:       cfg,
		logger:    logger,
		signaler:  signaler,
		waiting:   list.New(),
		displayed: list.New(),
		history:   list.New(),
		reg:       newRegistry(),
		limit:     cfg.Display.MaxVisible,
	}
}

// Teardown releases all notifications in all three queues.
func (q *Queues) Teardown() {
	q.waiting.Init()
	q.displayed.Init()
	q.history.Init()
	q.reg.reset()
	q.logger.Debug("queues torn down")
}

// SetConfig swaps the active configuration, picking up the new displayed
// limit. Called on config hot-reload.
func (q *Queues) SetConfig(cfg *config.Config) {
	q.cfg = cfg
	q.limit = cfg.Display.MaxVisible
}

// SetDisplayedLimit sets the cap enforced by the next Update pass.
// Lowering the limit does not evict notifications already displayed;
// they leave as they time out or are closed.
func (q *Queues) SetDisplayedLimit(limit int) {
	q.limit = limit
}

// LenWaiting returns the number of notifications waiting to be displayed.
func (q *Queues) LenWaiting() int { return q.waiting.Len() }

// LenDisplayed returns the number of notifications currently displayed.
func (q *Queues) LenDisplayed() int { return q.displayed.Len() }

// LenHistory returns the number of notifications in history.
func (q *Queues) LenHistory() int { return q.history.Len() }

// Displayed returns a snapshot of the displayed queue in insertion order.
// The slice is the caller's; the notifications are not and must be
// treated as read-only.
func (q *Queues) Displayed() []*model.Notification {
	out := make([]*model.Notification, 0, q.displayed.Len())
	for e := q.displayed.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*model.Notification))
	}
	return out
}

// Insert inserts a fully initialized notification.
//
// A notification with ID 0 is a fresh arrival: it is matched against
// queued duplicates (merged on hit) or assigned a new id and appended to
// waiting. A nonzero ID is a replace request: the existing notification
// with that id is replaced in place, or, if none exists, the notification
// is appended to waiting keeping the caller's id.
//
// Returns the resulting id, or 0 when a duplicate was merged and no new
// entry was created.
func (q *Queues) Insert(n *model.Notification) uint32 {
	if n.ID != 0 {
		if q.ReplaceByID(n) {
			return n.ID
		}
		// Unknown id: fresh insert of an already-identified notification.
		q.reg.observe(n.ID)
		q.appendWaiting(n)
		return n.ID
	}

	if q.cfg.Behavior.StackDuplicates && q.mergeDuplicate(n) {
		return 0
	}

	n.ID = q.reg.nextID()
	q.appendWaiting(n)
	return n.ID
}

// ReplaceByID replaces the queued notification carrying n.ID with n,
// preserving queue membership and position. Returns false, leaving all
// queues unmodified, when no live notification has that id.
func (q *Queues) ReplaceByID(n *model.Notification) bool {
	if n.ID == 0 {
		return false
	}
	loc, ok := q.reg.lookup(n.ID)
	if !ok {
		return false
	}

	old := loc.elem.Value.(*model.Notification)
	n.DisplayedAt = old.DisplayedAt
	n.RepeatCount = old.RepeatCount
	loc.elem.Value = n
	q.reg.track(n.ID, loc.queue, loc.elem)

	q.discardReplaced(old)
	q.logger.Debug("replaced notification",
		"id", n.ID,
		"key", n.Key,
		"app", n.AppName,
	)
	return true
}

// CloseByID closes the notification with the given id: it is removed from
// waiting or displayed, the reason is recorded, one close event is
// emitted, and the notification is archived per the history policy.
// A no-op when the id is not live (already closed by a racing path).
//
// The display surface is not synchronized here; callers must wake the
// renderer after this returns.
func (q *Queues) CloseByID(id uint32, reason CloseReason) {
	loc, ok := q.reg.lookup(id)
	if !ok {
		q.logger.Debug("close for unknown id", "id", id, "reason", reason.String())
		return
	}
	q.closeAt(loc, reason)
}

// Close closes an already-retrieved notification. The caller transfers
// ownership; the handle must not be used afterwards. See CloseByID.
func (q *Queues) Close(n *model.Notification, reason CloseReason) {
	q.CloseByID(n.ID, reason)
}

// closeAt is the single close path shared by all close operations.
func (q *Queues) closeAt(loc location, reason CloseReason) {
	n := loc.elem.Value.(*model.Notification)
	loc.queue.Remove(loc.elem)
	q.reg.retire(n.ID)

	if n.CloseReason == "" {
		n.CloseReason = reason.String()
	}

	if q.signaler != nil {
		q.signaler.NotificationClosed(n.ID, reason)
	}

	if !q.cfg.SkipsHistory(reason.String()) {
		q.pushHistory(n)
	}

	q.logger.Debug("closed notification",
		"id", n.ID,
		"key", n.Key,
		"app", n.AppName,
		"reason", reason.String(),
	)
}

// discardReplaced retires a notification displaced by an in-place
// replacement. Its id lives on in the replacement, so no close event is
// emitted; archival follows the history policy for "replaced".
func (q *Queues) discardReplaced(old *model.Notification) {
	if old.CloseReason == "" {
		old.CloseReason = ReasonReplaced.String()
	}
	if !q.cfg.SkipsHistory(ReasonReplaced.String()) {
		q.pushHistory(old)
	}
}

// HistoryPop removes the most recently added history entry and reinserts
// it into the waiting queue with its close metadata cleared. A no-op when
// history is empty.
func (q *Queues) HistoryPop() {
	e := q.history.Back()
	if e == nil {
		return
	}
	n := q.history.Remove(e).(*model.Notification)

	// A replaced notification is archived under an id its replacement
	// still carries; reviving it verbatim would put one id in two queues.
	if _, live := q.reg.lookup(n.ID); live {
		n.ID = q.reg.nextID()
	}

	n.CloseReason = ""
	n.DisplayedAt = time.Time{}
	q.appendWaiting(n)

	q.logger.Debug("popped notification from history", "id", n.ID, "key", n.Key)
}

// HistoryPush appends an already-dequeued notification to history.
// Precondition: n is not a member of any queue; pushing a still-queued
// notification breaks the id uniqueness invariant and is a caller error.
func (q *Queues) HistoryPush(n *model.Notification) {
	q.pushHistory(n)
}

// HistoryPushAll moves every waiting and displayed notification into
// history, oldest first (waiting before displayed, each in queue order),
// clearing both source queues. No close events are emitted.
func (q *Queues) HistoryPushAll() {
	for _, src := range []*list.List{q.waiting, q.displayed} {
		for e := src.Front(); e != nil; {
			next := e.Next()
			n := src.Remove(e).(*model.Notification)
			q.reg.retire(n.ID)
			if n.CloseReason == "" {
				n.CloseReason = ReasonDismissed.String()
			}
			q.pushHistory(n)
			e = next
		}
	}
	q.logger.Debug("pushed all notifications to history", "history", q.history.Len())
}

// HistoryClear drops every archived notification. Live queues are not
// touched.
func (q *Queues) HistoryClear() {
	q.history.Init()
	q.logger.Debug("history cleared")
}

// pushHistory appends to history and trims the oldest entries past the
// configured cap.
func (q *Queues) pushHistory(n *model.Notification) {
	q.history.PushBack(n)
	if max := q.cfg.History.Length; max > 0 {
		for q.history.Len() > max {
			q.history.Remove(q.history.Front())
		}
	}
}

// Update moves waiting notifications to the displayed queue up to the
// displayed limit. A no-op while paused. While fullscreen, non-exempt
// notifications stay waiting (in order) and only exempt urgencies are
// promoted.
//
// Callers must resync the display surface after this returns.
func (q *Queues) Update(fullscreen bool) {
	if q.paused {
		return
	}

	now := time.Now()
	for e := q.waiting.Front(); e != nil; {
		if q.limit > 0 && q.displayed.Len() >= q.limit {
			break
		}
		next := e.Next()
		n := e.Value.(*model.Notification)
		if fullscreen && q.delayedInFullscreen(n) {
			e = next
			continue
		}

		q.waiting.Remove(e)
		n.DisplayedAt = now
		elem := q.displayed.PushBack(n)
		q.reg.track(n.ID, q.displayed, elem)

		q.logger.Debug("displayed notification",
			"id", n.ID,
			"key", n.Key,
			"app", n.AppName,
			"urgency", n.UrgencyName(),
		)
		e = next
	}
}

// delayedInFullscreen reports whether a notification is held back while a
// fullscreen application has focus. Critical notifications always pass.
func (q *Queues) delayedInFullscreen(n *model.Notification) bool {
	return q.cfg.Behavior.FullscreenDelay && n.Urgency != model.UrgencyCritical
}

// appendWaiting appends to the waiting queue and tracks the id.
func (q *Queues) appendWaiting(n *model.Notification) {
	elem := q.waiting.PushBack(n)
	q.reg.track(n.ID, q.waiting, elem)
}

// PauseOn stops the waiting-to-displayed transition. Insert, close, and
// history operations stay live: pausing means "stop showing new things",
// not "freeze the world".
func (q *Queues) PauseOn() {
	q.paused = true
	q.logger.Debug("queue management paused")
}

// PauseOff resumes the waiting-to-displayed transition on the next
// Update pass.
func (q *Queues) PauseOff() {
	q.paused = false
	q.logger.Debug("queue management resumed")
}

// Paused reports whether queue management is paused.
func (q *Queues) Paused() bool {
	return q.paused
}
