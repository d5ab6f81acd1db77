package queue

import (
	"container/list"
	"time"

	"github.com/jmylchreest/notiq/internal/model"
)

// mergeDuplicate scans waiting and displayed for a notification the
// incoming one duplicates and merges on hit, reporting whether n was
// consumed.
//
// Two forms of duplication are recognized:
//   - a matching stack tag from the same app replaces the existing
//     entry's content in place, keeping its id and queue position;
//   - a matching dedupe key bumps the existing entry's repeat counter
//     and refreshes its timestamps.
//
// Only called for fresh arrivals (ID 0); id-bearing notifications take
// the explicit replace path instead.
func (q *Queues) mergeDuplicate(n *model.Notification) bool {
	for _, src := range []*list.List{q.waiting, q.displayed} {
		for e := src.Front(); e != nil; e = e.Next() {
			existing := e.Value.(*model.Notification)

			if n.StackTag != "" && existing.StackTag == n.StackTag && existing.AppName == n.AppName {
				n.ID = existing.ID
				n.DisplayedAt = existing.DisplayedAt
				n.RepeatCount = existing.RepeatCount
				e.Value = n
				q.reg.track(n.ID, src, e)
				q.discardReplaced(existing)

				q.logger.Debug("replaced notification by stack tag",
					"id", n.ID,
					"key", n.Key,
					"app", n.AppName,
					"stack_tag", n.StackTag,
				)
				return true
			}

			if existing.DedupeKey() == n.DedupeKey() {
				now := time.Now()
				existing.RepeatCount++
				existing.CreatedAt = now
				if existing.Displayed() {
					// Restart the timeout countdown for the refreshed entry.
					existing.DisplayedAt = now
				}

				q.logger.Debug("merged duplicate notification",
					"id", existing.ID,
					"key", existing.Key,
					"app", existing.AppName,
					"repeat_count", existing.RepeatCount,
				)
				return true
			}
		}
	}
	return false
}
