// Package queue implements the notification lifecycle engine for notiqd.
// It owns the three ordered queues (waiting, displayed, history), the
// monotonic id registry, duplicate merging, timeout expiry, and the
// operator-controlled pause gate.
//
// A Queues value is not safe for concurrent use. The daemon confines it
// to its single event-loop goroutine; every operation is synchronous and
// leaves the queues in a mutually consistent state.
package queue
