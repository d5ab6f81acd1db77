package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmylchreest/notiq/internal/config"
	"github.com/jmylchreest/notiq/internal/dbus"
	"github.com/jmylchreest/notiq/internal/model"
	"github.com/jmylchreest/notiq/internal/queue"
)

// Renderer is the display surface the daemon synchronizes after every
// queue mutation. It is called from the event loop goroutine with a
// snapshot of the displayed queue.
type Renderer interface {
	Render(displayed []*model.Notification)
}

// IdleMonitor reports whether the user currently counts as idle.
type IdleMonitor interface {
	Idle() bool
}

// FullscreenMonitor reports whether a fullscreen application has focus.
type FullscreenMonitor interface {
	Fullscreen() bool
}

// LogRenderer logs the displayed queue instead of drawing it. Used when
// no graphical surface is attached.
type LogRenderer struct {
	Logger *slog.Logger
}

// Render logs one line per displayed notification.
func (r *LogRenderer) Render(displayed []*model.Notification) {
	for _, n := range displayed {
		r.Logger.Info("displaying notification",
			"id", n.ID,
			"app", n.AppName,
			"summary", n.Summary,
			"urgency", n.UrgencyName(),
			"repeat", n.RepeatCount,
		)
	}
}

// StaticMonitor is an IdleMonitor and FullscreenMonitor with a fixed
// answer, for environments without a compositor integration.
type StaticMonitor bool

func (m StaticMonitor) Idle() bool       { return bool(m) }
func (m StaticMonitor) Fullscreen() bool { return bool(m) }

// Daemon owns the queue engine and serializes all access to it through
// its event loop. It implements dbus.Controller.
type Daemon struct {
	logger *slog.Logger
	queues *queue.Queues

	renderer   Renderer
	idle       IdleMonitor
	fullscreen FullscreenMonitor

	events  chan func()
	stopped chan struct{} // closed when Run exits
}

// Options configures optional daemon collaborators. Nil fields get
// log-only or always-false defaults.
type Options struct {
	Renderer   Renderer
	Idle       IdleMonitor
	Fullscreen FullscreenMonitor
}

// New creates a daemon around a fresh queue engine. signaler receives
// the engine's close events and may be nil.
func New(cfg *config.Config, signaler queue.Signaler, logger *slog.Logger, opts Options) *Daemon {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Renderer == nil {
		opts.Renderer = &LogRenderer{Logger: logger}
	}
	if opts.Idle == nil {
		opts.Idle = StaticMonitor(false)
	}
	if opts.Fullscreen == nil {
		opts.Fullscreen = StaticMonitor(false)
	}
	return &Daemon{
		logger:     logger,
		queues:     queue.New(cfg, signaler, logger),
		renderer:   opts.Renderer,
		idle:       opts.Idle,
		fullscreen: opts.Fullscreen,
		events:     make(chan func(), 64),
		stopped:    make(chan struct{}),
	}
}

// Run drives the event loop until ctx is canceled. It owns the queue
// engine for its whole lifetime; nothing else may touch it.
func (d *Daemon) Run(ctx context.Context) {
	d.logger.Info("event loop started")

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	rearm := func() {
		timer.Stop()
		if wake, ok := d.queues.NextWakeup(time.Now()); ok {
			timer.Reset(wake)
		}
	}

	for {
		select {
		case <-ctx.Done():
			close(d.stopped)
			d.queues.Teardown()
			d.logger.Info("event loop stopped")
			return
		case fn := <-d.events:
			fn()
		case <-timer.C:
		}

		d.sync()
		rearm()
	}
}

// sync runs one queue maintenance pass and repaints.
func (d *Daemon) sync() {
	fullscreen := d.fullscreen.Fullscreen()
	d.queues.CheckTimeouts(d.idle.Idle(), fullscreen)
	d.queues.Update(fullscreen)
	d.renderer.Render(d.queues.Displayed())
}

// post runs fn on the event loop and waits for it to finish. Once the
// loop has exited, posts become no-ops so late D-Bus dispatches cannot
// hang on a full event buffer.
func (d *Daemon) post(fn func()) {
	done := make(chan struct{})
	select {
	case d.events <- func() {
		fn()
		close(done)
	}:
	case <-d.stopped:
		return
	}
	select {
	case <-done:
	case <-d.stopped:
	}
}

// NotifyHandler handles an incoming Notify call. It returns the id the
// engine assigned (0 when the notification was merged).
func (d *Daemon) NotifyHandler(w *dbus.WireNotification) uint32 {
	n := w.ToModel()
	var id uint32
	d.post(func() {
		id = d.queues.Insert(n)
	})
	d.logger.Debug("notification received",
		"id", id,
		"key", n.Key,
		"app", n.AppName,
		"replaces", w.ReplacesID,
	)
	return id
}

// CloseHandler handles an incoming CloseNotification call.
func (d *Daemon) CloseHandler(id uint32) {
	d.post(func() {
		d.queues.CloseByID(id, queue.ReasonClosed)
	})
}

// SetConfig swaps the active configuration on the next loop turn.
// Called on config hot-reload.
func (d *Daemon) SetConfig(cfg *config.Config) {
	d.post(func() {
		d.queues.SetConfig(cfg)
	})
	d.logger.Info("configuration reloaded")
}

// Pause stops the promotion of waiting notifications.
func (d *Daemon) Pause() {
	d.post(d.queues.PauseOn)
}

// Unpause resumes the promotion of waiting notifications.
func (d *Daemon) Unpause() {
	d.post(d.queues.PauseOff)
}

// Paused reports whether queue management is paused.
func (d *Daemon) Paused() bool {
	var paused bool
	d.post(func() { paused = d.queues.Paused() })
	return paused
}

// HistoryPop restores the most recently archived notification.
func (d *Daemon) HistoryPop() {
	d.post(d.queues.HistoryPop)
}

// HistoryClear drops every archived notification.
func (d *Daemon) HistoryClear() {
	d.post(d.queues.HistoryClear)
}

// CloseAll archives every waiting and displayed notification.
func (d *Daemon) CloseAll() {
	d.post(d.queues.HistoryPushAll)
}

// Counts returns the three queue lengths.
func (d *Daemon) Counts() (waiting, displayed, history int) {
	d.post(func() {
		waiting = d.queues.LenWaiting()
		displayed = d.queues.LenDisplayed()
		history = d.queues.LenHistory()
	})
	return waiting, displayed, history
}
