package daemon

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/notiq/internal/config"
	ndbus "github.com/jmylchreest/notiq/internal/dbus"
	"github.com/jmylchreest/notiq/internal/model"
	"github.com/jmylchreest/notiq/internal/queue"
)

type recordingSignaler struct {
	mu     sync.Mutex
	closed []uint32
}

func (s *recordingSignaler) NotificationClosed(id uint32, reason queue.CloseReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = append(s.closed, id)
}

func (s *recordingSignaler) closedIDs() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint32(nil), s.closed...)
}

type recordingRenderer struct {
	mu   sync.Mutex
	last []*model.Notification
}

func (r *recordingRenderer) Render(displayed []*model.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = displayed
}

func (r *recordingRenderer) snapshot() []*model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// startDaemon runs the event loop until the test ends.
func startDaemon(t *testing.T, sig queue.Signaler, opts Options) *Daemon {
	t.Helper()
	d := New(config.Default(), sig, nil, opts)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return d
}

func wire(app, summary string) *ndbus.WireNotification {
	return &ndbus.WireNotification{AppName: app, Summary: summary, ExpireTimeout: -1}
}

func TestDaemonNotifyAssignsIDs(t *testing.T) {
	renderer := &recordingRenderer{}
	d := startDaemon(t, nil, Options{Renderer: renderer})

	assert.Equal(t, uint32(1), d.NotifyHandler(wire("app", "first")))
	assert.Equal(t, uint32(2), d.NotifyHandler(wire("app", "second")))

	waiting, displayed, history := d.Counts()
	assert.Equal(t, 0, waiting)
	assert.Equal(t, 2, displayed)
	assert.Equal(t, 0, history)

	last := renderer.snapshot()
	require.Len(t, last, 2)
	assert.Equal(t, "first", last[0].Summary)
}

func TestDaemonPauseGatesPromotion(t *testing.T) {
	d := startDaemon(t, nil, Options{})

	d.Pause()
	assert.True(t, d.Paused())

	d.NotifyHandler(wire("app", "held"))
	waiting, displayed, _ := d.Counts()
	assert.Equal(t, 1, waiting)
	assert.Equal(t, 0, displayed)

	d.Unpause()
	waiting, displayed, _ = d.Counts()
	assert.Equal(t, 0, waiting)
	assert.Equal(t, 1, displayed)
}

func TestDaemonCloseHandlerSignals(t *testing.T) {
	sig := &recordingSignaler{}
	d := startDaemon(t, sig, Options{})

	id := d.NotifyHandler(wire("app", "doomed"))
	d.CloseHandler(id)

	assert.Equal(t, []uint32{id}, sig.closedIDs())
	_, displayed, history := d.Counts()
	assert.Equal(t, 0, displayed)
	assert.Equal(t, 1, history)
}

func TestDaemonCloseAll(t *testing.T) {
	sig := &recordingSignaler{}
	d := startDaemon(t, sig, Options{})

	d.NotifyHandler(wire("a", "one"))
	d.NotifyHandler(wire("b", "two"))
	d.CloseAll()

	waiting, displayed, history := d.Counts()
	assert.Equal(t, 0, waiting)
	assert.Equal(t, 0, displayed)
	assert.Equal(t, 2, history)
	assert.Empty(t, sig.closedIDs(), "bulk archive emits no close events")

	d.HistoryPop()
	_, displayed, history = d.Counts()
	assert.Equal(t, 1, displayed)
	assert.Equal(t, 1, history)
}

func TestDaemonPostAfterShutdownReturns(t *testing.T) {
	d := New(config.Default(), nil, nil, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	// Late D-Bus dispatches must not hang on the dead loop, even past
	// the event buffer capacity.
	returned := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			d.NotifyHandler(wire("late", "ignored"))
		}
		d.Pause()
		_, _, _ = d.Counts()
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(5 * time.Second):
		t.Fatal("post blocked after the event loop exited")
	}
}

func TestStateRoundTrip(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	xdg.Reload()

	st := DefaultState()
	assert.False(t, st.Paused)

	st.SetPaused(true)
	require.NoError(t, SaveState(st))

	loaded := LoadState()
	assert.True(t, loaded.Paused)
	assert.NotZero(t, loaded.PausedAt)
	assert.Equal(t, stateSchemaVersion, loaded.SchemaVersion)
}

func TestLoadStateMissingFile(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	xdg.Reload()

	st := LoadState()
	assert.False(t, st.Paused)
	assert.Equal(t, stateSchemaVersion, st.SchemaVersion)
}
