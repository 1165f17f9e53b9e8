package messenger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fakeStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

type notifyRecorder struct {
	mu     sync.Mutex
	totals []int
}

func (r *notifyRecorder) record(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.totals = append(r.totals, total)
}

func (r *notifyRecorder) seen() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.totals))
	copy(out, r.totals)
	return out
}

// quietPoller builds a poller whose ticker never fires inside a test, so
// RequestRefresh is the only trigger.
func quietPoller(store *fakeStore, recorder *notifyRecorder, throttle time.Duration) (*Poller, *Session) {
	session := NewSession(store, testUser())
	config := PollerConfig{Interval: time.Hour, NotifyThrottle: throttle}
	return NewPoller(config, session, recorder.record), session
}

func waitForCalls(t *testing.T, store *fakeStore, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return store.calls() >= n },
		2*time.Second, 5*time.Millisecond)
}

func TestPoller_FirstRefreshEstablishesBaselineSilently(t *testing.T) {
	store := newFakeStore()
	store.setUnread(1, 3)
	recorder := &notifyRecorder{}
	poller, _ := quietPoller(store, recorder, 10*time.Second)

	require.NoError(t, poller.Start(context.Background()))
	defer poller.Stop()

	poller.RequestRefresh()
	waitForCalls(t, store, 1)

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, recorder.seen(), "baseline refresh must not notify")
}

func TestPoller_NotifiesOnceWhenUnreadRises(t *testing.T) {
	store := newFakeStore()
	store.setUnread(1, 0)
	recorder := &notifyRecorder{}
	poller, _ := quietPoller(store, recorder, 10*time.Second)

	require.NoError(t, poller.Start(context.Background()))
	defer poller.Stop()

	poller.RequestRefresh()
	waitForCalls(t, store, 1)

	store.setUnread(1, 3)
	poller.RequestRefresh()
	waitForCalls(t, store, 2)
	require.Eventually(t, func() bool { return len(recorder.seen()) == 1 },
		2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{3}, recorder.seen())

	// A further rise inside the throttle window stays silent.
	store.setUnread(1, 5)
	poller.RequestRefresh()
	waitForCalls(t, store, 3)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []int{3}, recorder.seen())
}

func TestPoller_NoNotificationWhenUnreadFalls(t *testing.T) {
	store := newFakeStore()
	store.setUnread(1, 5)
	recorder := &notifyRecorder{}
	poller, _ := quietPoller(store, recorder, 10*time.Second)

	require.NoError(t, poller.Start(context.Background()))
	defer poller.Stop()

	poller.RequestRefresh()
	waitForCalls(t, store, 1)

	store.setUnread(1, 2)
	poller.RequestRefresh()
	waitForCalls(t, store, 2)

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, recorder.seen())
}

func TestPoller_NotifiesAgainAfterThrottleWindow(t *testing.T) {
	store := newFakeStore()
	store.setUnread(1, 0)
	recorder := &notifyRecorder{}
	poller, _ := quietPoller(store, recorder, 30*time.Millisecond)

	require.NoError(t, poller.Start(context.Background()))
	defer poller.Stop()

	poller.RequestRefresh()
	waitForCalls(t, store, 1)

	store.setUnread(1, 3)
	poller.RequestRefresh()
	waitForCalls(t, store, 2)
	require.Eventually(t, func() bool { return len(recorder.seen()) == 1 },
		2*time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)

	store.setUnread(1, 5)
	poller.RequestRefresh()
	waitForCalls(t, store, 3)
	require.Eventually(t, func() bool { return len(recorder.seen()) == 2 },
		2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{3, 5}, recorder.seen())
}

func TestPoller_OverlappingTriggersCollapse(t *testing.T) {
	store := newFakeStore()
	store.setUnread(1, 0)
	gate := make(chan struct{})
	store.mu.Lock()
	store.listGate = gate
	store.mu.Unlock()

	recorder := &notifyRecorder{}
	poller, _ := quietPoller(store, recorder, 10*time.Second)

	require.NoError(t, poller.Start(context.Background()))

	// First trigger blocks inside ListConversations on the gate.
	poller.RequestRefresh()
	// A burst while the refresh is in flight must collapse into one rerun.
	for i := 0; i < 5; i++ {
		poller.RequestRefresh()
	}

	gate <- struct{}{} // release the in-flight refresh
	gate <- struct{}{} // release the single queued rerun
	waitForCalls(t, store, 2)

	store.mu.Lock()
	store.listGate = nil
	store.mu.Unlock()
	require.NoError(t, poller.Stop())

	assert.Equal(t, 2, store.calls(), "burst of triggers collapsed into one queued rerun")
}

func TestPoller_TickerDrivesRefreshes(t *testing.T) {
	store := newFakeStore()
	store.setUnread(1, 0)
	session := NewSession(store, testUser())
	poller := NewPoller(PollerConfig{Interval: 10 * time.Millisecond, NotifyThrottle: time.Second}, session, nil)

	require.NoError(t, poller.Start(context.Background()))
	waitForCalls(t, store, 3)
	require.NoError(t, poller.Stop())
}

func TestPoller_StartStopLifecycle(t *testing.T) {
	store := newFakeStore()
	poller, _ := quietPoller(store, &notifyRecorder{}, time.Second)

	require.NoError(t, poller.Start(context.Background()))
	assert.ErrorIs(t, poller.Start(context.Background()), ErrPollerAlreadyRunning)

	require.NoError(t, poller.Stop())
	assert.ErrorIs(t, poller.Stop(), ErrPollerNotRunning)

	// Restart after a clean stop works.
	require.NoError(t, poller.Start(context.Background()))
	require.NoError(t, poller.Stop())
}

func TestPoller_FailedRefreshKeepsQuietAndRecovers(t *testing.T) {
	store := newFakeStore()
	store.setUnread(1, 0)
	recorder := &notifyRecorder{}
	poller, _ := quietPoller(store, recorder, 10*time.Second)

	require.NoError(t, poller.Start(context.Background()))
	defer poller.Stop()

	poller.RequestRefresh()
	waitForCalls(t, store, 1)

	store.mu.Lock()
	store.failList = assert.AnError
	store.mu.Unlock()
	poller.RequestRefresh()
	waitForCalls(t, store, 2)
	assert.Empty(t, recorder.seen())

	store.mu.Lock()
	store.failList = nil
	store.mu.Unlock()
	store.setUnread(1, 4)
	poller.RequestRefresh()
	waitForCalls(t, store, 3)
	require.Eventually(t, func() bool { return len(recorder.seen()) == 1 },
		2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{4}, recorder.seen())
}
