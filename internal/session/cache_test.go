package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sva-utd/portal-api/internal/domain/auth"
)

// fakeClock is a manually advanced clock for exercising the dedupe and
// cooldown windows without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// countingFetcher counts identity checks and serves a configurable result.
type countingFetcher struct {
	mu     sync.Mutex
	calls  int
	claims *auth.Claims
	err    error
}

func (f *countingFetcher) FetchIdentity(context.Context) (*auth.Claims, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.claims, f.err
}

func (f *countingFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *countingFetcher) set(claims *auth.Claims, err error) {
	f.mu.Lock()
	f.claims = claims
	f.err = err
	f.mu.Unlock()
}

// blockingFetcher parks its first call on a channel so a fetch can be held
// in flight while the test drives the cache from the outside.
type blockingFetcher struct {
	mu      sync.Mutex
	calls   int
	claims  *auth.Claims
	hold    chan struct{} // first call waits on this, then returns nil claims
	entered chan struct{} // closed when the held call starts
}

func (f *blockingFetcher) FetchIdentity(context.Context) (*auth.Claims, error) {
	f.mu.Lock()
	f.calls++
	claims := f.claims
	hold := f.hold
	entered := f.entered
	f.hold = nil
	f.entered = nil
	f.mu.Unlock()

	if hold != nil {
		close(entered)
		<-hold
		// The held call answers for the session as it was when it started.
		return nil, nil
	}
	return claims, nil
}

func (f *blockingFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *blockingFetcher) set(claims *auth.Claims) {
	f.mu.Lock()
	f.claims = claims
	f.mu.Unlock()
}

func memberClaims() *auth.Claims {
	return &auth.Claims{Subject: "mock_user_1", Name: "Dummy Member", Role: auth.RoleMember}
}

func newTestCache(f Fetcher, clock *fakeClock) *Cache {
	return New(Options{Fetcher: f, Clock: clock.Now})
}

func TestCache_InitialStateIsLoading(t *testing.T) {
	c := newTestCache(&countingFetcher{}, newFakeClock())

	snap := c.Snapshot()
	assert.True(t, snap.Loading)
	assert.Nil(t, snap.Identity)
	assert.NoError(t, snap.Err)
}

func TestCache_RefreshCommitsIdentity(t *testing.T) {
	fetcher := &countingFetcher{claims: memberClaims()}
	c := newTestCache(fetcher, newFakeClock())

	require.NoError(t, c.Refresh(context.Background(), false))

	snap := c.Snapshot()
	assert.False(t, snap.Loading)
	require.NotNil(t, snap.Identity)
	assert.Equal(t, "mock_user_1", snap.Identity.Subject)
	assert.False(t, snap.LastResultWasNull)
	assert.Equal(t, 1, fetcher.Calls())
}

func TestCache_DedupeWindowCollapsesBursts(t *testing.T) {
	clock := newFakeClock()
	fetcher := &countingFetcher{claims: memberClaims()}
	c := newTestCache(fetcher, clock)

	require.NoError(t, c.Refresh(context.Background(), false))
	// A burst of mounts within the window produces no further calls.
	for range 5 {
		require.NoError(t, c.Refresh(context.Background(), false))
	}
	assert.Equal(t, 1, fetcher.Calls())

	// Just inside the window: still suppressed.
	clock.Advance(DefaultDedupeWindow - time.Millisecond)
	require.NoError(t, c.Refresh(context.Background(), false))
	assert.Equal(t, 1, fetcher.Calls())

	// Past the window: one more call.
	clock.Advance(2 * time.Millisecond)
	require.NoError(t, c.Refresh(context.Background(), false))
	assert.Equal(t, 2, fetcher.Calls())
}

func TestCache_LoggedOutCooldownSuppressesChecks(t *testing.T) {
	clock := newFakeClock()
	fetcher := &countingFetcher{} // nil claims: unauthenticated
	c := newTestCache(fetcher, clock)

	require.NoError(t, c.Refresh(context.Background(), false))
	assert.True(t, c.Snapshot().LastResultWasNull)
	assert.Equal(t, 1, fetcher.Calls())

	// 5s later: well past the dedupe window, but the cooldown holds.
	clock.Advance(5 * time.Second)
	require.NoError(t, c.Refresh(context.Background(), false))
	assert.Equal(t, 1, fetcher.Calls())

	// 31s after the first check: cooldown expired.
	clock.Advance(26 * time.Second)
	require.NoError(t, c.Refresh(context.Background(), false))
	assert.Equal(t, 2, fetcher.Calls())
}

func TestCache_ForcedRefreshBypassesAllWindows(t *testing.T) {
	clock := newFakeClock()
	fetcher := &countingFetcher{} // logged out, cooldown armed
	c := newTestCache(fetcher, clock)

	require.NoError(t, c.Refresh(context.Background(), false))
	assert.Equal(t, 1, fetcher.Calls())

	// Immediately after (inside dedupe AND cooldown), force goes through.
	fetcher.set(memberClaims(), nil)
	require.NoError(t, c.Refresh(context.Background(), true))
	assert.Equal(t, 2, fetcher.Calls())
	require.NotNil(t, c.Snapshot().Identity)
}

func TestCache_ForcedRefreshSkipsInFlightFetch(t *testing.T) {
	clock := newFakeClock()
	hold := make(chan struct{})
	entered := make(chan struct{})
	fetcher := &blockingFetcher{hold: hold, entered: entered}
	c := newTestCache(fetcher, clock)

	// A mount-triggered refresh is held in flight, still answering for the
	// logged-out session.
	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background(), false) }()
	<-entered

	// Login completes; the post-login forced refresh must perform its own
	// network call rather than joining the held fetch and adopting its
	// pre-login answer.
	fetcher.set(memberClaims())
	clock.Advance(100 * time.Millisecond)
	require.NoError(t, c.Refresh(context.Background(), true))
	assert.Equal(t, 2, fetcher.Calls())

	snap := c.Snapshot()
	require.NotNil(t, snap.Identity)
	assert.Equal(t, "mock_user_1", snap.Identity.Subject)
	assert.False(t, snap.LastResultWasNull)

	// The held fetch finally returns its stale null; the newer committed
	// result must survive it.
	close(hold)
	require.NoError(t, <-done)

	snap = c.Snapshot()
	require.NotNil(t, snap.Identity)
	assert.Equal(t, "mock_user_1", snap.Identity.Subject)
	assert.False(t, snap.LastResultWasNull)
	assert.False(t, snap.Loading)
}

func TestCache_StaleCommitDiscarded(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(&countingFetcher{claims: memberClaims()}, clock)

	require.NoError(t, c.Refresh(context.Background(), false))
	require.NotNil(t, c.Snapshot().Identity)

	// A result stamped before the committed refresh is an answer to an
	// older question; last call wins.
	c.commit(clock.Now().Add(-time.Second), nil, nil)

	snap := c.Snapshot()
	require.NotNil(t, snap.Identity)
	assert.False(t, snap.LastResultWasNull)
}

func TestCache_FetchErrorDoesNotStickLoading(t *testing.T) {
	fetcher := &countingFetcher{err: errors.New("connection refused")}
	c := newTestCache(fetcher, newFakeClock())

	err := c.Refresh(context.Background(), false)
	require.Error(t, err)

	snap := c.Snapshot()
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.Identity)
	assert.Error(t, snap.Err)
	// Errors arm the cooldown like a null result.
	assert.True(t, snap.LastResultWasNull)
}

func TestCache_ErrorClearedOnNextRefresh(t *testing.T) {
	clock := newFakeClock()
	fetcher := &countingFetcher{err: errors.New("connection refused")}
	c := newTestCache(fetcher, clock)

	require.Error(t, c.Refresh(context.Background(), false))

	fetcher.set(memberClaims(), nil)
	require.NoError(t, c.Refresh(context.Background(), true))

	snap := c.Snapshot()
	assert.NoError(t, snap.Err)
	require.NotNil(t, snap.Identity)
}

func TestCache_EnsureInitRunsExactlyOnce(t *testing.T) {
	fetcher := &countingFetcher{claims: memberClaims()}
	c := newTestCache(fetcher, newFakeClock())

	for range 3 {
		c.EnsureInit(context.Background())
	}
	assert.Equal(t, 1, fetcher.Calls())
}

func TestCache_SubscribeAndUnsubscribe(t *testing.T) {
	clock := newFakeClock()
	fetcher := &countingFetcher{claims: memberClaims()}
	c := newTestCache(fetcher, clock)

	var mu sync.Mutex
	notified := 0
	unsubscribe := c.Subscribe(func() {
		mu.Lock()
		notified++
		mu.Unlock()
	})

	require.NoError(t, c.Refresh(context.Background(), false))
	mu.Lock()
	afterFirst := notified
	mu.Unlock()
	// Loading transition plus commit.
	assert.GreaterOrEqual(t, afterFirst, 2)

	unsubscribe()
	clock.Advance(time.Second)
	require.NoError(t, c.Refresh(context.Background(), false))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, afterFirst, notified)
}

func TestCache_RevalidateOnFocusHonorsCooldown(t *testing.T) {
	clock := newFakeClock()
	fetcher := &countingFetcher{} // logged out
	c := newTestCache(fetcher, clock)

	c.EnsureInit(context.Background())
	assert.Equal(t, 1, fetcher.Calls())

	// Focus events while the logged-out cooldown holds are free.
	clock.Advance(2 * time.Second)
	c.RevalidateOnFocus(context.Background())
	assert.Equal(t, 1, fetcher.Calls())

	clock.Advance(DefaultLoggedOutCooldown)
	c.RevalidateOnFocus(context.Background())
	assert.Equal(t, 2, fetcher.Calls())
}

func TestCache_SnapshotIsolatedFromLaterWrites(t *testing.T) {
	clock := newFakeClock()
	fetcher := &countingFetcher{claims: memberClaims()}
	c := newTestCache(fetcher, clock)

	require.NoError(t, c.Refresh(context.Background(), false))
	before := c.Snapshot()

	fetcher.set(nil, nil)
	clock.Advance(time.Second)
	require.NoError(t, c.Refresh(context.Background(), false))

	// The earlier snapshot still shows the identity it was taken with.
	require.NotNil(t, before.Identity)
	assert.Nil(t, c.Snapshot().Identity)
}
