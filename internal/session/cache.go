package session

// Package session holds the shared "who am I" cache: one source of truth
// for the current authenticated identity per running application instance,
// consumed concurrently by any number of UI components. The cache owns
// request deduplication, a logged-out cooldown, and forced-refresh
// semantics after login/logout.

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sva-utd/portal-api/internal/domain/auth"
)

// flightKey is the single singleflight key: there is only one identity.
const flightKey = "identity"

const (
	// DefaultDedupeWindow collapses bursts of near-simultaneous refreshes
	// from multiple mounting consumers into one round trip.
	DefaultDedupeWindow = 800 * time.Millisecond

	// DefaultLoggedOutCooldown suppresses identity checks while the last
	// known result was "unauthenticated", so logged-out visitors don't
	// hammer the backend with checks that will keep coming back empty.
	DefaultLoggedOutCooldown = 30 * time.Second
)

// Snapshot is a consistent point-in-time view of the cache entry.
// Consumers only ever receive copies; the entry itself is owned by the
// cache and mutated only inside the refresh routine.
type Snapshot struct {
	// Identity is the current claims, or nil when unauthenticated.
	Identity *auth.Claims
	// Loading is true from cache construction until the first refresh
	// commits, and during any in-flight refresh.
	Loading bool
	// Err is the last transport/parse failure, cleared on the next
	// refresh attempt. A "me: null" response is not an error.
	Err error
	// LastFetchedAt stamps the start of the most recent refresh attempt.
	LastFetchedAt time.Time
	// LastResultWasNull records that the most recent completed check came
	// back unauthenticated; it arms the cooldown.
	LastResultWasNull bool
}

// Fetcher performs one identity check. A nil Claims with nil error means
// "no authenticated session" and must not be reported as an error.
type Fetcher interface {
	FetchIdentity(ctx context.Context) (*auth.Claims, error)
}

// Options configures a Cache. Fetcher is required; everything else
// defaults sensibly.
type Options struct {
	Fetcher  Fetcher
	Dedupe   time.Duration    // zero means DefaultDedupeWindow
	Cooldown time.Duration    // zero means DefaultLoggedOutCooldown
	Clock    func() time.Time // injectable for tests; defaults to time.Now
	Logger   *slog.Logger
}

// Cache is the shared identity cache. Construct exactly one per
// application instance and hand it to every consumer; consumers get
// read-only snapshots and a refresh capability, never direct mutation.
type Cache struct {
	fetcher  Fetcher
	dedupe   time.Duration
	cooldown time.Duration
	now      func() time.Time
	logger   *slog.Logger

	group    singleflight.Group
	initOnce sync.Once

	mu          sync.Mutex
	state       Snapshot
	lastApplied time.Time // stamp of the newest committed refresh
	listeners   map[int]func()
	nextID      int
}

// New constructs a Cache in the initial state: loading, no identity.
func New(opts Options) *Cache {
	if opts.Dedupe <= 0 {
		opts.Dedupe = DefaultDedupeWindow
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = DefaultLoggedOutCooldown
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Cache{
		fetcher:   opts.Fetcher,
		dedupe:    opts.Dedupe,
		cooldown:  opts.Cooldown,
		now:       opts.Clock,
		logger:    opts.Logger,
		state:     Snapshot{Loading: true},
		listeners: make(map[int]func()),
	}
}

// Snapshot returns the current cache entry. It never blocks on I/O and
// never triggers a fetch.
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers a listener invoked after every committed state
// mutation and returns its unsubscribe function. Listeners run outside the
// cache's lock; a refresh issued from inside a listener goes through the
// normal entry point, where the dedupe window absorbs it instead of
// recursing.
func (c *Cache) Subscribe(fn func()) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// EnsureInit triggers the one-shot forced refresh the first time any
// consumer mounts. Repeated calls are no-ops.
func (c *Cache) EnsureInit(ctx context.Context) {
	c.initOnce.Do(func() {
		if err := c.Refresh(ctx, true); err != nil {
			c.logger.WarnContext(ctx, "initial identity refresh failed", "error", err)
		}
	})
}

// RevalidateOnFocus is the non-forced revalidation hook consumers call when
// their surface regains focus, so the identity view self-heals after the
// cookie expires or changes elsewhere, without continuous polling. The
// cooldown still applies while logged out.
func (c *Cache) RevalidateOnFocus(ctx context.Context) {
	if err := c.Refresh(ctx, false); err != nil {
		c.logger.WarnContext(ctx, "focus revalidation failed", "error", err)
	}
}

// Refresh (re)validates the identity subject to the dedupe/cooldown policy.
// It is idempotent and safe to call concurrently from any number of
// consumers; calls suppressed by policy return nil without touching the
// network. Callers must pass force=true immediately after any action that
// changes server-side session state (login, logout) — the cache does not
// observe those actions itself.
func (c *Cache) Refresh(ctx context.Context, force bool) error {
	now := c.now()

	c.mu.Lock()
	if !force && c.state.LastResultWasNull && now.Sub(c.state.LastFetchedAt) < c.cooldown {
		c.mu.Unlock()
		return nil
	}
	if !force && now.Sub(c.state.LastFetchedAt) < c.dedupe {
		c.mu.Unlock()
		return nil
	}
	stamp := now
	c.state.Loading = true
	c.state.Err = nil
	c.state.LastFetchedAt = stamp
	c.mu.Unlock()
	c.notify()

	var identity *auth.Claims
	var err error
	if force {
		// A forced refresh follows a server-side session change, so any
		// fetch already in flight is answering for the old session. Drop
		// the shared flight and always hit the network directly.
		c.group.Forget(flightKey)
		identity, err = c.fetcher.FetchIdentity(ctx)
	} else {
		// Concurrent refreshes that slip past the dedupe window share one
		// in-flight fetch rather than issuing parallel redundant calls.
		v, e, _ := c.group.Do(flightKey, func() (any, error) {
			return c.fetcher.FetchIdentity(ctx)
		})
		if v != nil {
			identity = v.(*auth.Claims)
		}
		err = e
	}
	c.commit(stamp, identity, err)
	return err
}

// commit applies a fetch result unless a strictly newer refresh already
// landed (last-call-wins for stale responses).
func (c *Cache) commit(stamp time.Time, identity *auth.Claims, err error) {
	c.mu.Lock()
	if stamp.Before(c.lastApplied) {
		c.mu.Unlock()
		return
	}
	c.lastApplied = stamp

	switch {
	case err != nil:
		// Fail toward "logged out" rather than leaving a stale loading
		// state forever.
		c.state.Identity = nil
		c.state.Loading = false
		c.state.Err = err
		c.state.LastResultWasNull = true
	default:
		c.state.Identity = identity
		c.state.Loading = false
		c.state.Err = nil
		c.state.LastResultWasNull = identity == nil
	}
	c.mu.Unlock()
	c.notify()
}

// notify invokes all listeners outside the lock.
func (c *Cache) notify() {
	c.mu.Lock()
	fns := make([]func(), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
