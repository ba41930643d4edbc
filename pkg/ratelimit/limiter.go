// Package ratelimit implements the fixed-window request limiter shared by the
// form client and the public endpoints.
//
// Counters live behind the Store interface so that the same policy can run on a
// process-local map or on a shared Redis instance. With the in-memory store the
// effective limit is per process only, which is approximate when the API is
// scaled horizontally.
package ratelimit

import (
	"context"
	"time"
)

// UnknownIdentifier is used when neither an address nor an email is known.
// Every such caller shares one bucket.
const UnknownIdentifier = "unknown"

// DefaultCleanupInterval is how often RunCleanup sweeps expired entries.
const DefaultCleanupInterval = 5 * time.Minute

// Entry is the counter stored for one identifier.
type Entry struct {
	Count   int
	ResetAt time.Time
}

// Store persists entries. Apply must run fn and write its result atomically
// with respect to concurrent Apply calls on the same key.
type Store interface {
	Apply(ctx context.Context, key string, fn func(cur Entry, found bool) (next Entry, write bool)) error
	Get(ctx context.Context, key string) (Entry, bool, error)
}

// Sweeper is implemented by stores that need explicit removal of expired entries.
type Sweeper interface {
	Sweep(now time.Time) int
}

// Policy configures a limiter.
type Policy struct {
	Name        string
	Window      time.Duration
	MaxRequests int
}

var (
	// FormSubmission allows 3 submissions per minute.
	FormSubmission = Policy{Name: "form_submission", Window: time.Minute, MaxRequests: 3}
	// FileUpload allows 10 uploads per 5 minutes.
	FileUpload = Policy{Name: "file_upload", Window: 5 * time.Minute, MaxRequests: 10}
)

// Limiter applies a Policy to identifiers.
type Limiter struct {
	store  Store
	policy Policy
	now    func() time.Time
}

// Option customises a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a limiter. A nil store means a fresh MemoryStore.
func New(store Store, policy Policy, opts ...Option) *Limiter {
	if store == nil {
		store = NewMemoryStore()
	}
	l := &Limiter{store: store, policy: policy, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Policy returns the limiter configuration.
func (l *Limiter) Policy() Policy {
	return l.policy
}

func (l *Limiter) key(id string) string {
	if l.policy.Name == "" {
		return id
	}
	return l.policy.Name + ":" + id
}

// Allow records a request for id and reports whether it is within the limit.
// A denied request leaves the entry untouched.
func (l *Limiter) Allow(ctx context.Context, id string) (bool, error) {
	now := l.now()
	allowed := false

	err := l.store.Apply(ctx, l.key(id), func(cur Entry, found bool) (Entry, bool) {
		// the window is [start, ResetAt): at ResetAt it has elapsed
		if !found || !now.Before(cur.ResetAt) {
			allowed = true
			return Entry{Count: 1, ResetAt: now.Add(l.policy.Window)}, true
		}
		if cur.Count >= l.policy.MaxRequests {
			return cur, false
		}
		allowed = true
		cur.Count++
		return cur, true
	})
	if err != nil {
		return false, err
	}
	return allowed, nil
}

// RemainingTime returns how long until the window for id resets, floored at zero.
func (l *Limiter) RemainingTime(ctx context.Context, id string) (time.Duration, error) {
	entry, found, err := l.store.Get(ctx, l.key(id))
	if err != nil || !found {
		return 0, err
	}
	remaining := entry.ResetAt.Sub(l.now())
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

// Cleanup purges expired entries when the store needs it. Correctness does not
// depend on it; expiry is also checked lazily in Allow.
func (l *Limiter) Cleanup() int {
	if s, ok := l.store.(Sweeper); ok {
		return s.Sweep(l.now())
	}
	return 0
}

// RunCleanup sweeps every limiter on a fixed interval until ctx is done.
func RunCleanup(ctx context.Context, interval time.Duration, limiters ...*Limiter) {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, l := range limiters {
				l.Cleanup()
			}
		}
	}
}

// Identifier picks the rate-limit key for a caller: the network address when
// known, otherwise the submitted email, otherwise UnknownIdentifier.
func Identifier(ip, email string) string {
	if ip != "" {
		return ip
	}
	if email != "" {
		return email
	}
	return UnknownIdentifier
}

// RetrySeconds rounds a wait up to whole seconds.
func RetrySeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
