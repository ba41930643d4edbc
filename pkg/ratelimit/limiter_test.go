package ratelimit

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
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

func TestLimiter_FourthCallDenied(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStore()
	l := New(store, Policy{Window: 60 * time.Second, MaxRequests: 3}, WithClock(clock.Now))

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "call %d", i+1)
	}

	ok, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	// denial does not mutate the entry
	e, found, _ := store.Get(ctx, "10.0.0.1")
	require.True(t, found)
	assert.Equal(t, 3, e.Count)

	// other identifiers have their own bucket
	ok, _ = l.Allow(ctx, "10.0.0.2")
	assert.True(t, ok)
}

func TestLimiter_ResetsAfterWindow(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStore()
	l := New(store, Policy{Window: 60 * time.Second, MaxRequests: 3}, WithClock(clock.Now))

	for i := 0; i < 4; i++ {
		_, _ = l.Allow(ctx, "id")
	}

	clock.Advance(60*time.Second + time.Millisecond)

	ok, err := l.Allow(ctx, "id")
	require.NoError(t, err)
	assert.True(t, ok)

	e, _, _ := store.Get(ctx, "id")
	assert.Equal(t, 1, e.Count)
	assert.Equal(t, clock.Now().Add(60*time.Second), e.ResetAt)
}

func TestLimiter_WindowIsHalfOpen(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	l := New(nil, Policy{Window: time.Minute, MaxRequests: 1}, WithClock(clock.Now))

	ok, _ := l.Allow(ctx, "id")
	require.True(t, ok)

	clock.Advance(time.Minute - time.Millisecond)
	ok, _ = l.Allow(ctx, "id")
	assert.False(t, ok)

	clock.Advance(time.Millisecond)
	ok, _ = l.Allow(ctx, "id")
	assert.True(t, ok)
}

func TestLimiter_RemainingTime(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	l := New(nil, FormSubmission, WithClock(clock.Now))

	d, err := l.RemainingTime(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, d)

	_, _ = l.Allow(ctx, "id")
	clock.Advance(20 * time.Second)

	d, err = l.RemainingTime(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, 40*time.Second, d)

	clock.Advance(time.Hour)
	d, _ = l.RemainingTime(ctx, "id")
	assert.Zero(t, d)
}

func TestLimiter_CleanupSweepsExpired(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStore()
	l := New(store, FormSubmission, WithClock(clock.Now))

	_, _ = l.Allow(ctx, "a")
	clock.Advance(30 * time.Second)
	_, _ = l.Allow(ctx, "b")

	clock.Advance(31 * time.Second)
	assert.Equal(t, 1, l.Cleanup())
	assert.Equal(t, 1, store.Len())
}

func TestLimiter_PoliciesAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	forms := New(store, FormSubmission)
	uploads := New(store, FileUpload)

	for i := 0; i < FormSubmission.MaxRequests; i++ {
		_, _ = forms.Allow(ctx, "1.2.3.4")
	}
	ok, _ := forms.Allow(ctx, "1.2.3.4")
	assert.False(t, ok)

	ok, _ = uploads.Allow(ctx, "1.2.3.4")
	assert.True(t, ok)
}

func TestLimiter_ConcurrentAllowNeverExceedsMax(t *testing.T) {
	ctx := context.Background()
	l := New(nil, Policy{Window: time.Minute, MaxRequests: 10})

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow(ctx, "shared"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, allowed)
}

type failingStore struct{}

func (failingStore) Apply(context.Context, string, func(Entry, bool) (Entry, bool)) error {
	return errors.New("store down")
}
func (failingStore) Get(context.Context, string) (Entry, bool, error) {
	return Entry{}, false, errors.New("store down")
}

func TestLimiter_StoreErrorsPropagate(t *testing.T) {
	l := New(failingStore{}, FormSubmission)
	ok, err := l.Allow(context.Background(), "id")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Zero(t, l.Cleanup())
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "203.0.113.9", Identifier("203.0.113.9", "a@b.fr"))
	assert.Equal(t, "a@b.fr", Identifier("", "a@b.fr"))
	assert.Equal(t, UnknownIdentifier, Identifier("", ""))
}

func TestRetrySeconds(t *testing.T) {
	assert.Equal(t, 0, RetrySeconds(0))
	assert.Equal(t, 1, RetrySeconds(time.Millisecond))
	assert.Equal(t, 40, RetrySeconds(40*time.Second))
	assert.Equal(t, 41, RetrySeconds(40*time.Second+time.Nanosecond))
}

func TestRunCleanup_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunCleanup(ctx, time.Millisecond, New(nil, FormSubmission))
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunCleanup did not stop")
	}
}

func TestEntryEncoding(t *testing.T) {
	e := Entry{Count: 2, ResetAt: time.UnixMilli(1767225600123)}
	got, err := decodeEntry(encodeEntry(e))
	require.NoError(t, err)
	assert.Equal(t, e.Count, got.Count)
	assert.True(t, e.ResetAt.Equal(got.ResetAt))

	_, err = decodeEntry("garbage")
	assert.Error(t, err)
}

func TestRedisStore_Integration(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	prefix := "rltest:" + time.Now().Format("150405.000000") + ":"
	l := New(NewRedisStore(client, prefix), Policy{Name: "it", Window: 2 * time.Second, MaxRequests: 2})

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "x")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, "x")
	require.NoError(t, err)
	assert.False(t, ok)

	d, err := l.RemainingTime(ctx, "x")
	require.NoError(t, err)
	assert.True(t, d > 0 && d <= 2*time.Second)
}
