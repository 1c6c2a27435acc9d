package swr

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedFetcher blocks every fetch until release is closed.
type gatedFetcher struct {
	calls   atomic.Int32
	release chan struct{}
	val     string
	err     error
}

func (g *gatedFetcher) fetch(_ context.Context, key string) (string, error) {
	g.calls.Add(1)
	<-g.release
	if g.err != nil {
		return "", g.err
	}
	return g.val + ":" + key, nil
}

func TestGetReturnsLoadingThenData(t *testing.T) {
	g := &gatedFetcher{release: make(chan struct{}), val: "v"}
	c := New(g.fetch, Options{DedupeInterval: time.Minute}, MetricsHooks{})

	snap := c.Get(context.Background(), "/a")
	assert.True(t, snap.Validating)
	assert.False(t, snap.HasData)

	close(g.release)
	c.Wait()

	snap, ok := c.Peek("/a")
	require.True(t, ok)
	assert.False(t, snap.Validating)
	assert.True(t, snap.HasData)
	assert.Equal(t, "v:/a", snap.Data)
}

func TestConcurrentGetsShareOneFetch(t *testing.T) {
	g := &gatedFetcher{release: make(chan struct{}), val: "v"}
	c := New(g.fetch, Options{DedupeInterval: time.Minute}, MetricsHooks{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Get(context.Background(), "/same")
		}()
	}
	wg.Wait()
	close(g.release)
	c.Wait()

	assert.Equal(t, int32(1), g.calls.Load())
}

func TestFreshEntryIsNotRefetched(t *testing.T) {
	g := &gatedFetcher{release: make(chan struct{}), val: "v"}
	close(g.release)
	c := New(g.fetch, Options{DedupeInterval: time.Minute}, MetricsHooks{})

	c.Await(context.Background(), "/a")
	snap := c.Get(context.Background(), "/a")

	assert.False(t, snap.Validating)
	assert.Equal(t, int32(1), g.calls.Load())
}

func TestStaleEntryServedWhileRevalidating(t *testing.T) {
	g := &gatedFetcher{release: make(chan struct{}), val: "v"}
	close(g.release)
	c := New(g.fetch, Options{DedupeInterval: time.Second}, MetricsHooks{})
	base := time.Now()
	c.now = func() time.Time { return base }

	c.Await(context.Background(), "/a")

	c.now = func() time.Time { return base.Add(2 * time.Second) }
	snap := c.Get(context.Background(), "/a")
	assert.True(t, snap.Validating)
	assert.True(t, snap.HasData, "stale data stays visible during revalidation")
	assert.Equal(t, "v:/a", snap.Data)

	c.Wait()
	assert.Equal(t, int32(2), g.calls.Load())
}

func TestStaleTTLDropsOldData(t *testing.T) {
	g := &gatedFetcher{release: make(chan struct{}), val: "v"}
	close(g.release)
	c := New(g.fetch, Options{DedupeInterval: time.Second, StaleTTL: time.Minute}, MetricsHooks{})
	base := time.Now()
	c.now = func() time.Time { return base }
	c.Await(context.Background(), "/a")

	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	snap := c.Get(context.Background(), "/a")
	assert.True(t, snap.Validating)
	assert.False(t, snap.HasData)
	c.Wait()
}

func TestErrorKeepsPreviousData(t *testing.T) {
	var fail atomic.Bool
	c := New(func(_ context.Context, key string) (string, error) {
		if fail.Load() {
			return "", errors.New("Network Error")
		}
		return "ok", nil
	}, Options{}, MetricsHooks{})

	snap := c.Await(context.Background(), "/a")
	require.NoError(t, snap.Err)

	fail.Store(true)
	snap = c.Await(context.Background(), "/a")
	require.EqualError(t, snap.Err, "Network Error")
	assert.True(t, snap.HasData)
	assert.Equal(t, "ok", snap.Data)
}

func TestSubscribersOnlySeeTheirKey(t *testing.T) {
	c := New(func(_ context.Context, key string) (string, error) {
		return key, nil
	}, Options{}, MetricsHooks{})

	var mu sync.Mutex
	var seen []string
	unsubscribe := c.Subscribe("/a", func(s Snapshot[string]) {
		mu.Lock()
		seen = append(seen, s.Key)
		mu.Unlock()
	})
	defer unsubscribe()

	c.Await(context.Background(), "/b")
	c.Await(context.Background(), "/a")

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	for _, k := range seen {
		assert.Equal(t, "/a", k)
	}
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	c := New(func(_ context.Context, key string) (string, error) {
		return key, nil
	}, Options{}, MetricsHooks{})

	var count atomic.Int32
	unsubscribe := c.Subscribe("/a", func(Snapshot[string]) { count.Add(1) })
	unsubscribe()
	unsubscribe()

	c.Await(context.Background(), "/a")
	assert.Zero(t, count.Load())
}

func TestAwaitHonoursContext(t *testing.T) {
	g := &gatedFetcher{release: make(chan struct{}), val: "v"}
	c := New(g.fetch, Options{}, MetricsHooks{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	snap := c.Await(ctx, "/slow")
	assert.True(t, snap.Validating)

	close(g.release)
	c.Wait()
}

func TestRequestTimeoutBoundsFetch(t *testing.T) {
	c := New(func(ctx context.Context, key string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}, Options{RequestTimeout: 10 * time.Millisecond}, MetricsHooks{})

	snap := c.Await(context.Background(), "/a")
	assert.ErrorIs(t, snap.Err, context.DeadlineExceeded)
}

func TestEvictionSkipsSubscribedKeys(t *testing.T) {
	c := New(func(_ context.Context, key string) (string, error) {
		return key, nil
	}, Options{MaxEntries: 2}, MetricsHooks{})

	unsubscribe := c.Subscribe("/pinned", func(Snapshot[string]) {})
	defer unsubscribe()

	c.Await(context.Background(), "/pinned")
	c.Await(context.Background(), "/b")
	c.Await(context.Background(), "/c")

	keys := c.Keys()
	assert.Len(t, keys, 2)
	assert.Contains(t, keys, "/pinned")
	assert.Contains(t, keys, "/c")
}

func TestDeleteForgetsKey(t *testing.T) {
	g := &gatedFetcher{release: make(chan struct{}), val: "v"}
	close(g.release)
	c := New(g.fetch, Options{DedupeInterval: time.Minute}, MetricsHooks{})

	c.Get(context.Background(), "/a")
	c.Get(context.Background(), "/b")
	c.Wait()

	c.Delete("/a")
	_, ok := c.Peek("/a")
	assert.False(t, ok)
	assert.Equal(t, []string{"/b"}, c.Keys())

	snap := c.Get(context.Background(), "/a")
	assert.True(t, snap.Validating, "a deleted key is fetched again")
	c.Wait()
	assert.Equal(t, int32(3), g.calls.Load())
}

func TestMetricsHooks(t *testing.T) {
	var hits, misses, errs atomic.Int32
	c := New(func(_ context.Context, key string) (string, error) {
		if key == "/bad" {
			return "", errors.New("boom")
		}
		return key, nil
	}, Options{DedupeInterval: time.Minute}, MetricsHooks{
		OnHit:   func(string) { hits.Add(1) },
		OnMiss:  func(string) { misses.Add(1) },
		OnError: func(string) { errs.Add(1) },
	})

	c.Await(context.Background(), "/a")
	c.Get(context.Background(), "/a")
	c.Await(context.Background(), "/bad")

	assert.Equal(t, int32(2), misses.Load())
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, int32(1), errs.Load())
}
