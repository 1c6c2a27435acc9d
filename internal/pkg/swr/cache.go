// Package swr is a stale-while-revalidate cache keyed by request target.
//
// Get never blocks: it returns whatever is known about a key and starts a
// background revalidation when the entry is missing or older than the dedupe
// interval. Concurrent revalidations of one key collapse into a single fetch.
// Subscribers of a key are told about every state change of that key.
package swr

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Fetcher loads the value for key.
type Fetcher[T any] func(ctx context.Context, key string) (T, error)

type Options struct {
	// DedupeInterval is how long a settled entry is served without a new request.
	DedupeInterval time.Duration
	// StaleTTL drops data older than this before revalidating. Zero keeps stale data forever.
	StaleTTL time.Duration
	// RequestTimeout bounds a single fetch. Zero means no bound.
	RequestTimeout time.Duration
	// MaxEntries caps the number of keys. Zero means unbounded.
	MaxEntries int
}

type MetricsHooks struct {
	OnHit   func(key string)
	OnMiss  func(key string)
	OnStale func(key string)
	OnError func(key string)
}

// Snapshot is the observable state of one key.
type Snapshot[T any] struct {
	Key        string
	Data       T
	HasData    bool
	Err        error
	Validating bool
	UpdatedAt  time.Time
	// Version increases on every change of the key.
	Version uint64
}

type entry[T any] struct {
	snap      Snapshot[T]
	settledAt time.Time
}

type Cache[T any] struct {
	mu      sync.Mutex
	items   map[string]*entry[T]
	order   []string
	subs    map[string]map[uint64]func(Snapshot[T])
	nextSub uint64

	fetch   Fetcher[T]
	opts    Options
	metrics MetricsHooks
	sf      singleflight.Group
	now     func() time.Time
	wg      sync.WaitGroup
}

func New[T any](fetch Fetcher[T], opts Options, hooks MetricsHooks) *Cache[T] {
	return &Cache[T]{
		items:   make(map[string]*entry[T]),
		order:   make([]string, 0, 64),
		subs:    make(map[string]map[uint64]func(Snapshot[T])),
		fetch:   fetch,
		opts:    opts,
		metrics: hooks,
		now:     time.Now,
	}
}

// Get returns the current snapshot for key, revalidating in the background
// when the entry is missing or past the dedupe interval.
func (c *Cache[T]) Get(ctx context.Context, key string) Snapshot[T] {
	now := c.now()
	c.mu.Lock()
	e, ok := c.items[key]
	switch {
	case !ok:
		e = &entry[T]{snap: Snapshot[T]{Key: key}}
		c.items[key] = e
		c.order = append(c.order, key)
		c.hook(c.metrics.OnMiss, key)
	case e.snap.Validating:
		snap := e.snap
		c.mu.Unlock()
		c.hook(c.metrics.OnHit, key)
		return snap
	case now.Sub(e.settledAt) < c.opts.DedupeInterval:
		snap := e.snap
		c.mu.Unlock()
		c.hook(c.metrics.OnHit, key)
		return snap
	default:
		if c.opts.StaleTTL > 0 && e.snap.HasData && now.Sub(e.snap.UpdatedAt) > c.opts.StaleTTL {
			var zero T
			e.snap.Data, e.snap.HasData = zero, false
		}
		c.hook(c.metrics.OnStale, key)
	}
	snap, notify := c.startLocked(ctx, e)
	c.evictLocked()
	c.mu.Unlock()

	c.publish(snap, notify)
	return snap
}

// Revalidate forces a background refresh of key unless one is already running.
func (c *Cache[T]) Revalidate(ctx context.Context, key string) {
	c.mu.Lock()
	e, ok := c.items[key]
	if !ok {
		e = &entry[T]{snap: Snapshot[T]{Key: key}}
		c.items[key] = e
		c.order = append(c.order, key)
	}
	if e.snap.Validating {
		c.mu.Unlock()
		return
	}
	snap, notify := c.startLocked(ctx, e)
	c.evictLocked()
	c.mu.Unlock()
	c.publish(snap, notify)
}

// Await triggers Get and blocks until key is no longer validating or ctx ends.
func (c *Cache[T]) Await(ctx context.Context, key string) Snapshot[T] {
	settled := make(chan Snapshot[T], 1)
	unsubscribe := c.Subscribe(key, func(s Snapshot[T]) {
		if s.Validating {
			return
		}
		select {
		case settled <- s:
		default:
		}
	})
	defer unsubscribe()

	snap := c.Get(ctx, key)
	if !snap.Validating {
		return snap
	}
	select {
	case s := <-settled:
		return s
	case <-ctx.Done():
		current, _ := c.Peek(key)
		return current
	}
}

// Peek returns the snapshot for key without triggering a fetch.
func (c *Cache[T]) Peek(key string) (Snapshot[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		return Snapshot[T]{Key: key}, false
	}
	return e.snap, true
}

// Subscribe registers fn for state changes of key. The returned func removes it.
// fn runs on the goroutine that changed the state and must not block.
func (c *Cache[T]) Subscribe(key string, fn func(Snapshot[T])) func() {
	c.mu.Lock()
	c.nextSub++
	id := c.nextSub
	if c.subs[key] == nil {
		c.subs[key] = make(map[uint64]func(Snapshot[T]))
	}
	c.subs[key][id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs[key], id)
			if len(c.subs[key]) == 0 {
				delete(c.subs, key)
			}
			c.mu.Unlock()
		})
	}
}

// Keys lists cached keys, oldest first.
func (c *Cache[T]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Delete drops key. An in-flight fetch for it will store a fresh entry when it settles.
func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.removeFromOrderLocked(key)
	c.mu.Unlock()
}

// Wait blocks until all background fetches started so far have settled.
func (c *Cache[T]) Wait() {
	c.wg.Wait()
}

func (c *Cache[T]) startLocked(ctx context.Context, e *entry[T]) (Snapshot[T], []func(Snapshot[T])) {
	e.snap.Validating = true
	e.snap.Version++
	key := e.snap.Key

	// 后台请求不随调用方取消，只保留 trace 等上下文值
	bg := context.WithoutCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		_, _, _ = c.sf.Do(key, func() (interface{}, error) {
			fetchCtx := bg
			if c.opts.RequestTimeout > 0 {
				var cancel context.CancelFunc
				fetchCtx, cancel = context.WithTimeout(bg, c.opts.RequestTimeout)
				defer cancel()
			}
			val, err := c.fetch(fetchCtx, key)
			c.settle(key, val, err)
			return nil, nil
		})
	}()
	return e.snap, c.subscribersLocked(key)
}

func (c *Cache[T]) settle(key string, val T, err error) {
	now := c.now()
	c.mu.Lock()
	e, ok := c.items[key]
	if !ok {
		e = &entry[T]{snap: Snapshot[T]{Key: key}}
		c.items[key] = e
		c.order = append(c.order, key)
		c.evictLocked()
	}
	if err != nil {
		e.snap.Err = err
	} else {
		e.snap.Data, e.snap.HasData, e.snap.Err = val, true, nil
		e.snap.UpdatedAt = now
	}
	e.snap.Validating = false
	e.snap.Version++
	e.settledAt = now
	snap := e.snap
	notify := c.subscribersLocked(key)
	c.mu.Unlock()

	if err != nil {
		c.hook(c.metrics.OnError, key)
	}
	c.publish(snap, notify)
}

func (c *Cache[T]) subscribersLocked(key string) []func(Snapshot[T]) {
	subs := c.subs[key]
	if len(subs) == 0 {
		return nil
	}
	out := make([]func(Snapshot[T]), 0, len(subs))
	for _, fn := range subs {
		out = append(out, fn)
	}
	return out
}

func (c *Cache[T]) publish(snap Snapshot[T], fns []func(Snapshot[T])) {
	for _, fn := range fns {
		fn(snap)
	}
}

// evictLocked drops the oldest idle keys nobody is subscribed to.
func (c *Cache[T]) evictLocked() {
	if c.opts.MaxEntries <= 0 {
		return
	}
	for i := 0; len(c.items) > c.opts.MaxEntries && i < len(c.order); {
		victim := c.order[i]
		e := c.items[victim]
		if (e != nil && e.snap.Validating) || len(c.subs[victim]) > 0 {
			i++
			continue
		}
		delete(c.items, victim)
		c.order = append(c.order[:i], c.order[i+1:]...)
	}
}

func (c *Cache[T]) removeFromOrderLocked(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func (c *Cache[T]) hook(fn func(string), key string) {
	if fn != nil {
		fn(key)
	}
}
