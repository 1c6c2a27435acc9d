// Package feed turns a ticker symbol into a rendered list of community posts.
//
// A Feed follows one symbol at a time. It reads through a Source (the
// revalidating cache) and only ever renders the outcome for its current
// target: results for a previous symbol that arrive late are ignored.
package feed

import (
	"SentimentTech/internal/pkg/swr"
	"context"
	"sync"
)

// Source is the fetch-cache collaborator.
type Source interface {
	Get(ctx context.Context, key string) swr.Snapshot[[]Record]
	Subscribe(key string, fn func(swr.Snapshot[[]Record])) (unsubscribe func())
}

type Feed struct {
	src    Source
	policy TimestampPolicy

	mu          sync.Mutex
	mounted     bool
	symbol      string
	target      string
	snap        swr.Snapshot[[]Record]
	unsubscribe func()
	changed     chan struct{}
	onChange    func(View)
}

func New(src Source, policy TimestampPolicy) *Feed {
	return &Feed{
		src:     src,
		policy:  policy,
		changed: make(chan struct{}),
	}
}

// OnChange registers fn to be called with the new View after every accepted update.
func (f *Feed) OnChange(fn func(View)) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

// Mount starts following symbol.
func (f *Feed) Mount(ctx context.Context, symbol string) {
	f.SetSymbol(ctx, symbol)
}

// SetSymbol switches to symbol. Interest in the previous target is dropped.
func (f *Feed) SetSymbol(ctx context.Context, symbol string) {
	f.mu.Lock()
	if f.mounted && f.symbol == symbol {
		f.mu.Unlock()
		return
	}
	prev := f.unsubscribe
	target := Target(symbol)
	f.mounted, f.symbol, f.target = true, symbol, target
	f.snap = swr.Snapshot[[]Record]{Key: target}
	f.unsubscribe = nil
	f.mu.Unlock()

	if prev != nil {
		prev()
	}

	unsubscribe := f.src.Subscribe(target, f.receive)
	snap := f.src.Get(ctx, target)

	f.mu.Lock()
	if !f.mounted || f.target != target {
		// 另一个 SetSymbol 或 Unmount 抢先了
		f.mu.Unlock()
		unsubscribe()
		return
	}
	f.unsubscribe = unsubscribe
	f.mu.Unlock()
	f.receive(snap)
}

// Unmount drops interest in the current target and forgets its data.
func (f *Feed) Unmount() {
	f.mu.Lock()
	prev := f.unsubscribe
	f.mounted, f.symbol, f.target = false, "", ""
	f.snap = swr.Snapshot[[]Record]{}
	f.unsubscribe = nil
	f.broadcastLocked()
	f.mu.Unlock()

	if prev != nil {
		prev()
	}
}

// Symbol returns the symbol currently followed.
func (f *Feed) Symbol() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.symbol
}

// View renders the current state.
func (f *Feed) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.viewLocked()
}

// Await blocks until the feed leaves the loading state or ctx ends, and
// returns the View at that point.
func (f *Feed) Await(ctx context.Context) View {
	for {
		f.mu.Lock()
		v := f.viewLocked()
		ch := f.changed
		mounted := f.mounted
		f.mu.Unlock()

		if v.State != StateLoading || !mounted {
			return v
		}
		select {
		case <-ctx.Done():
			return f.View()
		case <-ch:
		}
	}
}

func (f *Feed) receive(s swr.Snapshot[[]Record]) {
	f.mu.Lock()
	if !f.mounted || s.Key != f.target || s.Version < f.snap.Version {
		f.mu.Unlock()
		return
	}
	f.snap = s
	f.broadcastLocked()
	fn := f.onChange
	var v View
	if fn != nil {
		v = f.viewLocked()
	}
	f.mu.Unlock()

	if fn != nil {
		fn(v)
	}
}

func (f *Feed) viewLocked() View {
	return Select(f.symbol, FromSnapshot(f.snap), f.policy)
}

func (f *Feed) broadcastLocked() {
	close(f.changed)
	f.changed = make(chan struct{})
}
