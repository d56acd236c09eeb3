package feed

import (
	"context"
	"sync"
)

const subscriberBuffer = 32

// MemoryBroker is an in-process Broker. Slow subscribers drop changes once
// their buffer is full; every change only signals that a view must be
// re-derived, so a dropped change is covered by any later one.
type MemoryBroker struct {
	mu     sync.RWMutex
	subs   map[string]map[chan Change]struct{}
	closed bool
}

// NewMemoryBroker creates an empty in-process broker.
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[string]map[chan Change]struct{})}
}

// Publish delivers change to the board's subscribers. A subscriber whose
// buffer is full misses the change.
func (b *MemoryBroker) Publish(_ context.Context, change Change) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs[change.BoardID] {
		select {
		case ch <- change:
		default:
		}
	}
	return nil
}

// Subscribe registers for changes to boardID until cancel is called or ctx
// is done. The channel is closed afterwards.
func (b *MemoryBroker) Subscribe(ctx context.Context, boardID string) (<-chan Change, func()) {
	ch := make(chan Change, subscriberBuffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	if b.subs[boardID] == nil {
		b.subs[boardID] = make(map[chan Change]struct{})
	}
	b.subs[boardID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[boardID][ch]; !ok {
				return
			}
			delete(b.subs[boardID], ch)
			if len(b.subs[boardID]) == 0 {
				delete(b.subs, boardID)
			}
			close(ch)
		})
	}

	go func() {
		<-ctx.Done()
		cancel()
	}()

	return ch, cancel
}

// Close drops all subscribers.
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for boardID, set := range b.subs {
		for ch := range set {
			close(ch)
		}
		delete(b.subs, boardID)
	}
	b.closed = true
	return nil
}
