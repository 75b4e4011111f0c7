// Package stream provides a push-based publish/subscribe primitive for
// snapshot values.
package stream

import (
	"context"
	"sync"
)

// Broadcaster fans published values out to subscribers.
//
// Subscribers receive the most recent value on subscription and then every
// later value, except that a value not yet received is replaced by a newer
// one. Publish never blocks on a slow subscriber.
type Broadcaster[T any] struct {
	mu        sync.Mutex
	subs      map[int]chan T
	nextID    int
	latest    T
	hasLatest bool
}

// New creates an empty Broadcaster.
func New[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{subs: make(map[int]chan T)}
}

// Publish records v as the latest value and delivers it to all subscribers.
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.latest = v
	b.hasLatest = true
	for _, ch := range b.subs {
		offer(ch, v)
	}
}

// Latest returns the most recently published value.
func (b *Broadcaster[T]) Latest() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest, b.hasLatest
}

// Subscribers returns the number of active subscriptions.
func (b *Broadcaster[T]) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Subscribe returns a channel of published values. The latest value, if any,
// is delivered first. The channel is closed once ctx is done.
func (b *Broadcaster[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	if b.hasLatest {
		ch <- b.latest
	}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		close(ch)
		b.mu.Unlock()
	}()

	return ch
}

// offer replaces any pending value in ch with v. Callers hold b.mu, so no
// other goroutine sends on ch concurrently.
func offer[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
