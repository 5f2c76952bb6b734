// Package broadcast provides a single-value, multi-subscriber, send-once
// broadcast primitive: only the first Send call delivers a value, and
// every Subscribe caller — whether it subscribed before or after that
// Send — reads that same value back exactly once from its own
// Subscription.
package broadcast

import (
	"context"
	"sync"
)

// Broadcaster is the send side of a fire-once broadcast. The zero value is
// not usable; construct with NewBroadcaster.
type Broadcaster[T any] struct {
	mu    sync.Mutex
	subs  []chan T
	sent  bool
	value T
}

// NewBroadcaster constructs a Broadcaster with nothing sent yet.
func NewBroadcaster[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{}
}

// Subscribe registers a new subscription. If Send has already been
// called, the returned Subscription observes the sent value immediately;
// otherwise it receives it the moment a future Send call fires.
func (b *Broadcaster[T]) Subscribe() *Subscription[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan T, 1)
	if b.sent {
		ch <- b.value
	} else {
		b.subs = append(b.subs, ch)
	}
	return &Subscription[T]{ch: ch}
}

// Send fans v out to every current subscriber and marks the broadcaster
// sent, so later Subscribe calls observe v immediately. Only the first
// call has effect; it reports whether this call was the one that sent.
func (b *Broadcaster[T]) Send(v T) (sent bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sent {
		return false
	}
	b.sent = true
	b.value = v
	for _, ch := range b.subs {
		ch <- v
	}
	b.subs = nil
	return true
}

// Subscription is the receive side of a single subscriber's view onto a
// Broadcaster.
type Subscription[T any] struct {
	ch <-chan T
}

// Recv blocks until the broadcaster sends a value or ctx is done,
// whichever happens first.
func (s *Subscription[T]) Recv(ctx context.Context) (T, error) {
	select {
	case v := <-s.ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
