// Package pubsub fans simulation frames out to renderers.
package pubsub

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 64

// ErrShutdown is returned when subscribing to a hub that has been shut down.
var ErrShutdown = errors.New("pubsub: hub is shut down")

// Hub broadcasts values of type T to every live subscriber.
type Hub[T any] struct {
	subscribers map[*Subscription[T]]struct{}
	mu          sync.RWMutex
	buffer      int
	dropped     atomic.Uint64
	shutdown    chan struct{}
	shutdownMu  sync.Mutex
	isShutdown  bool
}

// Subscription receives published values until it is cancelled.
type Subscription[T any] struct {
	channel   chan T
	hub       *Hub[T]
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewHub creates a hub whose subscribers buffer up to buffer values.
// A non-positive buffer selects DefaultBuffer.
func NewHub[T any](buffer int) *Hub[T] {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub[T]{
		subscribers: make(map[*Subscription[T]]struct{}),
		buffer:      buffer,
		shutdown:    make(chan struct{}),
	}
}

// Subscribe registers a subscriber that lives until ctx is done, Unsubscribe
// is called or the hub shuts down. The channel is closed at that point.
func (h *Hub[T]) Subscribe(ctx context.Context) (*Subscription[T], error) {
	h.shutdownMu.Lock()
	if h.isShutdown {
		h.shutdownMu.Unlock()
		return nil, ErrShutdown
	}
	h.shutdownMu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription[T]{
		channel: make(chan T, h.buffer),
		hub:     h,
		cancel:  cancel,
	}

	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()

	go func() {
		select {
		case <-subCtx.Done():
			sub.Unsubscribe()
		case <-h.shutdown:
			sub.close()
		}
	}()

	return sub, nil
}

// Publish delivers v to every subscriber without blocking. A subscriber
// whose buffer is full misses v; Dropped counts those misses.
func (h *Hub[T]) Publish(v T) {
	h.shutdownMu.Lock()
	if h.isShutdown {
		h.shutdownMu.Unlock()
		return
	}
	h.shutdownMu.Unlock()

	h.mu.RLock()
	subs := make([]*Subscription[T], 0, len(h.subscribers))
	for sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		sub.send(v, &h.dropped)
	}
}

// SubscriberCount returns the number of live subscribers.
func (h *Hub[T]) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Dropped returns how many deliveries were skipped on full buffers.
func (h *Hub[T]) Dropped() uint64 {
	return h.dropped.Load()
}

// Shutdown closes every subscription. Later Publish calls are ignored.
func (h *Hub[T]) Shutdown() {
	h.shutdownMu.Lock()
	if h.isShutdown {
		h.shutdownMu.Unlock()
		return
	}
	h.isShutdown = true
	h.shutdownMu.Unlock()

	close(h.shutdown)

	h.mu.Lock()
	for sub := range h.subscribers {
		sub.close()
		delete(h.subscribers, sub)
	}
	h.mu.Unlock()
}

// Channel returns the subscription's receive channel.
func (s *Subscription[T]) Channel() <-chan T {
	return s.channel
}

// Unsubscribe detaches the subscription and closes its channel.
func (s *Subscription[T]) Unsubscribe() {
	s.cancel()

	s.hub.mu.Lock()
	delete(s.hub.subscribers, s)
	s.hub.mu.Unlock()

	s.close()
}

// send holds the hub read lock so it cannot race with close.
func (s *Subscription[T]) send(v T, dropped *atomic.Uint64) {
	s.hub.mu.RLock()
	defer s.hub.mu.RUnlock()
	if _, ok := s.hub.subscribers[s]; !ok {
		return
	}
	select {
	case s.channel <- v:
	default:
		dropped.Add(1)
	}
}

func (s *Subscription[T]) close() {
	s.closeOnce.Do(func() {
		close(s.channel)
	})
}
