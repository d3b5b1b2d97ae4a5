// Package observe provides the publish/subscribe surface the stores expose
// to their consumers.
//
// A Topic carries state snapshots, not events: each subscriber holds at most
// one pending value and a newer publish replaces an unread older one. A slow
// consumer therefore always sees the latest state and never blocks a store.
package observe

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Topic fans out values of type T to subscribers.
type Topic[T any] struct {
	mu     sync.Mutex
	subs   map[string]chan T
	closed bool
	logger *zap.Logger
}

// NewTopic creates a topic. Pass nil logger to disable logging.
func NewTopic[T any](name string, logger *zap.Logger) *Topic[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Topic[T]{
		subs:   make(map[string]chan T),
		logger: logger.With(zap.String("topic", name)),
	}
}

// Subscribe registers a subscriber and returns its channel and ID. The
// subscription is removed and the channel closed when ctx is cancelled.
func (t *Topic[T]) Subscribe(ctx context.Context) (<-chan T, string) {
	id := uuid.New().String()
	ch := make(chan T, 1)

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		close(ch)
		return ch, id
	}
	t.subs[id] = ch
	t.mu.Unlock()

	t.logger.Debug("subscriber added", zap.String("sub_id", id))

	go func() {
		<-ctx.Done()
		t.Unsubscribe(id)
	}()

	return ch, id
}

// Publish delivers v to every subscriber without blocking.
func (t *Topic[T]) Publish(v T) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, ch := range t.subs {
		select {
		case ch <- v:
			continue
		default:
		}
		// Replace the unread value with the newer one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
			t.logger.Debug("dropped value for subscriber", zap.String("sub_id", id))
		}
	}
}

// Unsubscribe removes a subscription and closes its channel.
func (t *Topic[T]) Unsubscribe(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch, ok := t.subs[id]
	if !ok {
		return
	}
	delete(t.subs, id)
	close(ch)

	t.logger.Debug("subscriber removed", zap.String("sub_id", id))
}

// Len reports the number of active subscribers.
func (t *Topic[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}

// Close closes every subscriber channel. Later subscriptions receive an
// already-closed channel.
func (t *Topic[T]) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, ch := range t.subs {
		close(ch)
		delete(t.subs, id)
	}
	t.closed = true
}
