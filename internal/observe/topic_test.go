package observe

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

func TestTopic_AllSubscribersReceive(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	topic := NewTopic[int]("test", nil)
	a, idA := topic.Subscribe(ctx)
	b, idB := topic.Subscribe(ctx)
	assert.NotEqual(t, idA, idB)
	assert.Equal(t, 2, topic.Len())

	topic.Publish(7)
	assert.Equal(t, 7, receive(t, a))
	assert.Equal(t, 7, receive(t, b))
}

func TestTopic_LatestValueWins(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	topic := NewTopic[string]("test", nil)
	ch, _ := topic.Subscribe(ctx)

	topic.Publish("first")
	topic.Publish("second")
	topic.Publish("third")

	assert.Equal(t, "third", receive(t, ch))
	select {
	case v := <-ch:
		t.Fatalf("unexpected extra value %q", v)
	default:
	}
}

func TestTopic_ContextCancelUnsubscribes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	topic := NewTopic[int]("test", nil)
	ch, _ := topic.Subscribe(ctx)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel should be closed after cancel")
	case <-time.After(time.Second):
		t.Fatal("subscription not cleaned up")
	}
	assert.Eventually(t, func() bool { return topic.Len() == 0 }, time.Second, 5*time.Millisecond)

	// Publishing after unsubscribe must not panic.
	topic.Publish(1)
}

func TestTopic_UnsubscribeTwiceIsSafe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	topic := NewTopic[int]("test", nil)
	_, id := topic.Subscribe(ctx)
	topic.Unsubscribe(id)
	topic.Unsubscribe(id)
	assert.Equal(t, 0, topic.Len())
}

func TestTopic_CloseClosesSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	topic := NewTopic[int]("test", nil)
	ch, _ := topic.Subscribe(ctx)
	topic.Close()

	_, ok := <-ch
	assert.False(t, ok)

	late, _ := topic.Subscribe(ctx)
	_, ok = <-late
	assert.False(t, ok)
}

func TestTopic_ConcurrentPublishSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	topic := NewTopic[int]("test", nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ch, _ := topic.Subscribe(ctx)
			select {
			case <-ch:
			case <-time.After(10 * time.Millisecond):
			}
		}()
		go func(n int) {
			defer wg.Done()
			topic.Publish(n)
		}(i)
	}
	wg.Wait()
}
