package async

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

func requireClosed[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	select {
	case _, ok := <-ch:
		require.False(t, ok, "expected channel to be closed")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for close")
	}
}

func Test_Latest_ReplaysLatestToNewSubscriber(t *testing.T) {
	l := NewLatest(0)
	l.Publish(1)
	l.Publish(2)

	ch, cancel := l.Subscribe()
	defer cancel()

	assert.Equal(t, 2, receive(t, ch))
	l.Publish(3)
	assert.Equal(t, 3, receive(t, ch))
	assert.Equal(t, 3, l.Value())
}

func Test_Latest_DeliversEveryUpdateInOrder(t *testing.T) {
	l := NewLatest(-1)
	ch, cancel := l.Subscribe()
	defer cancel()

	// Publish without reading, nothing may be dropped or block.
	for i := 0; i < 100; i++ {
		require.True(t, l.Publish(i))
	}

	assert.Equal(t, -1, receive(t, ch))
	for i := 0; i < 100; i++ {
		assert.Equal(t, i, receive(t, ch))
	}
}

func Test_Latest_IndependentSubscribers(t *testing.T) {
	l := NewLatest("a")
	ch1, cancel1 := l.Subscribe()
	l.Publish("b")
	ch2, cancel2 := l.Subscribe()
	defer cancel2()
	assert.Equal(t, 2, l.NumSubscribers())

	assert.Equal(t, "a", receive(t, ch1))
	assert.Equal(t, "b", receive(t, ch1))
	assert.Equal(t, "b", receive(t, ch2))

	cancel1()
	cancel1()
	requireClosed(t, ch1)
	assert.Equal(t, 1, l.NumSubscribers())

	l.Publish("c")
	assert.Equal(t, "c", receive(t, ch2))
}

func Test_Latest_CloseDrainsThenCloses(t *testing.T) {
	l := NewLatest(0)
	ch, cancel := l.Subscribe()
	defer cancel()
	l.Publish(1)
	l.Close()
	l.Close()

	assert.False(t, l.Publish(2))
	assert.Equal(t, 0, receive(t, ch))
	assert.Equal(t, 1, receive(t, ch))
	requireClosed(t, ch)
	assert.Equal(t, 0, l.NumSubscribers())
}

func Test_Latest_SubscribeAfterClose(t *testing.T) {
	l := NewLatest(0)
	l.Publish(7)
	l.Close()

	ch, cancel := l.Subscribe()
	defer cancel()
	assert.Equal(t, 7, receive(t, ch))
	requireClosed(t, ch)
}
