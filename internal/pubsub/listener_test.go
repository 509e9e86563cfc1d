package pubsub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEach_DeliversEventsInOrder(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := broker.Subscribe(ctx)

	var (
		mu  sync.Mutex
		got []string
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		Each(ctx, ch, func(e Event[string]) {
			mu.Lock()
			got = append(got, e.Payload)
			mu.Unlock()
		})
	}()

	broker.Publish(LogEntryEvent, "a")
	broker.Publish(PageHighlightedEvent, "b")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "Each did not return after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"a", "b"}, got)
}

func TestEach_ReturnsWhenChannelClosed(t *testing.T) {
	broker := NewBroker[int]()
	ch := broker.Subscribe(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		Each(context.Background(), ch, func(Event[int]) {})
	}()

	broker.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "Each did not return after broker close")
	}
}

func TestEach_NilChannel(t *testing.T) {
	require.NotPanics(t, func() {
		Each[string](context.Background(), nil, func(Event[string]) {
			t.Fatal("callback must not run")
		})
	})
}
