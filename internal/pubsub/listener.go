package pubsub

import "context"

// Each calls fn for every event received on ch until ctx is cancelled or ch
// is closed. It blocks; run it in its own goroutine.
func Each[T any](ctx context.Context, ch <-chan Event[T], fn func(Event[T])) {
	if ch == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			fn(event)
		}
	}
}
