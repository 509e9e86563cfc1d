// Package pubsub provides a generic publish/subscribe event system.
package pubsub

import (
	"context"
	"time"
)

// EventType names what happened.
type EventType string

const (
	// LogEntryEvent carries one formatted log line.
	LogEntryEvent EventType = "log.entry"
	// PageHighlightedEvent reports a page that had blocks highlighted.
	PageHighlightedEvent EventType = "page.highlighted"
	// PageUnchangedEvent reports a page with nothing left to highlight.
	PageUnchangedEvent EventType = "page.unchanged"
	// PageFailedEvent reports a page that could not be processed.
	PageFailedEvent EventType = "page.failed"
)

// Event is a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher publishes events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
