// Package events carries the in-process domain events the audit modules
// exchange, such as session creation and completion. It is platform
// plumbing; the event payloads themselves live with the modules that
// publish them.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event the bus carries.
type Event interface {
	// EventName identifies the event type, e.g. "audit.completed".
	EventName() string
	// OccurredAt reports when the event happened.
	OccurredAt() time.Time
}

// BaseEvent supplies the timestamp shared by all events; publishers embed
// it in their payload structs.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt reports when the event happened.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler consumes events of one registered type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls the underlying function.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus publishes domain events to their subscribers. The notification
// sender and the export scheduler subscribe through it so the audit
// service never imports either.
type Bus interface {
	// Publish delivers the event to every handler registered for its
	// name. Delivery is asynchronous.
	Publish(ctx context.Context, event Event)

	// PublishSync delivers the event and waits for every handler,
	// joining their errors.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler under an event name, matched
	// against Event.EventName at publish time.
	Subscribe(eventName string, handler Handler)
}
