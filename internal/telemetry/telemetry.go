// Package telemetry reports product events. Reporting is fire-and-forget:
// a sink never blocks the caller and its failures never change the outcome
// of the operation that triggered the event.
package telemetry

import "context"

// Event names.
const (
	EventAppOpened         = "app opened"
	EventItemCompleted     = "item completed"
	EventCollectionCreated = "collection created"
	EventCollectionDeleted = "collection deleted"
	EventDataImported      = "data imported"
	EventDataReset         = "data reset"
)

// Sink receives events.
type Sink interface {
	Capture(ctx context.Context, event string, props map[string]any)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Capture(context.Context, string, map[string]any) {}
