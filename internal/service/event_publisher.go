package service

import (
	"context"

	"tabnote-be/pkg/events"
)

// EventPublisher is the slice of the NATS publisher the services depend
// on. Keeping it an interface lets tests record emissions and keeps a
// missing broker a nil check instead of a typed-nil trap.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}
