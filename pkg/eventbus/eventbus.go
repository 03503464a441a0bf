package eventbus

import (
	"context"

	"github.com/amirasaad/walletledger/pkg/domain/events"
)

// HandlerFunc processes one event. A returned error is logged by the bus and,
// for durable drivers, routes the message to a dead-letter destination.
type HandlerFunc func(ctx context.Context, event events.Event) error

// Bus defines the contract for publishing and subscribing to domain events.
type Bus interface {
	Register(eventType events.EventType, handler HandlerFunc)
	Emit(ctx context.Context, event events.Event) error
}
