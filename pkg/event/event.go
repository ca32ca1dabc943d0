package event

import "context"

// Event is anything published on the bus
type Event interface {
	// EventName is the routing key handlers subscribe to, e.g. "deal.state_changed"
	EventName() string
	// EventType is the coarse family, e.g. "deal"
	EventType() string
}

type EventHandler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to EventHandler
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}
