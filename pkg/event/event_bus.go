package event

import (
	"context"
	"sync"

	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/go-arcade/bookbuild/pkg/safe"
)

// Wildcard subscribes a handler to every event
const Wildcard = "*"

// EventBus dispatches events synchronously to registered handlers. A failing
// or panicking handler is logged and does not stop the others.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[string][]EventHandler),
	}
}

func (eb *EventBus) RegisterHandler(eventName string, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.handlers[eventName] = append(eb.handlers[eventName], handler)
}

func (eb *EventBus) Publish(ctx context.Context, event Event) {
	eb.mu.RLock()
	handlers := make([]EventHandler, 0, len(eb.handlers[event.EventName()])+len(eb.handlers[Wildcard]))
	handlers = append(handlers, eb.handlers[event.EventName()]...)
	handlers = append(handlers, eb.handlers[Wildcard]...)
	eb.mu.RUnlock()

	for _, handler := range handlers {
		safe.Do(func() {
			if err := handler.Handle(ctx, event); err != nil {
				log.WithContext(ctx).Warnw("event handler failed",
					"event", event.EventName(),
					"error", err,
				)
			}
		})
	}
}
