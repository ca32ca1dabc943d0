package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-arcade/bookbuild/pkg/event"
	"github.com/go-arcade/bookbuild/pkg/id"
	"github.com/go-arcade/bookbuild/pkg/log"
)

// Notifier fans bus events out to every registered sink
type Notifier struct {
	mu    sync.RWMutex
	sinks []Sink
}

func NewNotifier(sinks ...Sink) *Notifier {
	return &Notifier{sinks: sinks}
}

func (n *Notifier) AddSink(s Sink) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sinks = append(n.sinks, s)
}

func (n *Notifier) Sinks() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	names := make([]string, 0, len(n.sinks))
	for _, s := range n.sinks {
		names = append(names, s.Name())
	}
	return names
}

// Handle implements event.EventHandler. Every sink is attempted; failures are joined.
func (n *Notifier) Handle(ctx context.Context, e event.Event) error {
	msg := Message{
		ID:         id.GetUlid(),
		Topic:      e.EventName(),
		Type:       e.EventType(),
		OccurredAt: time.Now().UTC(),
	}
	if p, ok := e.(Payloader); ok {
		msg.Data = p.Payload()
	}

	n.mu.RLock()
	sinks := append([]Sink(nil), n.sinks...)
	n.mu.RUnlock()

	var errs []error
	for _, s := range sinks {
		if err := s.Deliver(ctx, msg); err != nil {
			log.WithContext(ctx).Warnw("notification delivery failed", "sink", s.Name(), "topic", msg.Topic, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (n *Notifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	var errs []error
	for _, s := range n.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	n.sinks = nil
	return errors.Join(errs...)
}
