package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type TestEvent struct {
	Name string
	Type string
}

func (e TestEvent) EventName() string {
	return e.Name
}

func (e TestEvent) EventType() string {
	return e.Type
}

type recorder struct {
	mu    sync.Mutex
	names []string
}

func (r *recorder) Handle(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, e.EventName())
	return nil
}

func TestEventBus_Publish(t *testing.T) {
	tests := []struct {
		name      string
		subscribe string
		publish   string
		want      []string
	}{
		{"exact match", "deal.opened", "deal.opened", []string{"deal.opened"}},
		{"no match", "deal.opened", "deal.closed", nil},
		{"wildcard", Wildcard, "deal.closed", []string{"deal.closed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := NewEventBus()
			rec := &recorder{}
			bus.RegisterHandler(tt.subscribe, rec)

			bus.Publish(context.Background(), TestEvent{Name: tt.publish, Type: "deal"})
			assert.Equal(t, tt.want, rec.names)
		})
	}
}

func TestEventBus_FailingHandlersDoNotStopOthers(t *testing.T) {
	bus := NewEventBus()
	rec := &recorder{}

	bus.RegisterHandler("x", HandlerFunc(func(context.Context, Event) error {
		return errors.New("sink down")
	}))
	bus.RegisterHandler("x", HandlerFunc(func(context.Context, Event) error {
		panic("boom")
	}))
	bus.RegisterHandler("x", rec)

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), TestEvent{Name: "x"})
	})
	assert.Equal(t, []string{"x"}, rec.names)
}
