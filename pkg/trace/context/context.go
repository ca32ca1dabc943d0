package context

import (
	"context"
	"sync"

	"github.com/timandy/routine"
	"go.opentelemetry.io/otel/trace"
)

const bucketsSize = 128

type contextBucket struct {
	lock sync.RWMutex
	data map[uint64]context.Context
}

var buckets [bucketsSize]*contextBucket

func init() {
	for i := range buckets {
		buckets[i] = &contextBucket{data: make(map[uint64]context.Context)}
	}
}

func bucketOf(goid uint64) *contextBucket {
	return buckets[goid%bucketsSize]
}

// GetContext returns the context bound to the current goroutine, or nil.
func GetContext() context.Context {
	goid := routine.Goid()
	b := bucketOf(goid)
	b.lock.RLock()
	defer b.lock.RUnlock()
	return b.data[goid]
}

// SetContext binds ctx to the current goroutine.
func SetContext(ctx context.Context) {
	goid := routine.Goid()
	b := bucketOf(goid)
	b.lock.Lock()
	defer b.lock.Unlock()
	b.data[goid] = ctx
}

// ClearContext removes the binding for the current goroutine.
func ClearContext() {
	goid := routine.Goid()
	b := bucketOf(goid)
	b.lock.Lock()
	defer b.lock.Unlock()
	delete(b.data, goid)
}

// RunWithContext runs fn with ctx bound to the current goroutine.
func RunWithContext(ctx context.Context, fn func(ctx context.Context)) {
	SetContext(ctx)
	defer ClearContext()
	fn(ctx)
}

// ContextWithSpan copies the goroutine-bound span into ctx when ctx has none.
func ContextWithSpan(ctx context.Context) context.Context {
	if trace.SpanContextFromContext(ctx).IsValid() {
		return ctx
	}
	if pct := GetContext(); pct != nil {
		if span := trace.SpanFromContext(pct); span.SpanContext().IsValid() {
			ctx = trace.ContextWithSpan(ctx, span)
		}
	}
	return ctx
}
