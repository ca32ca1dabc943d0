package notify

import (
	"context"

	"github.com/go-arcade/bookbuild/pkg/log"
)

// LogSink writes every message to the application log
type LogSink struct{}

func (LogSink) Name() string { return TypeLog }

func (LogSink) Deliver(ctx context.Context, msg Message) error {
	log.WithContext(ctx).Infow("notification",
		"id", msg.ID,
		"topic", msg.Topic,
		"data", msg.Data,
	)
	return nil
}

func (LogSink) Close() error { return nil }
