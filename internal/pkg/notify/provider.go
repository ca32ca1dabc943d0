// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package notify

import (
	"fmt"

	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(ProvideNotifier)

// ProvideNotifier builds the notifier with the log sink plus the configured one
func ProvideNotifier(cfg Config) (*Notifier, func(), error) {
	n := NewNotifier(LogSink{})

	switch cfg.Type {
	case "", TypeLog:
	case TypeRabbitMQ:
		s, err := NewRabbitMQSink(cfg.RabbitMQ)
		if err != nil {
			return nil, nil, err
		}
		n.AddSink(s)
	case TypeWebhook:
		s, err := NewWebhookSink(cfg.Webhook)
		if err != nil {
			return nil, nil, err
		}
		n.AddSink(s)
	default:
		return nil, nil, fmt.Errorf("unsupported notify type: %s", cfg.Type)
	}

	log.Infow("notifier initialized", "sinks", n.Sinks())
	cleanup := func() {
		if err := n.Close(); err != nil {
			log.Warnw("failed to close notifier", "error", err)
		}
	}
	return n, cleanup, nil
}
