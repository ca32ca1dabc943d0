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
	"context"
	"time"
)

const (
	TypeLog      = "log"
	TypeRabbitMQ = "rabbitmq"
	TypeWebhook  = "webhook"
)

// Config selects the outbound sink. The log sink is always installed;
// Type adds one external sink next to it.
type Config struct {
	Type     string         `mapstructure:"type"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
}

// Message is the plain data handed to delivery collaborators
type Message struct {
	ID         string         `json:"id"`
	Topic      string         `json:"topic"`
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurredAt"`
	Data       map[string]any `json:"data,omitempty"`
}

// Sink delivers messages to one destination
type Sink interface {
	Name() string
	Deliver(ctx context.Context, msg Message) error
	Close() error
}

// Payloader is implemented by events that carry data for subscribers
type Payloader interface {
	Payload() map[string]any
}
