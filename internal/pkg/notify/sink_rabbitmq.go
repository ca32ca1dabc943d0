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
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQConfig configures the topic exchange messages are published to
type RabbitMQConfig struct {
	URL         string `mapstructure:"url"`
	Exchange    string `mapstructure:"exchange"`
	TopicPrefix string `mapstructure:"topicPrefix"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
}

func (c *RabbitMQConfig) SetDefaults() {
	if c.Exchange == "" {
		c.Exchange = "bookbuild.events"
	}
}

func (c RabbitMQConfig) Validate() error {
	if c.URL == "" {
		return errors.New("notify.rabbitmq.url is required")
	}
	return nil
}

type amqpPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQSink publishes persistent JSON messages keyed by topic
type RabbitMQSink struct {
	cfg     RabbitMQConfig
	conn    *amqp.Connection
	channel amqpPublisher
	mu      sync.Mutex
}

// NewRabbitMQSink dials the broker and declares a durable topic exchange
func NewRabbitMQSink(cfg RabbitMQConfig) (*RabbitMQSink, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	url := cfg.URL
	if cfg.Username != "" && cfg.Password != "" && !strings.Contains(url, "@") {
		url = strings.Replace(url, "://", fmt.Sprintf("://%s:%s@", cfg.Username, cfg.Password), 1)
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err = ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &RabbitMQSink{cfg: cfg, conn: conn, channel: ch}, nil
}

func (s *RabbitMQSink) Name() string { return TypeRabbitMQ }

func (s *RabbitMQSink) routingKey(topic string) string {
	if s.cfg.TopicPrefix == "" {
		return topic
	}
	return s.cfg.TopicPrefix + "." + topic
}

func (s *RabbitMQSink) Deliver(ctx context.Context, msg Message) error {
	body, err := sonic.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.channel == nil {
		return errors.New("rabbitmq sink is closed")
	}
	err = s.channel.PublishWithContext(ctx, s.cfg.Exchange, s.routingKey(msg.Topic), false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		MessageId:    msg.ID,
		Type:         msg.Type,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (s *RabbitMQSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	if s.channel != nil {
		errs = append(errs, s.channel.Close())
		s.channel = nil
	}
	if s.conn != nil {
		errs = append(errs, s.conn.Close())
		s.conn = nil
	}
	return errors.Join(errs...)
}
