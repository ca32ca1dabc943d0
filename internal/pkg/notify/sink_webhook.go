package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type WebhookConfig struct {
	URL     string            `mapstructure:"url"`
	Headers map[string]string `mapstructure:"headers"`
	Timeout time.Duration     `mapstructure:"timeout"`
	Retries int               `mapstructure:"retries"`
}

// WebhookSink POSTs each message as JSON
type WebhookSink struct {
	url    string
	client *resty.Client
}

func NewWebhookSink(cfg WebhookConfig) (*WebhookSink, error) {
	if cfg.URL == "" {
		return nil, errors.New("notify.webhook.url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(cfg.Retries).
		SetHeader("Content-Type", "application/json").
		SetHeaders(cfg.Headers)
	return &WebhookSink{url: cfg.URL, client: client}, nil
}

func (s *WebhookSink) Name() string { return TypeWebhook }

func (s *WebhookSink) Deliver(ctx context.Context, msg Message) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("X-Event-Topic", msg.Topic).
		SetBody(msg).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook request failed with status %d", resp.StatusCode())
	}
	return nil
}

func (s *WebhookSink) Close() error { return nil }
