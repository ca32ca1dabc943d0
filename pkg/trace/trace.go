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

package trace

import (
	"context"
	"fmt"
	"time"

	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/go-arcade/bookbuild/pkg/version"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TraceConfig represents the configuration for OpenTelemetry tracing
type TraceConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"serviceName"`
	// ExporterType is "otlp-http" or "none"
	ExporterType string            `mapstructure:"exporterType"`
	Endpoint     string            `mapstructure:"endpoint"`
	Insecure     bool              `mapstructure:"insecure"`
	Headers      map[string]string `mapstructure:"headers"`
	BatchTimeout time.Duration     `mapstructure:"batchTimeout"`
}

// SetDefaults sets default values for the configuration
func (c *TraceConfig) SetDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "bookbuild"
	}
	if c.ExporterType == "" {
		c.ExporterType = "none"
	}
	if c.BatchTimeout <= 0 {
		c.BatchTimeout = 5 * time.Second
	}
}

var tracerProvider *sdktrace.TracerProvider

// Init installs the global tracer provider. A disabled config installs a noop provider.
func Init(cfg TraceConfig) error {
	cfg.SetDefaults()

	if !cfg.Enabled || cfg.ExporterType == "none" {
		otel.SetTracerProvider(noop.NewTracerProvider())
		log.Info("OpenTelemetry tracing disabled, using noop tracer")
		return nil
	}
	if cfg.ExporterType != "otlp-http" {
		return fmt.Errorf("unsupported exporter type: %s", cfg.ExporterType)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(version.GetVersion().Version),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
	}
	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("failed to create exporter: %w", err)
	}

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(cfg.BatchTimeout)),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Infow("OpenTelemetry tracing initialized",
		"exporter", cfg.ExporterType,
		"endpoint", cfg.Endpoint,
		"service", cfg.ServiceName,
	)
	return nil
}

// Shutdown flushes pending spans. It is a no-op when tracing is disabled.
func Shutdown(ctx context.Context) error {
	if tracerProvider == nil {
		return nil
	}
	return tracerProvider.Shutdown(ctx)
}

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
