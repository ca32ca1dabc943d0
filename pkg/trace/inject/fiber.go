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

package inject

import (
	"fmt"
	"net/http"

	tracecontext "github.com/go-arcade/bookbuild/pkg/trace/context"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const fiberTracerName = "github.com/go-arcade/bookbuild/pkg/trace/inject/fiber"

// FiberMiddleware starts a server span per request and binds it to the
// request goroutine so log lines pick up trace_id and span_id.
func FiberMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(),
			propagation.HeaderCarrier(http.Header(c.GetReqHeaders())))

		ctx, span := otel.Tracer(fiberTracerName).Start(ctx, c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		tracecontext.SetContext(ctx)
		defer tracecontext.ClearContext()
		c.SetUserContext(ctx)

		span.SetAttributes(
			attribute.String("http.method", c.Method()),
			attribute.String("http.target", string(c.Request().URI().RequestURI())),
		)
		if id, ok := c.Locals("request_id").(string); ok && id != "" {
			span.SetAttributes(attribute.String("http.request.id", id))
		}

		err := c.Next()

		statusCode := c.Response().StatusCode()
		span.SetAttributes(attribute.Int("http.status_code", statusCode))
		switch {
		case err != nil:
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		case statusCode >= 500:
			span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", statusCode))
		default:
			span.SetStatus(codes.Ok, "")
		}
		return err
	}
}
