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

package service

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/bookbuild/internal/engine/conf"
	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/internal/engine/model"
	"github.com/go-arcade/bookbuild/internal/engine/repo"
	"github.com/go-arcade/bookbuild/pkg/event"
	"github.com/go-arcade/bookbuild/pkg/id"
	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/go-arcade/bookbuild/pkg/metrics"
	"github.com/go-arcade/bookbuild/pkg/trace"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/go-arcade/bookbuild/internal/engine/service"

// Deps is what every service shares
type Deps struct {
	Store   *repo.Store
	Bus     *event.EventBus
	Metrics *metrics.BookbuildMetrics
	Config  conf.BookbuildConfig
	// Now is replaceable in tests
	Now func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

// start opens a span for one operation. Callers defer d.end(span, &err).
func (d *Deps) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, oteltrace.Span) {
	return trace.Tracer(tracerName).Start(ctx, op, oteltrace.WithAttributes(attrs...))
}

// end closes the span and counts domain rejections
func (d *Deps) end(span oteltrace.Span, err *error) {
	defer span.End()
	if err == nil || *err == nil {
		return
	}
	if e, ok := core.AsError(*err); ok {
		span.SetAttributes(attribute.String("bookbuild.reject.code", e.Code))
		d.Metrics.Rejected(string(e.Kind), e.Code)
		return
	}
	span.RecordError(*err)
	span.SetStatus(codes.Error, (*err).Error())
}

// authorizeReader admits the owning issuer or an investor holding a
// redeemed invitation on the deal
func authorizeReader(tx *repo.Tx, actor core.Actor, deal *model.Deal) error {
	switch {
	case actor.IsIssuer():
		return actor.RequireIssuer(deal.IssuerID)
	case actor.IsInvestor():
		if err := actor.RequireInvestorOf(deal.ID); err != nil {
			return err
		}
		_, err := tx.Invitation.Redeemed(deal.ID, actor.ID)
		return err
	}
	return core.ErrForbidden.With("unknown caller role", "role", string(actor.Role))
}

func dealAttr(dealID string) attribute.KeyValue {
	return attribute.String("bookbuild.deal_id", dealID)
}

func actorAttrs(actor core.Actor) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("bookbuild.actor.role", string(actor.Role)),
		attribute.String("bookbuild.actor.id", actor.ID),
	}
}

// outbox persists events with the transaction that caused them and
// publishes them once it has committed
type outbox struct {
	events []DealEvent
}

func (o *outbox) add(tx *repo.Tx, ev DealEvent) error {
	payload, err := sonic.Marshal(ev.Payload())
	if err != nil {
		return errors.Wrap(err, "encode event payload")
	}
	row := &model.DealEvent{
		BaseModel: model.BaseModel{ID: id.GetUlid()},
		DealID:    ev.Deal(),
		Name:      ev.EventName(),
		ActorID:   ev.Actor(),
		Payload:   payload,
	}
	if err := tx.Event.Append(row); err != nil {
		return errors.Wrapf(err, "append event %s", ev.EventName())
	}
	o.events = append(o.events, ev)
	return nil
}

// reset drops events queued by an attempt that rolled back. Transaction
// closures call it first because the store reruns them on lock contention.
func (o *outbox) reset() {
	o.events = o.events[:0]
}

func (o *outbox) flush(ctx context.Context, bus *event.EventBus) {
	for _, ev := range o.events {
		log.WithContext(ctx).Debugw("publishing event", "event", ev.EventName(), "dealId", ev.Deal())
		if bus != nil {
			bus.Publish(ctx, ev)
		}
	}
	o.events = nil
}
