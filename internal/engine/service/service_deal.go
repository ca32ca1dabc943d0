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

	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/internal/engine/model"
	"github.com/go-arcade/bookbuild/internal/engine/repo"
	"github.com/go-arcade/bookbuild/pkg/id"
	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/go-arcade/bookbuild/pkg/statemachine"
	"github.com/pkg/errors"
)

type DealService struct {
	*Deps
}

func NewDealService(deps *Deps) *DealService {
	return &DealService{Deps: deps}
}

// Create registers a new deal in DRAFT owned by the calling issuer
func (s *DealService) Create(ctx context.Context, actor core.Actor, in core.DealInput) (deal *model.Deal, err error) {
	ctx, span := s.start(ctx, "DealService.Create", actorAttrs(actor)...)
	defer s.end(span, &err)

	if !actor.IsIssuer() {
		return nil, core.ErrForbidden.With("only issuers may create deals", "role", string(actor.Role))
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	deal = &model.Deal{
		BaseModel:    model.BaseModel{ID: id.GetUlid()},
		IssuerID:     actor.ID,
		Name:         in.Name,
		Description:  in.Description,
		Type:         in.Type,
		Currency:     in.Currency,
		TargetAmount: in.TargetAmount,
		MaxIOIAmount: in.MaxIOIAmount,
		State:        statemachine.DealDraft,
	}

	var box outbox
	err = s.Store.Write(ctx, func(tx *repo.Tx) error {
		box.reset()
		if err := tx.Deal.Create(deal); err != nil {
			return errors.Wrap(err, "create deal")
		}
		return box.add(tx, dealEvent{name: EventDealCreated, dealID: deal.ID, actorID: actor.ID, data: map[string]any{"name": deal.Name}})
	})
	if err != nil {
		return nil, err
	}
	box.flush(ctx, s.Bus)

	log.WithContext(ctx).Infow("deal created", "dealId", deal.ID, "issuerId", actor.ID)
	return deal, nil
}

// Update edits the attributes of a DRAFT deal
func (s *DealService) Update(ctx context.Context, actor core.Actor, dealID string, in core.DealInput) (out *model.Deal, err error) {
	ctx, span := s.start(ctx, "DealService.Update", dealAttr(dealID))
	defer s.end(span, &err)

	in.Normalize()
	err = s.Store.WithDealLock(ctx, dealID, func(tx *repo.Tx, deal *model.Deal) error {
		if err := actor.RequireIssuer(deal.IssuerID); err != nil {
			return err
		}
		if deal.State != statemachine.DealDraft {
			return core.ErrNotDraft.With("deal is "+string(deal.State), "state", string(deal.State))
		}
		if err := in.Validate(); err != nil {
			return err
		}
		deal.Name = in.Name
		deal.Description = in.Description
		deal.Type = in.Type
		deal.Currency = in.Currency
		deal.TargetAmount = in.TargetAmount
		deal.MaxIOIAmount = in.MaxIOIAmount
		if err := tx.Deal.Save(deal); err != nil {
			return errors.Wrap(err, "save deal")
		}
		// the target feeds coverage, so cached summaries must go
		if err := tx.Deal.BumpLedgerVersion(deal); err != nil {
			return errors.Wrap(err, "bump ledger version")
		}
		out = deal
		return nil
	})
	return out, err
}

// Get returns a deal to its issuer or to an investor who redeemed an invitation on it
func (s *DealService) Get(ctx context.Context, actor core.Actor, dealID string) (out *model.Deal, err error) {
	ctx, span := s.start(ctx, "DealService.Get", dealAttr(dealID))
	defer s.end(span, &err)

	err = s.Store.Read(ctx, func(tx *repo.Tx) error {
		deal, err := tx.Deal.Get(dealID)
		if err != nil {
			return err
		}
		if err := authorizeReader(tx, actor, deal); err != nil {
			return err
		}
		out = deal
		return nil
	})
	return out, err
}

// List returns the issuer's own deals, or the deals an investor has access to
func (s *DealService) List(ctx context.Context, actor core.Actor) (deals []model.Deal, err error) {
	ctx, span := s.start(ctx, "DealService.List", actorAttrs(actor)...)
	defer s.end(span, &err)

	err = s.Store.Read(ctx, func(tx *repo.Tx) error {
		switch {
		case actor.IsIssuer():
			deals, err = tx.Deal.ListByIssuer(actor.ID)
		case actor.IsInvestor():
			var ids []string
			if ids, err = tx.Invitation.RedeemedDealIDs(actor.ID); err != nil {
				return err
			}
			deals, err = tx.Deal.ListByIDs(ids)
		default:
			return core.ErrForbidden.With("unknown caller role", "role", string(actor.Role))
		}
		return err
	})
	return deals, err
}

// Delete removes a deal and everything attached to it. Open books cannot be deleted.
func (s *DealService) Delete(ctx context.Context, actor core.Actor, dealID string) (err error) {
	ctx, span := s.start(ctx, "DealService.Delete", dealAttr(dealID))
	defer s.end(span, &err)

	var box outbox
	err = s.Store.WithDealLock(ctx, dealID, func(tx *repo.Tx, deal *model.Deal) error {
		box.reset()
		if err := actor.RequireIssuer(deal.IssuerID); err != nil {
			return err
		}
		if deal.State == statemachine.DealOpen {
			return core.ErrBookOpen.With("close the book before deleting the deal", "state", string(deal.State))
		}
		if err := tx.Deal.Delete(deal.ID); err != nil {
			return errors.Wrap(err, "delete deal")
		}
		// queued without a row: the event log went with the deal
		box.events = append(box.events, dealEvent{name: EventDealDeleted, dealID: deal.ID, actorID: actor.ID})
		return nil
	})
	if err != nil {
		return err
	}
	box.flush(ctx, s.Bus)
	log.WithContext(ctx).Infow("deal deleted", "dealId", dealID)
	return nil
}

// Open moves a DRAFT deal with a valid band set to OPEN
func (s *DealService) Open(ctx context.Context, actor core.Actor, dealID string) (*model.Deal, error) {
	return s.transition(ctx, actor, dealID, statemachine.EventOpenBook)
}

// Close moves an OPEN deal to CLOSED. A book without indications may be closed.
func (s *DealService) Close(ctx context.Context, actor core.Actor, dealID string) (*model.Deal, error) {
	return s.transition(ctx, actor, dealID, statemachine.EventCloseBook)
}

func (s *DealService) transition(ctx context.Context, actor core.Actor, dealID string, ev statemachine.Event) (out *model.Deal, err error) {
	ctx, span := s.start(ctx, "DealService."+string(ev), dealAttr(dealID))
	defer s.end(span, &err)

	var box outbox
	err = s.Store.WithDealLock(ctx, dealID, func(tx *repo.Tx, deal *model.Deal) error {
		box.reset()
		if err := actor.RequireIssuer(deal.IssuerID); err != nil {
			return err
		}
		from := deal.State
		if err := s.advance(tx, deal, ev); err != nil {
			return err
		}
		if err := tx.Deal.Save(deal); err != nil {
			return errors.Wrap(err, "save deal")
		}
		out = deal
		return box.add(tx, stateChanged(deal, from, actor))
	})
	if err != nil {
		return nil, err
	}
	box.flush(ctx, s.Bus)
	s.Metrics.DealTransition(string(out.State))
	log.WithContext(ctx).Infow("deal state changed", "dealId", dealID, "event", ev, "state", out.State)
	return out, nil
}

// lifecycle builds the state machine of a locked deal. Opening is guarded by
// the band count in tx; entering a state stamps the matching timestamp.
func (d *Deps) lifecycle(tx *repo.Tx, deal *model.Deal) *statemachine.StateMachine[statemachine.DealState] {
	sm := statemachine.NewDealStateMachine(deal.State)
	sm.AddValidator(func(_, to statemachine.DealState, _ statemachine.Event) error {
		if to != statemachine.DealOpen {
			return nil
		}
		n, err := tx.Band.Count(deal.ID)
		if err != nil {
			return errors.Wrap(err, "count bands")
		}
		return core.CheckOpenable(int(n))
	})

	stamp := func(at **time.Time) statemachine.StateHook[statemachine.DealState] {
		return func(statemachine.DealState) error {
			now := d.now()
			*at = &now
			return nil
		}
	}
	sm.OnEnter(statemachine.DealOpen, stamp(&deal.OpenedAt)).
		OnEnter(statemachine.DealClosed, stamp(&deal.ClosedAt)).
		OnEnter(statemachine.DealRangeSelected, stamp(&deal.SelectedAt))
	return sm
}

// advance fires ev on the deal lifecycle and moves deal.State. An out-of-order
// event is reported as InvalidTransition before any guard runs.
func (d *Deps) advance(tx *repo.Tx, deal *model.Deal, ev statemachine.Event) error {
	sm := d.lifecycle(tx, deal)
	if err := sm.TriggerEvent(ev); err != nil {
		if errors.Is(err, statemachine.ErrInvalidTransition) {
			return core.InvalidTransition(deal.State, statemachine.DealTargetOf(ev))
		}
		return err
	}
	deal.State = sm.Current()
	return nil
}
