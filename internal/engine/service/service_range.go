package service

import (
	"context"
	"strings"

	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/internal/engine/model"
	"github.com/go-arcade/bookbuild/internal/engine/repo"
	"github.com/go-arcade/bookbuild/pkg/id"
	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/go-arcade/bookbuild/pkg/statemachine"
	"github.com/pkg/errors"
)

type RangeService struct {
	*Deps
}

func NewRangeService(deps *Deps) *RangeService {
	return &RangeService{Deps: deps}
}

// Select records the indicative range of a CLOSED deal and moves it to
// RANGE_SELECTED. The selection is final.
func (s *RangeService) Select(ctx context.Context, actor core.Actor, dealID string, low, high int, description string) (out *model.RangeSelection, err error) {
	ctx, span := s.start(ctx, "RangeService.Select", dealAttr(dealID))
	defer s.end(span, &err)

	var box outbox
	var state statemachine.DealState
	err = s.Store.WithDealLock(ctx, dealID, func(tx *repo.Tx, deal *model.Deal) error {
		box.reset()
		if err := actor.RequireIssuer(deal.IssuerID); err != nil {
			return err
		}
		exists, err := tx.Selection.Exists(deal.ID)
		if err != nil {
			return errors.Wrap(err, "check selection")
		}
		count, err := tx.Band.Count(deal.ID)
		if err != nil {
			return errors.Wrap(err, "count bands")
		}
		if err := core.ValidateRange(deal.State, exists, int(count), low, high); err != nil {
			return err
		}
		lo, err := tx.Band.GetByOrdinal(deal.ID, low)
		if err != nil {
			return err
		}
		hi, err := tx.Band.GetByOrdinal(deal.ID, high)
		if err != nil {
			return err
		}

		from := deal.State
		if err := s.advance(tx, deal, statemachine.EventSelectRange); err != nil {
			return err
		}
		now := *deal.SelectedAt
		out = &model.RangeSelection{
			BaseModel:   model.BaseModel{ID: id.GetUlid()},
			DealID:      deal.ID,
			LowOrdinal:  low,
			HighOrdinal: high,
			LowBandID:   lo.ID,
			HighBandID:  hi.ID,
			Description: strings.TrimSpace(description),
			ConfirmedAt: now,
			ConfirmedBy: actor.ID,
		}
		if err := tx.Selection.Create(out); err != nil {
			return errors.Wrap(err, "create selection")
		}
		if err := tx.Deal.Save(deal); err != nil {
			return errors.Wrap(err, "save deal")
		}
		state = deal.State
		if err := box.add(tx, dealEvent{
			name:    EventRangeSelected,
			dealID:  deal.ID,
			actorID: actor.ID,
			data:    map[string]any{"lowOrdinal": low, "highOrdinal": high},
		}); err != nil {
			return err
		}
		return box.add(tx, stateChanged(deal, from, actor))
	})
	if err != nil {
		return nil, err
	}
	box.flush(ctx, s.Bus)
	s.Metrics.DealTransition(string(state))
	log.WithContext(ctx).Infow("range selected", "dealId", dealID, "low", low, "high", high)
	return out, nil
}

// Get returns the recorded selection
func (s *RangeService) Get(ctx context.Context, actor core.Actor, dealID string) (out *model.RangeSelection, err error) {
	ctx, span := s.start(ctx, "RangeService.Get", dealAttr(dealID))
	defer s.end(span, &err)

	err = s.Store.Read(ctx, func(tx *repo.Tx) error {
		deal, err := tx.Deal.Get(dealID)
		if err != nil {
			return err
		}
		if err := actor.RequireIssuer(deal.IssuerID); err != nil {
			return err
		}
		out, err = tx.Selection.Get(deal.ID)
		return err
	})
	return out, err
}
