package service

import (
	"context"
	"strings"

	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/internal/engine/model"
	"github.com/go-arcade/bookbuild/internal/engine/repo"
	"github.com/go-arcade/bookbuild/pkg/id"
	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/pkg/errors"
)

type BandService struct {
	*Deps
}

func NewBandService(deps *Deps) *BandService {
	return &BandService{Deps: deps}
}

// Define replaces the band set of a DRAFT deal. Ordinals follow input order.
func (s *BandService) Define(ctx context.Context, actor core.Actor, dealID string, specs []core.BandSpec) (bands []model.Band, err error) {
	ctx, span := s.start(ctx, "BandService.Define", dealAttr(dealID))
	defer s.end(span, &err)

	var box outbox
	err = s.Store.WithDealLock(ctx, dealID, func(tx *repo.Tx, deal *model.Deal) error {
		box.reset()
		if err := actor.RequireIssuer(deal.IssuerID); err != nil {
			return err
		}
		if deal.State.BandsFrozen() {
			return core.ErrBandsFrozen.With("deal is "+string(deal.State), "state", string(deal.State))
		}
		if err := core.ValidateBands(specs); err != nil {
			return err
		}

		bands = make([]model.Band, len(specs))
		for i, spec := range specs {
			label := strings.TrimSpace(spec.Label)
			if label == "" {
				label = core.DefaultLabel(spec)
			}
			bands[i] = model.Band{
				BaseModel: model.BaseModel{ID: id.GetUlid()},
				DealID:    deal.ID,
				Ordinal:   i,
				Label:     label,
				Lower:     spec.Lower,
				Upper:     spec.Upper,
				Unit:      strings.TrimSpace(spec.Unit),
			}
		}
		if err := tx.Band.Replace(deal.ID, bands); err != nil {
			return errors.Wrap(err, "replace bands")
		}
		if err := tx.Deal.BumpLedgerVersion(deal); err != nil {
			return errors.Wrap(err, "bump ledger version")
		}
		return box.add(tx, dealEvent{name: EventBandsDefined, dealID: deal.ID, actorID: actor.ID, data: map[string]any{"count": len(bands)}})
	})
	if err != nil {
		return nil, err
	}
	box.flush(ctx, s.Bus)
	log.WithContext(ctx).Infow("bands defined", "dealId", dealID, "count", len(bands))
	return bands, nil
}

// List returns the bands of a deal by ordinal
func (s *BandService) List(ctx context.Context, actor core.Actor, dealID string) (bands []model.Band, err error) {
	ctx, span := s.start(ctx, "BandService.List", dealAttr(dealID))
	defer s.end(span, &err)

	err = s.Store.Read(ctx, func(tx *repo.Tx) error {
		deal, err := tx.Deal.Get(dealID)
		if err != nil {
			return err
		}
		if err := authorizeReader(tx, actor, deal); err != nil {
			return err
		}
		bands, err = tx.Band.ListByDeal(deal.ID)
		return err
	})
	return bands, err
}
