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
	"strings"

	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/internal/engine/model"
	"github.com/go-arcade/bookbuild/internal/engine/repo"
	"github.com/go-arcade/bookbuild/pkg/id"
	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/pkg/errors"
)

type IOIService struct {
	*Deps
}

func NewIOIService(deps *Deps) *IOIService {
	return &IOIService{Deps: deps}
}

// Submit records the caller's indication on an OPEN deal. An earlier active
// indication of the same investor is superseded in the same transaction.
func (s *IOIService) Submit(ctx context.Context, actor core.Actor, dealID string, req core.IOIRequest) (out *model.IOI, err error) {
	ctx, span := s.start(ctx, "IOIService.Submit", dealAttr(dealID))
	defer s.end(span, &err)

	var box outbox
	err = s.Store.WithDealLock(ctx, dealID, func(tx *repo.Tx, deal *model.Deal) error {
		box.reset()
		if err := s.admit(tx, actor, deal); err != nil {
			return err
		}
		prev, err := tx.IOI.GetActive(deal.ID, actor.ID)
		if err != nil {
			return errors.Wrap(err, "load active indication")
		}
		out, err = s.write(tx, &box, deal, actor, req, prev)
		return err
	})
	if err != nil {
		return nil, err
	}
	box.flush(ctx, s.Bus)
	s.Metrics.LedgerOp("submit", string(out.Strength))
	log.WithContext(ctx).Infow("indication submitted", "dealId", dealID, "ioiId", out.ID, "band", out.BandOrdinal)
	return out, nil
}

// Update replaces one of the caller's active indications. Band fields left
// empty keep the current band.
func (s *IOIService) Update(ctx context.Context, actor core.Actor, ioiID string, req core.IOIRequest) (out *model.IOI, err error) {
	ctx, span := s.start(ctx, "IOIService.Update")
	defer s.end(span, &err)

	dealID, err := s.dealOf(ctx, ioiID)
	if err != nil {
		return nil, err
	}

	var box outbox
	err = s.Store.WithDealLock(ctx, dealID, func(tx *repo.Tx, deal *model.Deal) error {
		box.reset()
		prev, err := s.owned(tx, actor, deal, ioiID)
		if err != nil {
			return err
		}
		if req.BandID == "" && req.BandOrdinal == nil {
			req.BandID = prev.BandID
		}
		out, err = s.write(tx, &box, deal, actor, req, prev)
		return err
	})
	if err != nil {
		return nil, err
	}
	box.flush(ctx, s.Bus)
	s.Metrics.LedgerOp("update", string(out.Strength))
	return out, nil
}

// Delete withdraws one of the caller's active indications
func (s *IOIService) Delete(ctx context.Context, actor core.Actor, ioiID string) (err error) {
	ctx, span := s.start(ctx, "IOIService.Delete")
	defer s.end(span, &err)

	dealID, err := s.dealOf(ctx, ioiID)
	if err != nil {
		return err
	}

	var box outbox
	var strength core.Strength
	err = s.Store.WithDealLock(ctx, dealID, func(tx *repo.Tx, deal *model.Deal) error {
		box.reset()
		prev, err := s.owned(tx, actor, deal, ioiID)
		if err != nil {
			return err
		}
		if err := tx.IOI.Retag(prev.ID, core.LedgerDeleted); err != nil {
			return errors.Wrap(err, "retag indication")
		}
		if err := tx.Deal.BumpLedgerVersion(deal); err != nil {
			return errors.Wrap(err, "bump ledger version")
		}
		prev.Status = core.LedgerDeleted
		prev.ActiveKey = nil
		strength = prev.Strength
		return box.add(tx, ioiEvent(EventIOIDeleted, prev))
	})
	if err != nil {
		return err
	}
	box.flush(ctx, s.Bus)
	s.Metrics.LedgerOp("delete", string(strength))
	return nil
}

// ListForInvestor returns the caller's own active indication, if any
func (s *IOIService) ListForInvestor(ctx context.Context, actor core.Actor, dealID string) (out []model.IOI, err error) {
	ctx, span := s.start(ctx, "IOIService.ListForInvestor", dealAttr(dealID))
	defer s.end(span, &err)

	out = []model.IOI{}
	err = s.Store.Read(ctx, func(tx *repo.Tx) error {
		deal, err := tx.Deal.Get(dealID)
		if err != nil {
			return err
		}
		if err := actor.RequireInvestorOf(deal.ID); err != nil {
			return err
		}
		if _, err := tx.Invitation.Redeemed(deal.ID, actor.ID); err != nil {
			return err
		}
		active, err := tx.IOI.GetActive(deal.ID, actor.ID)
		if err != nil {
			return err
		}
		if active != nil {
			out = append(out, *active)
		}
		return nil
	})
	return out, err
}

// ListAllForIssuer returns every active indication of the deal
func (s *IOIService) ListAllForIssuer(ctx context.Context, actor core.Actor, dealID string) (out []model.IOI, err error) {
	ctx, span := s.start(ctx, "IOIService.ListAllForIssuer", dealAttr(dealID))
	defer s.end(span, &err)

	err = s.Store.Read(ctx, func(tx *repo.Tx) error {
		deal, err := tx.Deal.Get(dealID)
		if err != nil {
			return err
		}
		if err := actor.RequireIssuer(deal.IssuerID); err != nil {
			return err
		}
		out, err = tx.IOI.ListActive(deal.ID)
		return err
	})
	return out, err
}

// History returns every ledger entry of the deal in creation order
func (s *IOIService) History(ctx context.Context, actor core.Actor, dealID string) (out []model.IOI, err error) {
	ctx, span := s.start(ctx, "IOIService.History", dealAttr(dealID))
	defer s.end(span, &err)

	err = s.Store.Read(ctx, func(tx *repo.Tx) error {
		deal, err := tx.Deal.Get(dealID)
		if err != nil {
			return err
		}
		if err := actor.RequireIssuer(deal.IssuerID); err != nil {
			return err
		}
		out, err = tx.IOI.ListHistory(deal.ID)
		return err
	})
	return out, err
}

// admit checks role, book state and redeemed invitation, in that order
func (s *IOIService) admit(tx *repo.Tx, actor core.Actor, deal *model.Deal) error {
	if err := actor.RequireInvestorOf(deal.ID); err != nil {
		return err
	}
	if !deal.State.AcceptsIOIs() {
		return core.ErrBookClosed.With("deal is "+string(deal.State), "state", string(deal.State))
	}
	_, err := tx.Invitation.Redeemed(deal.ID, actor.ID)
	return err
}

// owned loads an active indication of the caller on deal
func (s *IOIService) owned(tx *repo.Tx, actor core.Actor, deal *model.Deal, ioiID string) (*model.IOI, error) {
	if err := s.admit(tx, actor, deal); err != nil {
		return nil, err
	}
	prev, err := tx.IOI.Get(ioiID)
	if err != nil {
		return nil, err
	}
	if prev.DealID != deal.ID || prev.InvestorID != actor.ID {
		return nil, core.ErrNotOwner.With("indication belongs to another investor")
	}
	if prev.Status != core.LedgerActive {
		return nil, core.ErrIOINotFound.With("indication is "+strings.ToLower(string(prev.Status)), "status", string(prev.Status))
	}
	return prev, nil
}

func (s *IOIService) dealOf(ctx context.Context, ioiID string) (dealID string, err error) {
	err = s.Store.Read(ctx, func(tx *repo.Tx) error {
		ioi, err := tx.IOI.Get(ioiID)
		if err != nil {
			return err
		}
		dealID = ioi.DealID
		return nil
	})
	return dealID, err
}

// write validates req, retags prev and inserts the new active entry
func (s *IOIService) write(tx *repo.Tx, box *outbox, deal *model.Deal, actor core.Actor, req core.IOIRequest, prev *model.IOI) (*model.IOI, error) {
	if err := core.ValidateIndication(req.Amount, req.Currency, deal.Currency, deal.MaxIOIAmount); err != nil {
		return nil, err
	}
	strength, err := core.ParseStrength(req.Strength)
	if err != nil {
		return nil, err
	}
	note := strings.TrimSpace(req.Note)
	if err := core.ValidateFreeText(note); err != nil {
		return nil, err
	}
	band, err := resolveBand(tx, deal.ID, req)
	if err != nil {
		return nil, err
	}

	entry := &model.IOI{
		BaseModel:   model.BaseModel{ID: id.GetUlid()},
		DealID:      deal.ID,
		InvestorID:  actor.ID,
		BandID:      band.ID,
		BandOrdinal: band.Ordinal,
		Amount:      req.Amount,
		Currency:    deal.Currency,
		Strength:    strength,
		Anchor:      req.Anchor,
		Note:        note,
		Status:      core.LedgerActive,
		ActiveKey:   model.ActiveKey(deal.ID, actor.ID),
	}
	name := EventIOISubmitted
	if prev != nil {
		if err := tx.IOI.Retag(prev.ID, core.LedgerSuperseded); err != nil {
			return nil, errors.Wrap(err, "retag indication")
		}
		entry.SupersedesID = &prev.ID
		name = EventIOIUpdated
	}
	if err := tx.IOI.Create(entry); err != nil {
		return nil, errors.Wrap(err, "create indication")
	}
	if err := tx.Deal.BumpLedgerVersion(deal); err != nil {
		return nil, errors.Wrap(err, "bump ledger version")
	}
	return entry, box.add(tx, ioiEvent(name, entry))
}

func resolveBand(tx *repo.Tx, dealID string, req core.IOIRequest) (*model.Band, error) {
	switch {
	case req.BandID != "":
		return tx.Band.Get(dealID, req.BandID)
	case req.BandOrdinal != nil:
		return tx.Band.GetByOrdinal(dealID, *req.BandOrdinal)
	}
	return nil, core.ErrUnknownBand.With("bandId or bandOrdinal is required")
}
