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
	"fmt"
	"time"

	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/internal/engine/model"
	"github.com/go-arcade/bookbuild/internal/engine/repo"
	"github.com/go-arcade/bookbuild/pkg/id"
	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/go-arcade/bookbuild/pkg/statemachine"
	"github.com/pkg/errors"
)

type InvitationService struct {
	*Deps
}

func NewInvitationService(deps *Deps) *InvitationService {
	return &InvitationService{Deps: deps}
}

// IssuedInvitation carries the clear token. It is returned exactly once.
type IssuedInvitation struct {
	Invitation *model.Invitation `json:"invitation"`
	Token      string            `json:"token"`
}

// Access is the result of a successful redemption
type Access struct {
	DealID       string                `json:"dealId"`
	InvestorID   string                `json:"investorId"`
	InvitationID string                `json:"invitationId"`
	Identity     core.InvestorIdentity `json:"identity"`
	FirstUse     bool                  `json:"firstUse"`
}

// InvitationView is an invitation with its derived status
type InvitationView struct {
	*model.Invitation
	Status string `json:"status"`
}

func (s *InvitationService) ttl() time.Duration {
	if s.Config.InvitationTTL > 0 {
		return s.Config.InvitationTTL
	}
	return 168 * time.Hour
}

// Invite issues a seat on a DRAFT or OPEN deal
func (s *InvitationService) Invite(ctx context.Context, actor core.Actor, dealID string, who core.InvestorIdentity) (out *IssuedInvitation, err error) {
	ctx, span := s.start(ctx, "InvitationService.Invite", dealAttr(dealID))
	defer s.end(span, &err)

	who.Normalize()
	var box outbox
	err = s.Store.WithDealLock(ctx, dealID, func(tx *repo.Tx, deal *model.Deal) error {
		box.reset()
		if err := actor.RequireIssuer(deal.IssuerID); err != nil {
			return err
		}
		if deal.State != statemachine.DealDraft && deal.State != statemachine.DealOpen {
			return core.ErrBookClosed.With("invitations can only be sent before the book closes", "state", string(deal.State))
		}
		if err := who.Validate(); err != nil {
			return err
		}

		now := s.now()
		live, err := tx.Invitation.CountLive(deal.ID, now)
		if err != nil {
			return errors.Wrap(err, "count live invitations")
		}
		if live >= core.MaxLiveInvitations {
			return core.ErrCapacityExceeded.With(
				fmt.Sprintf("deal already has %d live invitations", live),
				"limit", core.MaxLiveInvitations,
			)
		}
		dup, err := tx.Invitation.HasLiveEmail(deal.ID, who.Email, now)
		if err != nil {
			return errors.Wrap(err, "check duplicate investor")
		}
		if dup {
			return core.ErrDuplicateInvestor.With(who.Email+" already holds a live invitation", "email", who.Email)
		}

		plain, hash, err := core.NewInvitationToken()
		if err != nil {
			return err
		}
		inv := &model.Invitation{
			BaseModel:       model.BaseModel{ID: id.GetUlid()},
			DealID:          deal.ID,
			InvestorID:      id.GetUlid(),
			InvestorName:    who.Name,
			Email:           who.Email,
			InvestorType:    who.Type,
			AnchorPotential: who.AnchorPotential,
			TokenHash:       hash,
			ExpiresAt:       now.Add(s.ttl()),
		}
		if err := tx.Invitation.Create(inv); err != nil {
			return errors.Wrap(err, "create invitation")
		}
		out = &IssuedInvitation{Invitation: inv, Token: plain}
		return box.add(tx, invitationEvent(EventInvitationIssued, inv, actor.ID))
	})
	if err != nil {
		return nil, err
	}
	box.flush(ctx, s.Bus)
	s.Metrics.Invitation("issued")
	log.WithContext(ctx).Infow("invitation issued", "dealId", dealID, "invitationId", out.Invitation.ID)
	return out, nil
}

// Redeem exchanges a clear token for deal access. caller is nil for
// anonymous presentation, the usual first use.
func (s *InvitationService) Redeem(ctx context.Context, token string, caller *core.Actor) (out *Access, err error) {
	ctx, span := s.start(ctx, "InvitationService.Redeem")
	defer s.end(span, &err)

	if token == "" {
		return nil, core.ErrTokenInvalid.With("token is required")
	}
	hash := core.HashToken(token)

	var dealID string
	err = s.Store.Read(ctx, func(tx *repo.Tx) error {
		inv, err := tx.Invitation.GetByTokenHash(hash)
		if err != nil {
			return err
		}
		dealID = inv.DealID
		return nil
	})
	if err != nil {
		return nil, err
	}

	var box outbox
	err = s.Store.WithDealLock(ctx, dealID, func(tx *repo.Tx, _ *model.Deal) error {
		box.reset()
		inv, err := tx.Invitation.GetByTokenHash(hash)
		if err != nil {
			return err
		}
		now := s.now()
		first, err := core.CheckRedeem(inv.Seat(), now, caller, s.Config.SingleUseTokens)
		if err != nil {
			return err
		}
		if first {
			marked, err := tx.Invitation.MarkConsumed(inv.ID, now)
			if err != nil {
				return errors.Wrap(err, "mark invitation consumed")
			}
			if !marked {
				// another instance consumed it first
				inv.ConsumedAt = &now
				if first, err = core.CheckRedeem(inv.Seat(), now, caller, s.Config.SingleUseTokens); err != nil {
					return err
				}
			} else {
				inv.ConsumedAt = &now
				if err := box.add(tx, invitationEvent(EventInvitationRedeemed, inv, inv.InvestorID)); err != nil {
					return err
				}
			}
		}
		out = &Access{
			DealID:       inv.DealID,
			InvestorID:   inv.InvestorID,
			InvitationID: inv.ID,
			Identity: core.InvestorIdentity{
				Name:            inv.InvestorName,
				Email:           inv.Email,
				Type:            inv.InvestorType,
				AnchorPotential: inv.AnchorPotential,
			},
			FirstUse: first,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	box.flush(ctx, s.Bus)
	if out.FirstUse {
		s.Metrics.Invitation("redeemed")
	}
	return out, nil
}

// Revoke frees the seat and invalidates the token. Revoking twice is a no-op.
func (s *InvitationService) Revoke(ctx context.Context, actor core.Actor, invitationID string) (err error) {
	ctx, span := s.start(ctx, "InvitationService.Revoke")
	defer s.end(span, &err)

	var dealID string
	err = s.Store.Read(ctx, func(tx *repo.Tx) error {
		inv, err := tx.Invitation.Get(invitationID)
		if err != nil {
			return err
		}
		dealID = inv.DealID
		return nil
	})
	if err != nil {
		return err
	}

	var box outbox
	err = s.Store.WithDealLock(ctx, dealID, func(tx *repo.Tx, deal *model.Deal) error {
		box.reset()
		if err := actor.RequireIssuer(deal.IssuerID); err != nil {
			return err
		}
		inv, err := tx.Invitation.Get(invitationID)
		if err != nil {
			return err
		}
		if inv.RevokedAt != nil {
			return nil
		}
		now := s.now()
		if err := tx.Invitation.Revoke(inv.ID, now); err != nil {
			return errors.Wrap(err, "revoke invitation")
		}
		inv.RevokedAt = &now
		return box.add(tx, invitationEvent(EventInvitationRevoked, inv, actor.ID))
	})
	if err != nil {
		return err
	}
	if len(box.events) > 0 {
		s.Metrics.Invitation("revoked")
	}
	box.flush(ctx, s.Bus)
	return nil
}

// List returns every invitation of a deal with its status
func (s *InvitationService) List(ctx context.Context, actor core.Actor, dealID string) (out []InvitationView, err error) {
	ctx, span := s.start(ctx, "InvitationService.List", dealAttr(dealID))
	defer s.end(span, &err)

	err = s.Store.Read(ctx, func(tx *repo.Tx) error {
		deal, err := tx.Deal.Get(dealID)
		if err != nil {
			return err
		}
		if err := actor.RequireIssuer(deal.IssuerID); err != nil {
			return err
		}
		list, err := tx.Invitation.ListByDeal(deal.ID)
		if err != nil {
			return err
		}
		now := s.now()
		out = make([]InvitationView, len(list))
		for i := range list {
			out[i] = InvitationView{Invitation: &list[i], Status: list[i].Status(now)}
		}
		return nil
	})
	return out, err
}
