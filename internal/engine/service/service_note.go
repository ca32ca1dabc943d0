package service

import (
	"context"
	"strings"

	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/internal/engine/model"
	"github.com/go-arcade/bookbuild/internal/engine/repo"
	"github.com/go-arcade/bookbuild/pkg/id"
	"github.com/pkg/errors"
)

type NoteService struct {
	*Deps
}

func NewNoteService(deps *Deps) *NoteService {
	return &NoteService{Deps: deps}
}

// Add attaches an issuer note to the deal, one of its bands or one of its investors
func (s *NoteService) Add(ctx context.Context, actor core.Actor, dealID string, scope core.NoteScope, scopeRef, text string) (out *model.FeedbackNote, err error) {
	ctx, span := s.start(ctx, "NoteService.Add", dealAttr(dealID))
	defer s.end(span, &err)

	scope = core.NoteScope(strings.ToUpper(strings.TrimSpace(string(scope))))
	if scope == "" {
		scope = core.NoteGeneral
	}
	scopeRef = strings.TrimSpace(scopeRef)
	text = strings.TrimSpace(text)

	err = s.Store.WithDealLock(ctx, dealID, func(tx *repo.Tx, deal *model.Deal) error {
		if err := actor.RequireIssuer(deal.IssuerID); err != nil {
			return err
		}
		if err := core.ValidateNote(scope, scopeRef, text); err != nil {
			return err
		}
		switch scope {
		case core.NoteBand:
			if _, err := tx.Band.Get(deal.ID, scopeRef); err != nil {
				return err
			}
		case core.NoteInvestor:
			if err := investorOnDeal(tx, deal.ID, scopeRef); err != nil {
				return err
			}
		case core.NoteGeneral:
			scopeRef = ""
		}
		out = &model.FeedbackNote{
			BaseModel: model.BaseModel{ID: id.GetUlid()},
			DealID:    deal.ID,
			AuthorID:  actor.ID,
			Scope:     scope,
			ScopeRef:  scopeRef,
			Text:      text,
		}
		return errors.Wrap(tx.Note.Create(out), "create note")
	})
	return out, err
}

// List returns the deal's notes, newest first
func (s *NoteService) List(ctx context.Context, actor core.Actor, dealID string) (out []model.FeedbackNote, err error) {
	ctx, span := s.start(ctx, "NoteService.List", dealAttr(dealID))
	defer s.end(span, &err)

	err = s.Store.Read(ctx, func(tx *repo.Tx) error {
		deal, err := tx.Deal.Get(dealID)
		if err != nil {
			return err
		}
		if err := actor.RequireIssuer(deal.IssuerID); err != nil {
			return err
		}
		out, err = tx.Note.ListByDeal(deal.ID)
		return err
	})
	return out, err
}

func investorOnDeal(tx *repo.Tx, dealID, investorID string) error {
	list, err := tx.Invitation.ListByDeal(dealID)
	if err != nil {
		return errors.Wrap(err, "list invitations")
	}
	for _, inv := range list {
		if inv.InvestorID == investorID {
			return nil
		}
	}
	return core.ErrInvitationNotFound.With("no invitation for investor "+investorID, "investorId", investorID)
}
