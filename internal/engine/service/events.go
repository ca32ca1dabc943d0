package service

import (
	"strings"

	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/internal/engine/model"
	"github.com/go-arcade/bookbuild/pkg/statemachine"
)

const (
	EventDealCreated        = "deal.created"
	EventDealDeleted        = "deal.deleted"
	EventDealStateChanged   = "deal.state_changed"
	EventBandsDefined       = "deal.bands_defined"
	EventInvitationIssued   = "invitation.issued"
	EventInvitationRedeemed = "invitation.redeemed"
	EventInvitationRevoked  = "invitation.revoked"
	EventInvitationExpired  = "invitation.expired"
	EventIOISubmitted       = "ioi.submitted"
	EventIOIUpdated         = "ioi.updated"
	EventIOIDeleted         = "ioi.deleted"
	EventRangeSelected      = "range.selected"
)

// DealEvent is an event scoped to one deal. It is stored in the deal's
// event log and handed to the notifier.
type DealEvent interface {
	EventName() string
	EventType() string
	Payload() map[string]any
	Deal() string
	Actor() string
}

type dealEvent struct {
	name    string
	dealID  string
	actorID string
	data    map[string]any
}

func (e dealEvent) EventName() string { return e.name }

func (e dealEvent) Deal() string { return e.dealID }

func (e dealEvent) Actor() string { return e.actorID }

// EventType is the prefix before the first dot
func (e dealEvent) EventType() string {
	family, _, _ := strings.Cut(e.name, ".")
	return family
}

func (e dealEvent) Payload() map[string]any {
	out := make(map[string]any, len(e.data)+1)
	for k, v := range e.data {
		out[k] = v
	}
	out["dealId"] = e.dealID
	if e.actorID != "" {
		out["actorId"] = e.actorID
	}
	return out
}

func stateChanged(deal *model.Deal, from statemachine.DealState, actor core.Actor) DealEvent {
	return dealEvent{
		name:    EventDealStateChanged,
		dealID:  deal.ID,
		actorID: actor.ID,
		data: map[string]any{
			"from": string(from),
			"to":   string(deal.State),
		},
	}
}

func invitationEvent(name string, inv *model.Invitation, actorID string) DealEvent {
	return dealEvent{
		name:    name,
		dealID:  inv.DealID,
		actorID: actorID,
		data: map[string]any{
			"invitationId": inv.ID,
			"investorId":   inv.InvestorID,
			"email":        inv.Email,
			"expiresAt":    inv.ExpiresAt,
		},
	}
}

func ioiEvent(name string, ioi *model.IOI) DealEvent {
	data := map[string]any{
		"ioiId":       ioi.ID,
		"investorId":  ioi.InvestorID,
		"bandOrdinal": ioi.BandOrdinal,
		"status":      string(ioi.Status),
	}
	if ioi.Status == core.LedgerActive {
		data["amount"] = ioi.Amount
		data["strength"] = string(ioi.Strength)
	}
	return dealEvent{name: name, dealID: ioi.DealID, actorID: ioi.InvestorID, data: data}
}
