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
	"errors"
	"time"

	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/internal/engine/model"
	"github.com/go-arcade/bookbuild/internal/engine/repo"
)

// Disclaimer is printed on every report
const Disclaimer = "IMPORTANT DISCLAIMER: This is an indicative early-look demand tool. " +
	"It is not an offering document, not investment advice, and not a solicitation. " +
	"All Indications of Interest (IOIs) are non-binding and subject to further diligence and documentation. " +
	"This summary is confidential and intended solely for the issuer's internal use."

// Participation counts invitations by status and indications by strength
type Participation struct {
	Invited         int `json:"invited"`
	Pending         int `json:"pending"`
	Accepted        int `json:"accepted"`
	Expired         int `json:"expired"`
	Revoked         int `json:"revoked"`
	Indicating      int `json:"indicating"`
	StrongCount     int `json:"strongCount"`
	SoftCount       int `json:"softCount"`
	AnchorPotential int `json:"anchorPotential"`
}

// Report is the issuer's export of a deal. Rendering it is left to the caller.
type Report struct {
	Deal          *model.Deal           `json:"deal"`
	Bands         []model.Band          `json:"bands"`
	Summary       *core.Summary         `json:"summary"`
	Selection     *model.RangeSelection `json:"selection"`
	Participation Participation         `json:"participation"`
	Notes         []model.FeedbackNote  `json:"notes"`
	GeneratedAt   time.Time             `json:"generatedAt"`
	Disclaimer    string                `json:"disclaimer"`
}

type ReportService struct {
	*Deps
	demand *DemandService
}

func NewReportService(deps *Deps, demand *DemandService) *ReportService {
	return &ReportService{Deps: deps, demand: demand}
}

// Build assembles the report from one snapshot
func (s *ReportService) Build(ctx context.Context, actor core.Actor, dealID string) (out *Report, err error) {
	ctx, span := s.start(ctx, "ReportService.Build", dealAttr(dealID))
	defer s.end(span, &err)

	err = s.Store.Read(ctx, func(tx *repo.Tx) error {
		deal, err := tx.Deal.Get(dealID)
		if err != nil {
			return err
		}
		if err := actor.RequireIssuer(deal.IssuerID); err != nil {
			return err
		}
		r := &Report{Deal: deal, GeneratedAt: s.now(), Disclaimer: Disclaimer}
		if r.Bands, err = tx.Band.ListByDeal(deal.ID); err != nil {
			return err
		}
		if r.Summary, err = s.demand.summarize(ctx, tx, deal); err != nil {
			return err
		}
		r.Selection, err = tx.Selection.Get(deal.ID)
		if err != nil && !errors.Is(err, core.ErrSelectionNotFound) {
			return err
		}
		if r.Participation, err = s.participation(tx, deal.ID); err != nil {
			return err
		}
		if r.Notes, err = tx.Note.ListByDeal(deal.ID); err != nil {
			return err
		}
		out = r
		return nil
	})
	return out, err
}

func (s *ReportService) participation(tx *repo.Tx, dealID string) (Participation, error) {
	var p Participation
	invitations, err := tx.Invitation.ListByDeal(dealID)
	if err != nil {
		return p, err
	}
	now := s.now()
	for i := range invitations {
		p.Invited++
		if invitations[i].AnchorPotential {
			p.AnchorPotential++
		}
		switch invitations[i].Status(now) {
		case "PENDING":
			p.Pending++
		case "ACCEPTED":
			p.Accepted++
		case "EXPIRED":
			p.Expired++
		case "REVOKED":
			p.Revoked++
		}
	}
	active, err := tx.IOI.ListActive(dealID)
	if err != nil {
		return p, err
	}
	p.Indicating = len(active)
	for _, ioi := range active {
		if ioi.Strength == core.StrengthStrong {
			p.StrongCount++
		} else {
			p.SoftCount++
		}
	}
	return p, nil
}
