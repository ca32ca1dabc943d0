package service_test

import (
	"context"
	"testing"

	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIOI_UpsertKeepsOneActive(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	deal := e.openDeal(t, 1000, 4)
	a := e.investor(t, deal.ID, "a@fund.com")

	for i := 0; i < 4; i++ {
		_, err := e.svc.IOI.Submit(ctx, a, deal.ID, core.IOIRequest{BandOrdinal: ordinal(i), Amount: float64(10 * (i + 1))})
		require.NoError(t, err)
	}

	active, err := e.svc.IOI.ListAllForIssuer(ctx, issuer, deal.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, 3, active[0].BandOrdinal)
	assert.InDelta(t, 40, active[0].Amount, 1e-9)
	require.NotNil(t, active[0].SupersedesID)

	history, err := e.svc.IOI.History(ctx, issuer, deal.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	for _, h := range history[:3] {
		assert.Equal(t, core.LedgerSuperseded, h.Status)
	}

	sum, err := e.svc.Demand.Summary(ctx, issuer, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.IOICount)
	assert.InDelta(t, 40, sum.TotalDemand, 1e-9)
}

func TestIOI_UpdateAndDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	deal := e.openDeal(t, 1000, 3)
	a := e.investor(t, deal.ID, "a@fund.com")
	b := e.investor(t, deal.ID, "b@fund.com")

	first, err := e.svc.IOI.Submit(ctx, a, deal.ID, core.IOIRequest{BandOrdinal: ordinal(1), Amount: 50, Strength: "STRONG"})
	require.NoError(t, err)

	_, err = e.svc.IOI.Update(ctx, b, first.ID, core.IOIRequest{Amount: 1})
	assert.ErrorIs(t, err, core.ErrNotOwner)
	assert.ErrorIs(t, e.svc.IOI.Delete(ctx, b, first.ID), core.ErrNotOwner)

	updated, err := e.svc.IOI.Update(ctx, a, first.ID, core.IOIRequest{Amount: 75, Strength: "soft"})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.BandOrdinal, "band is kept when omitted")
	assert.Equal(t, core.StrengthSoft, updated.Strength)

	_, err = e.svc.IOI.Update(ctx, a, first.ID, core.IOIRequest{Amount: 80})
	assert.ErrorIs(t, err, core.ErrIOINotFound, "superseded entries cannot be edited")

	require.NoError(t, e.svc.IOI.Delete(ctx, a, updated.ID))

	mine, err := e.svc.IOI.ListForInvestor(ctx, a, deal.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	history, err := e.svc.IOI.History(ctx, issuer, deal.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, core.LedgerDeleted, history[1].Status)
}

func TestIOI_Rejections(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	max := 500.0
	deal, err := e.svc.Deal.Create(ctx, issuer, core.DealInput{Name: "Capped", Type: core.DealEquity, Currency: "USD", TargetAmount: 1000, MaxIOIAmount: &max})
	require.NoError(t, err)
	bands, err := e.svc.Band.Define(ctx, issuer, deal.ID, bandSpecs(3))
	require.NoError(t, err)
	a := e.investor(t, deal.ID, "a@fund.com")

	_, err = e.svc.IOI.Submit(ctx, a, deal.ID, core.IOIRequest{BandOrdinal: ordinal(0), Amount: 10})
	require.ErrorIs(t, err, core.ErrBookClosed, "draft books take no indications")

	_, err = e.svc.Deal.Open(ctx, issuer, deal.ID)
	require.NoError(t, err)

	other := e.openDeal(t, 100, 3)
	otherBands, err := e.svc.Band.List(ctx, issuer, other.ID)
	require.NoError(t, err)

	tests := []struct {
		name  string
		actor core.Actor
		req   core.IOIRequest
		want  error
	}{
		{name: "zero amount", actor: a, req: core.IOIRequest{BandOrdinal: ordinal(0)}, want: core.ErrInvalidAmount},
		{name: "above max", actor: a, req: core.IOIRequest{BandOrdinal: ordinal(0), Amount: 501}, want: core.ErrAmountExceedsLimit},
		{name: "wrong currency", actor: a, req: core.IOIRequest{BandOrdinal: ordinal(0), Amount: 10, Currency: "EUR"}, want: core.ErrCurrencyMismatch},
		{name: "band of another deal", actor: a, req: core.IOIRequest{BandID: otherBands[0].ID, Amount: 10}, want: core.ErrUnknownBand},
		{name: "ordinal out of range", actor: a, req: core.IOIRequest{BandOrdinal: ordinal(7), Amount: 10}, want: core.ErrUnknownBand},
		{name: "no band", actor: a, req: core.IOIRequest{Amount: 10}, want: core.ErrUnknownBand},
		{name: "bad strength", actor: a, req: core.IOIRequest{BandID: bands[0].ID, Amount: 10, Strength: "maybe"}, want: core.ErrInvalidStrength},
		{name: "issuer cannot submit", actor: issuer, req: core.IOIRequest{BandOrdinal: ordinal(0), Amount: 10}, want: core.ErrForbidden},
		{name: "uninvited investor", actor: core.Investor("stranger", deal.ID), req: core.IOIRequest{BandOrdinal: ordinal(0), Amount: 10}, want: core.ErrNotInvited},
		{name: "session for another deal", actor: core.Investor(a.ID, other.ID), req: core.IOIRequest{BandOrdinal: ordinal(0), Amount: 10}, want: core.ErrNotInvited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.IOI.Submit(ctx, tt.actor, deal.ID, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	history, err := e.svc.IOI.History(ctx, issuer, deal.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestIOI_InvestorsSeeOnlyTheirOwn(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	deal := e.openDeal(t, 1000, 3)
	a := e.investor(t, deal.ID, "a@fund.com")
	b := e.investor(t, deal.ID, "b@fund.com")

	_, err := e.svc.IOI.Submit(ctx, a, deal.ID, core.IOIRequest{BandOrdinal: ordinal(0), Amount: 10})
	require.NoError(t, err)
	_, err = e.svc.IOI.Submit(ctx, b, deal.ID, core.IOIRequest{BandOrdinal: ordinal(2), Amount: 20})
	require.NoError(t, err)

	mine, err := e.svc.IOI.ListForInvestor(ctx, a, deal.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a.ID, mine[0].InvestorID)

	_, err = e.svc.IOI.ListAllForIssuer(ctx, a, deal.ID)
	assert.ErrorIs(t, err, core.ErrForbidden)
	_, err = e.svc.IOI.History(ctx, a, deal.ID)
	assert.ErrorIs(t, err, core.ErrForbidden)
	_, err = e.svc.Demand.Summary(ctx, a, deal.ID)
	assert.ErrorIs(t, err, core.ErrForbidden)
	_, err = e.svc.Report.Build(ctx, b, deal.ID)
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestDemand_SummaryFollowsLedgerVersion(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	deal := e.openDeal(t, 0, 3)
	a := e.investor(t, deal.ID, "a@fund.com")

	before, err := e.svc.Demand.Summary(ctx, issuer, deal.ID)
	require.NoError(t, err)
	assert.Nil(t, before.Coverage, "coverage is undefined without a target")

	_, err = e.svc.IOI.Submit(ctx, a, deal.ID, core.IOIRequest{BandOrdinal: ordinal(1), Amount: 10})
	require.NoError(t, err)

	after, err := e.svc.Demand.Summary(ctx, issuer, deal.ID)
	require.NoError(t, err)
	assert.Greater(t, after.LedgerVersion, before.LedgerVersion)
	assert.Equal(t, 1, after.IOICount)
	assert.Nil(t, after.Coverage)
}
