package service_test

import (
	"context"
	"testing"

	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/internal/engine/service"
	"github.com/go-arcade/bookbuild/pkg/statemachine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario_FullBook(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	deal := e.openDeal(t, 1000, 3)
	assert.Equal(t, statemachine.DealOpen, deal.State)
	assert.Equal(t, "USD", deal.Currency)

	a := e.investor(t, deal.ID, "a@fund.com")
	b := e.investor(t, deal.ID, "b@fund.com")
	c := e.investor(t, deal.ID, "c@fund.com")

	_, err := e.svc.IOI.Submit(ctx, a, deal.ID, core.IOIRequest{BandOrdinal: ordinal(0), Amount: 100, Strength: "strong"})
	require.NoError(t, err)
	_, err = e.svc.IOI.Submit(ctx, b, deal.ID, core.IOIRequest{BandOrdinal: ordinal(1), Amount: 200, Strength: "soft", Anchor: true})
	require.NoError(t, err)
	_, err = e.svc.IOI.Submit(ctx, c, deal.ID, core.IOIRequest{BandOrdinal: ordinal(2), Amount: 300, Strength: "strong"})
	require.NoError(t, err)

	sum, err := e.svc.Demand.Summary(ctx, issuer, deal.ID)
	require.NoError(t, err)
	require.Len(t, sum.Bands, 3)
	assert.Equal(t, 3, sum.IOICount)
	assert.Equal(t, 1, sum.AnchorCount)
	assert.InDelta(t, 600, sum.TotalDemand, 1e-9)
	assert.InDelta(t, 100+100+300, sum.TotalWeighted, 1e-9)
	assert.InDelta(t, 600, sum.Bands[0].CumulativeFromTop, 1e-9)
	assert.InDelta(t, 300, sum.Bands[2].CumulativeFromTop, 1e-9)
	assert.InDelta(t, 100, sum.Bands[0].CumulativeFromBottom, 1e-9)
	require.NotNil(t, sum.Coverage)
	assert.InDelta(t, 0.6, *sum.Coverage, 1e-9)

	_, err = e.svc.Deal.Close(ctx, issuer, deal.ID)
	require.NoError(t, err)

	sel, err := e.svc.Range.Select(ctx, issuer, deal.ID, 0, 1, "lower half")
	require.NoError(t, err)
	assert.Equal(t, 0, sel.LowOrdinal)
	assert.Equal(t, 1, sel.HighOrdinal)

	_, err = e.svc.Range.Select(ctx, issuer, deal.ID, 1, 2, "")
	assert.ErrorIs(t, err, core.ErrAlreadySelected)

	got, err := e.svc.Deal.Get(ctx, issuer, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, statemachine.DealRangeSelected, got.State)
	assert.NotNil(t, got.SelectedAt)

	assert.Equal(t, 3, e.events.count(service.EventDealStateChanged))
	assert.Equal(t, 1, e.events.count(service.EventRangeSelected))
	assert.Equal(t, 3, e.events.count(service.EventIOISubmitted))
}

func TestScenario_ThreeBandBook(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	deal, err := e.svc.Deal.Create(ctx, issuer, core.DealInput{
		Name:         "Three Band",
		Type:         core.DealEquity,
		Currency:     "USD",
		TargetAmount: 3_000_000,
	})
	require.NoError(t, err)
	_, err = e.svc.Band.Define(ctx, issuer, deal.ID, []core.BandSpec{
		{Lower: 10, Upper: 12, Unit: "USD"},
		{Lower: 12, Upper: 14, Unit: "USD"},
		{Lower: 14, Upper: 16, Unit: "USD"},
	})
	require.NoError(t, err)
	_, err = e.svc.Deal.Open(ctx, issuer, deal.ID)
	require.NoError(t, err)

	for i, email := range []string{"a@fund.com", "b@fund.com", "c@fund.com"} {
		inv := e.investor(t, deal.ID, email)
		_, err := e.svc.IOI.Submit(ctx, inv, deal.ID, core.IOIRequest{BandOrdinal: ordinal(i), Amount: 1_000_000, Strength: "strong"})
		require.NoError(t, err)
	}

	sum, err := e.svc.Demand.Summary(ctx, issuer, deal.ID)
	require.NoError(t, err)
	require.Len(t, sum.Bands, 3)
	for i, want := range []float64{1_000_000, 2_000_000, 3_000_000} {
		assert.InDelta(t, 1_000_000, sum.Bands[i].Amount, 1e-6, "band %d", i)
		assert.InDelta(t, want, sum.Bands[i].CumulativeFromBottom, 1e-6, "band %d", i)
	}
	assert.InDelta(t, 3_000_000, sum.TotalDemand, 1e-6)

	_, err = e.svc.Deal.Close(ctx, issuer, deal.ID)
	require.NoError(t, err)

	_, err = e.svc.Range.Select(ctx, issuer, deal.ID, 0, 1, "")
	require.NoError(t, err)
	got, err := e.svc.Deal.Get(ctx, issuer, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, statemachine.DealRangeSelected, got.State)

	_, err = e.svc.Range.Select(ctx, issuer, deal.ID, 1, 2, "")
	assert.ErrorIs(t, err, core.ErrAlreadySelected)
}

func TestScenario_NegativeAmountLeavesNoRecord(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	deal := e.openDeal(t, 1000, 3)
	a := e.investor(t, deal.ID, "a@fund.com")

	_, err := e.svc.IOI.Submit(ctx, a, deal.ID, core.IOIRequest{BandOrdinal: ordinal(0), Amount: -5})
	require.ErrorIs(t, err, core.ErrInvalidAmount)

	history, err := e.svc.IOI.History(ctx, issuer, deal.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	sum, err := e.svc.Demand.Summary(ctx, issuer, deal.ID)
	require.NoError(t, err)
	assert.Zero(t, sum.IOICount)
}

func TestScenario_TwoBandsStayDraft(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	deal, err := e.svc.Deal.Create(ctx, issuer, core.DealInput{Name: "Small", Type: core.DealDebt, Currency: "EUR"})
	require.NoError(t, err)

	_, err = e.svc.Band.Define(ctx, issuer, deal.ID, bandSpecs(2))
	require.ErrorIs(t, err, core.ErrInvalidBandCount)

	_, err = e.svc.Deal.Open(ctx, issuer, deal.ID)
	require.ErrorIs(t, err, core.ErrInsufficientBands)

	got, err := e.svc.Deal.Get(ctx, issuer, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, statemachine.DealDraft, got.State)
}

func TestDeal_TransitionsOutOfOrder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	deal := e.openDeal(t, 0, 3)

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{name: "open twice", call: func() error { _, err := e.svc.Deal.Open(ctx, issuer, deal.ID); return err }, want: core.ErrInvalidTransition},
		{name: "select while open", call: func() error { _, err := e.svc.Range.Select(ctx, issuer, deal.ID, 0, 0, ""); return err }, want: core.ErrNotClosed},
		{name: "bands frozen", call: func() error { _, err := e.svc.Band.Define(ctx, issuer, deal.ID, bandSpecs(3)); return err }, want: core.ErrBandsFrozen},
		{name: "delete open", call: func() error { return e.svc.Deal.Delete(ctx, issuer, deal.ID) }, want: core.ErrBookOpen},
		{name: "update open", call: func() error {
			_, err := e.svc.Deal.Update(ctx, issuer, deal.ID, core.DealInput{Name: "x", Type: core.DealEquity, Currency: "USD"})
			return err
		}, want: core.ErrNotDraft},
		{name: "other issuer", call: func() error { _, err := e.svc.Deal.Close(ctx, core.Issuer("issuer-2"), deal.ID); return err }, want: core.ErrNotOwner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), tt.want)
		})
	}

	_, err := e.svc.Deal.Close(ctx, issuer, deal.ID)
	require.NoError(t, err)
	_, err = e.svc.Deal.Close(ctx, issuer, deal.ID)
	var de *core.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "CLOSED", de.Fields["from"])
	assert.Equal(t, "CLOSED", de.Fields["to"])
}

func TestDeal_ListAndDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	deal := e.openDeal(t, 500, 3)
	inv := e.investor(t, deal.ID, "a@fund.com")

	mine, err := e.svc.Deal.List(ctx, issuer)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := e.svc.Deal.List(ctx, inv)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, deal.ID, theirs[0].ID)

	other, err := e.svc.Deal.List(ctx, core.Issuer("issuer-2"))
	require.NoError(t, err)
	assert.Empty(t, other)

	_, err = e.svc.Deal.Close(ctx, issuer, deal.ID)
	require.NoError(t, err)
	require.NoError(t, e.svc.Deal.Delete(ctx, issuer, deal.ID))

	_, err = e.svc.Deal.Get(ctx, issuer, deal.ID)
	assert.ErrorIs(t, err, core.ErrDealNotFound)
	theirs, err = e.svc.Deal.List(ctx, inv)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}
