package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/internal/engine/model"
	"github.com/go-arcade/bookbuild/internal/engine/service"
	"github.com/go-arcade/bookbuild/pkg/statemachine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gorm.io/gorm"
)

// failEventInsert makes the nth event row written after the call fail with
// sqlite lock contention, once.
func (e *env) failEventInsert(t *testing.T, nth int32) *atomic.Int32 {
	t.Helper()
	var inserts atomic.Int32
	err := e.db.Database().Callback().Create().After("gorm:create").Register("bookbuild:fail_event_insert", func(db *gorm.DB) {
		if db.Statement.Table != (model.DealEvent{}).TableName() {
			return
		}
		if inserts.Add(1) == nth {
			_ = db.AddError(errors.New("database is locked (5) (SQLITE_BUSY)"))
		}
	})
	require.NoError(t, err)
	return &inserts
}

func TestStore_RetriedSelectPublishesOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	deal := e.openDeal(t, 1000, 3)
	_, err := e.svc.Deal.Close(ctx, issuer, deal.ID)
	require.NoError(t, err)

	// range.selected is queued before the state change row fails
	inserts := e.failEventInsert(t, 2)

	_, err = e.svc.Range.Select(ctx, issuer, deal.ID, 0, 1, "")
	require.NoError(t, err)
	assert.Equal(t, int32(4), inserts.Load())

	assert.Equal(t, 1, e.events.count(service.EventRangeSelected))
	assert.Equal(t, 3, e.events.count(service.EventDealStateChanged))

	var rows int64
	require.NoError(t, e.db.Database().Model(&model.DealEvent{}).
		Where("deal_id = ? AND name = ?", deal.ID, service.EventRangeSelected).
		Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestStore_RetriedSubmitPublishesOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	deal := e.openDeal(t, 1000, 3)
	a := e.investor(t, deal.ID, "a@fund.com")

	e.failEventInsert(t, 1)

	_, err := e.svc.IOI.Submit(ctx, a, deal.ID, core.IOIRequest{BandOrdinal: ordinal(1), Amount: 50})
	require.NoError(t, err)
	assert.Equal(t, 1, e.events.count(service.EventIOISubmitted))

	history, err := e.svc.IOI.History(ctx, issuer, deal.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestIOI_ConcurrentSubmitKeepsOneActive(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))

	e := newEnv(t)
	deal := e.openDeal(t, 1000, 5)
	a := e.investor(t, deal.ID, "a@fund.com")

	const writers = 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []error
	)
	record := func(err error) {
		if err == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		failures = append(failures, err)
	}
	for i := 0; i < writers; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := e.svc.IOI.Submit(context.Background(), a, deal.ID, core.IOIRequest{
				BandOrdinal: ordinal(i % 5),
				Amount:      float64(100 * (i + 1)),
				Strength:    "strong",
			})
			record(err)
		}(i)
		go func() {
			defer wg.Done()
			sum, err := e.svc.Demand.Summary(context.Background(), issuer, deal.ID)
			if err == nil && sum.IOICount > 1 {
				err = errors.New("summary saw more than one active indication")
			}
			record(err)
		}()
	}
	wg.Wait()
	require.Empty(t, failures)

	active, err := e.svc.IOI.ListAllForIssuer(context.Background(), issuer, deal.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)

	history, err := e.svc.IOI.History(context.Background(), issuer, deal.ID)
	require.NoError(t, err)
	require.Len(t, history, writers)
	activeRows := 0
	for _, h := range history {
		if h.Status == core.LedgerActive {
			activeRows++
		}
	}
	assert.Equal(t, 1, activeRows)
	assert.Equal(t, writers, e.events.count(service.EventIOISubmitted))
}

func TestRange_ConcurrentSelectOneWins(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))

	e := newEnv(t)
	deal := e.openDeal(t, 1000, 4)
	_, err := e.svc.Deal.Close(context.Background(), issuer, deal.ID)
	require.NoError(t, err)

	const callers = 8
	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		ok, already int
		other       []error
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := e.svc.Range.Select(context.Background(), issuer, deal.ID, i%2, 2+i%2, "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, core.ErrAlreadySelected):
				already++
			default:
				other = append(other, err)
			}
		}(i)
	}
	wg.Wait()

	require.Empty(t, other)
	assert.Equal(t, 1, ok)
	assert.Equal(t, callers-1, already)
	assert.Equal(t, 1, e.events.count(service.EventRangeSelected))

	got, err := e.svc.Deal.Get(context.Background(), issuer, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, statemachine.DealRangeSelected, got.State)
}

func TestDeal_LifecycleStampsTimes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	deal, err := e.svc.Deal.Create(ctx, issuer, core.DealInput{Name: "Stamps", Type: core.DealEquity, Currency: "USD"})
	require.NoError(t, err)
	assert.Nil(t, deal.OpenedAt)

	_, err = e.svc.Band.Define(ctx, issuer, deal.ID, bandSpecs(3))
	require.NoError(t, err)
	opened := e.clock.Now()
	deal, err = e.svc.Deal.Open(ctx, issuer, deal.ID)
	require.NoError(t, err)
	require.NotNil(t, deal.OpenedAt)
	assert.True(t, deal.OpenedAt.Equal(opened))
	assert.Nil(t, deal.ClosedAt)

	e.clock.Advance(time.Hour)
	closed := e.clock.Now()
	deal, err = e.svc.Deal.Close(ctx, issuer, deal.ID)
	require.NoError(t, err)
	require.NotNil(t, deal.ClosedAt)
	assert.True(t, deal.ClosedAt.Equal(closed))
	assert.True(t, deal.OpenedAt.Equal(opened))

	e.clock.Advance(time.Hour)
	selected := e.clock.Now()
	_, err = e.svc.Range.Select(ctx, issuer, deal.ID, 0, 2, "")
	require.NoError(t, err)

	got, err := e.svc.Deal.Get(ctx, issuer, deal.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SelectedAt)
	assert.True(t, got.SelectedAt.Equal(selected))
	assert.True(t, got.ClosedAt.Equal(closed))
}
