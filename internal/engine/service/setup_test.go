package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-arcade/bookbuild/internal/engine/conf"
	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/internal/engine/model"
	"github.com/go-arcade/bookbuild/internal/engine/repo"
	"github.com/go-arcade/bookbuild/internal/engine/repo/repotest"
	"github.com/go-arcade/bookbuild/internal/engine/service"
	"github.com/go-arcade/bookbuild/pkg/cache"
	"github.com/go-arcade/bookbuild/pkg/database"
	"github.com/go-arcade/bookbuild/pkg/event"
	"github.com/go-arcade/bookbuild/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

var issuer = core.Issuer("issuer-1")

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) Handle(_ context.Context, e event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e.EventName())
	return nil
}

func (r *recorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == name {
			n++
		}
	}
	return n
}

type env struct {
	db     *database.GormDB
	svc    *service.Services
	clock  *clock
	events *recorder
}

type option func(*conf.BookbuildConfig)

func singleUse(c *conf.BookbuildConfig) { c.SingleUseTokens = true }

func newEnv(t *testing.T, opts ...option) *env {
	t.Helper()
	cfg := conf.BookbuildConfig{}
	cfg.SetDefaults()
	for _, opt := range opts {
		opt(&cfg)
	}

	clk := &clock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	rec := &recorder{}
	bus := event.NewEventBus()
	bus.RegisterHandler(event.Wildcard, rec)

	db := repotest.NewDB(t)
	store := repo.NewStore(db)
	require.NoError(t, store.AutoMigrate(context.Background()))

	deps := &service.Deps{
		Store:   store,
		Bus:     bus,
		Metrics: metrics.NewBookbuildMetrics(prometheus.NewRegistry()),
		Config:  cfg,
		Now:     clk.Now,
	}
	c := cache.NewFastCache(cache.FastCacheConfig{MaxBytes: 1 << 20})
	return &env{db: db, svc: service.NewServices(deps, c, time.Minute), clock: clk, events: rec}
}

func bandSpecs(n int) []core.BandSpec {
	specs := make([]core.BandSpec, n)
	for i := range specs {
		specs[i] = core.BandSpec{Lower: float64(100 + 10*i), Upper: float64(110 + 10*i), Unit: "USD"}
	}
	return specs
}

// openDeal creates a deal with n bands and opens it
func (e *env) openDeal(t *testing.T, target float64, bands int) *model.Deal {
	t.Helper()
	ctx := context.Background()
	deal, err := e.svc.Deal.Create(ctx, issuer, core.DealInput{
		Name:         "Project Atlas",
		Type:         core.DealEquity,
		Currency:     "usd",
		TargetAmount: target,
	})
	require.NoError(t, err)
	_, err = e.svc.Band.Define(ctx, issuer, deal.ID, bandSpecs(bands))
	require.NoError(t, err)
	deal, err = e.svc.Deal.Open(ctx, issuer, deal.ID)
	require.NoError(t, err)
	return deal
}

// investor invites and redeems, returning the investor session actor
func (e *env) investor(t *testing.T, dealID, email string) core.Actor {
	t.Helper()
	ctx := context.Background()
	issued, err := e.svc.Invitation.Invite(ctx, issuer, dealID, core.InvestorIdentity{Name: email, Email: email})
	require.NoError(t, err)
	access, err := e.svc.Invitation.Redeem(ctx, issued.Token, nil)
	require.NoError(t, err)
	return core.Investor(access.InvestorID, access.DealID)
}

func ordinal(i int) *int { return &i }
