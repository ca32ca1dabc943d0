package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/internal/engine/model"
	"github.com/go-arcade/bookbuild/internal/engine/repo"
	"github.com/go-arcade/bookbuild/pkg/cache"
	"github.com/pkg/errors"
)

const summaryKeyPrefix = "bookbuild:summary:"

type DemandService struct {
	*Deps
	summaries *cache.CachedQuery[core.Summary]
}

// NewDemandService caches summaries in c when it is not nil. Keys carry the
// ledger version, so every ledger write retires the cached entry.
func NewDemandService(deps *Deps, c cache.ICache, ttl time.Duration) *DemandService {
	opts := []cache.CachedQueryOption[core.Summary]{cache.WithLogPrefix[core.Summary]("[DemandSummary]")}
	if ttl > 0 {
		opts = append(opts, cache.WithTTL[core.Summary](ttl))
	}
	return &DemandService{
		Deps:      deps,
		summaries: cache.NewCachedQuery[core.Summary](c, summaryKey, opts...),
	}
}

func summaryKey(params ...any) string {
	return summaryKeyPrefix + fmt.Sprint(params...)
}

func (s *DemandService) weights() core.Weights {
	return core.Weights{Strong: s.Config.Weights.Strong, Soft: s.Config.Weights.Soft}
}

// Summary is the demand picture of a deal, for its issuer only
func (s *DemandService) Summary(ctx context.Context, actor core.Actor, dealID string) (out *core.Summary, err error) {
	ctx, span := s.start(ctx, "DemandService.Summary", dealAttr(dealID))
	defer s.end(span, &err)

	began := time.Now()
	err = s.Store.Read(ctx, func(tx *repo.Tx) error {
		deal, err := tx.Deal.Get(dealID)
		if err != nil {
			return err
		}
		if err := actor.RequireIssuer(deal.IssuerID); err != nil {
			return err
		}
		out, err = s.summarize(ctx, tx, deal)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Metrics.ObserveSummary(time.Since(began))
	return out, nil
}

// summarize reads bands and active indications in tx and aggregates them
func (s *DemandService) summarize(ctx context.Context, tx *repo.Tx, deal *model.Deal) (*core.Summary, error) {
	w := s.weights()
	sum, err := s.summaries.Get(ctx, func(context.Context) (core.Summary, error) {
		return aggregate(tx, deal, w)
	}, deal.ID, ":", deal.LedgerVersion, ":", w.Key())
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

func aggregate(tx *repo.Tx, deal *model.Deal, w core.Weights) (core.Summary, error) {
	rows, err := tx.Band.ListByDeal(deal.ID)
	if err != nil {
		return core.Summary{}, errors.Wrap(err, "list bands")
	}
	active, err := tx.IOI.ListActive(deal.ID)
	if err != nil {
		return core.Summary{}, errors.Wrap(err, "list active indications")
	}
	bands := make([]core.Band, len(rows))
	for i := range rows {
		bands[i] = rows[i].Core()
	}
	iois := make([]core.Indication, len(active))
	for i := range active {
		iois[i] = active[i].Indication()
	}
	return core.Aggregate(deal.Header(), bands, iois, w), nil
}
