package service

import (
	"context"
	"time"

	"github.com/go-arcade/bookbuild/internal/engine/model"
	"github.com/go-arcade/bookbuild/internal/engine/repo"
	"github.com/go-arcade/bookbuild/pkg/cron"
	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/pkg/errors"
)

const (
	SweepJobName = "invitation-expiry"
	sweepBatch   = 100
)

// Sweeper announces invitations that expired unused. Expiry itself is
// evaluated on read; the sweep only emits invitation.expired once per seat.
type Sweeper struct {
	*Deps
}

func NewSweeper(deps *Deps) *Sweeper {
	return &Sweeper{Deps: deps}
}

// Register schedules the sweep on the configured cron spec
func (s *Sweeper) Register(scheduler *cron.Scheduler) error {
	spec := s.Config.SweepSpec
	if spec == "" {
		return nil
	}
	return scheduler.AddJob(SweepJobName, spec, func(ctx context.Context) error {
		_, err := s.Sweep(ctx)
		return err
	})
}

// Sweep processes expired, unannounced invitations in batches and reports how many it announced
func (s *Sweeper) Sweep(ctx context.Context) (n int, err error) {
	ctx, span := s.start(ctx, "Sweeper.Sweep")
	defer s.end(span, &err)

	now := s.now()
	for {
		var batch []model.Invitation
		err = s.Store.Read(ctx, func(tx *repo.Tx) error {
			batch, err = tx.Invitation.ListExpiredUnnotified(now, sweepBatch)
			return err
		})
		if err != nil {
			return n, errors.Wrap(err, "list expired invitations")
		}
		for i := range batch {
			if err := s.expire(ctx, &batch[i], now); err != nil {
				return n, err
			}
			n++
		}
		if len(batch) < sweepBatch {
			break
		}
	}
	if n > 0 {
		log.WithContext(ctx).Infow("expired invitations announced", "count", n)
	}
	return n, nil
}

func (s *Sweeper) expire(ctx context.Context, inv *model.Invitation, now time.Time) error {
	var box outbox
	err := s.Store.WithDealLock(ctx, inv.DealID, func(tx *repo.Tx, _ *model.Deal) error {
		box.reset()
		cur, err := tx.Invitation.Get(inv.ID)
		if err != nil {
			return err
		}
		// redeemed or revoked since the listing
		if cur.ConsumedAt != nil || cur.RevokedAt != nil || cur.ExpiryNotifiedAt != nil {
			return nil
		}
		if err := tx.Invitation.MarkExpiryNotified(cur.ID, now); err != nil {
			return errors.Wrap(err, "mark expiry notified")
		}
		return box.add(tx, invitationEvent(EventInvitationExpired, cur, ""))
	})
	if err != nil {
		return err
	}
	if len(box.events) > 0 {
		s.Metrics.Invitation("expired")
	}
	box.flush(ctx, s.Bus)
	return nil
}
