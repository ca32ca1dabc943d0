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

package repo

import (
	"context"
	"errors"
	"time"

	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/internal/engine/model"
	"github.com/go-arcade/bookbuild/internal/pkg/lock"
	"github.com/go-arcade/bookbuild/pkg/database"
	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/go-arcade/bookbuild/pkg/retry"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Tx exposes every repository bound to one database transaction
type Tx struct {
	db         *gorm.DB
	Deal       IDealRepository
	Band       IBandRepository
	Invitation IInvitationRepository
	IOI        IIOIRepository
	Selection  ISelectionRepository
	Note       INoteRepository
	Event      IEventRepository
}

func newTx(db *gorm.DB) *Tx {
	return &Tx{
		db:         db,
		Deal:       NewDealRepo(db),
		Band:       NewBandRepo(db),
		Invitation: NewInvitationRepo(db),
		IOI:        NewIOIRepo(db),
		Selection:  NewSelectionRepo(db),
		Note:       NewNoteRepo(db),
		Event:      NewEventRepo(db),
	}
}

// Store owns the per-deal serialization boundary. A write on a deal holds an
// in-process lock keyed by the deal id and, inside its transaction, a row
// lock on the deal so separate instances serialize too.
type Store struct {
	db      database.IDatabase
	locks   *lock.KeyedMutex
	retries int
	backoff time.Duration
	onRetry func()
}

type StoreOption func(*Store)

// WithRetries bounds the attempts made on transient lock contention
func WithRetries(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.retries = n
		}
	}
}

// WithRetryHook is called before every retried attempt
func WithRetryHook(fn func()) StoreOption {
	return func(s *Store) {
		s.onRetry = fn
	}
}

func NewStore(db database.IDatabase, opts ...StoreOption) *Store {
	s := &Store{
		db:      db,
		locks:   lock.NewKeyedMutex(),
		retries: 5,
		backoff: 10 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) AutoMigrate(ctx context.Context) error {
	return s.db.Database().WithContext(ctx).AutoMigrate(model.All()...)
}

// WithDealLock runs fn in a transaction holding the deal lock. fn receives the
// deal row as read under the lock. A missing deal yields core.ErrDealNotFound.
func (s *Store) WithDealLock(ctx context.Context, dealID string, fn func(tx *Tx, deal *model.Deal) error) error {
	unlock := s.locks.Lock(dealID)
	defer unlock()

	return s.transact(ctx, func(gtx *gorm.DB) error {
		deal, err := lockDeal(gtx, dealID)
		if err != nil {
			return err
		}
		return fn(newTx(gtx), deal)
	})
}

// Write runs fn in a transaction without a deal lock, for rows no other
// writer can see yet.
func (s *Store) Write(ctx context.Context, fn func(tx *Tx) error) error {
	return s.transact(ctx, func(gtx *gorm.DB) error {
		return fn(newTx(gtx))
	})
}

// Read runs fn in a transaction so every query sees one snapshot
func (s *Store) Read(ctx context.Context, fn func(tx *Tx) error) error {
	return s.db.Database().WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(newTx(gtx))
	})
}

func (s *Store) transact(ctx context.Context, fn func(gtx *gorm.DB) error) error {
	return retry.Do(ctx, func(ctx context.Context) error {
		return s.db.Database().WithContext(ctx).Transaction(fn)
	},
		retry.WithMaxAttempts(s.retries),
		retry.WithBackoff(retry.Exponential(s.backoff, time.Second)),
		retry.WithJitter(retry.FullJitter),
		retry.WithRetryIf(database.IsTransient),
		retry.WithOnRetry(func(attempt int, err error) {
			log.WithContext(ctx).Warnw("retrying transaction after lock contention", "attempt", attempt, "error", err)
			if s.onRetry != nil {
				s.onRetry()
			}
		}),
	)
}

func lockDeal(db *gorm.DB, dealID string) (*model.Deal, error) {
	q := db
	// sqlite has no row locks; its single writer already serializes
	if db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	var deal model.Deal
	if err := q.Where("id = ?", dealID).Take(&deal).Error; err != nil {
		return nil, notFound(err, core.ErrDealNotFound)
	}
	return &deal, nil
}

// notFound maps gorm.ErrRecordNotFound to the given domain error
func notFound(err error, domainErr *core.Error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}

func Count(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
