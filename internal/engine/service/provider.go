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
	"time"

	"github.com/go-arcade/bookbuild/internal/engine/conf"
	"github.com/go-arcade/bookbuild/internal/engine/repo"
	"github.com/go-arcade/bookbuild/internal/pkg/notify"
	"github.com/go-arcade/bookbuild/pkg/cache"
	"github.com/go-arcade/bookbuild/pkg/cron"
	"github.com/go-arcade/bookbuild/pkg/event"
	"github.com/go-arcade/bookbuild/pkg/metrics"
	"github.com/google/wire"
)

// ProviderSet provides the service layer
var ProviderSet = wire.NewSet(
	ProvideEventBus,
	ProvideDeps,
	ProvideServices,
	ProvideScheduler,
)

// ProvideEventBus routes every event to the notifier
func ProvideEventBus(n *notify.Notifier) *event.EventBus {
	bus := event.NewEventBus()
	bus.RegisterHandler(event.Wildcard, n)
	return bus
}

func ProvideDeps(store *repo.Store, bus *event.EventBus, m *metrics.BookbuildMetrics, cfg conf.BookbuildConfig) *Deps {
	return &Deps{
		Store:   store,
		Bus:     bus,
		Metrics: m,
		Config:  cfg,
		Now:     time.Now,
	}
}

func ProvideServices(deps *Deps, c cache.ICache, cacheConf cache.Config) *Services {
	return NewServices(deps, c, cacheConf.TTL)
}

// ProvideScheduler builds the cron scheduler with the expiry sweep registered.
// The caller starts and stops it.
func ProvideScheduler(svc *Services, m *metrics.CronMetrics) (*cron.Scheduler, error) {
	s := cron.New(cron.WithMetrics(m), cron.WithTimeout(time.Minute))
	if err := svc.Sweeper.Register(s); err != nil {
		return nil, err
	}
	return s, nil
}
