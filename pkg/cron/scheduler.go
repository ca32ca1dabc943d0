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

package cron

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/robfig/cron"
	"go.uber.org/zap"
)

var (
	// ErrDuplicateJob is returned when a job name is registered twice
	ErrDuplicateJob = errors.New("cron job already registered")
)

// JobFunc is a named unit of scheduled work
type JobFunc func(ctx context.Context) error

// MetricsRecorder receives one call per job run
type MetricsRecorder interface {
	RecordJobRun(jobName string, duration time.Duration, err error)
}

// Scheduler wraps robfig/cron with named jobs, run timeouts, logging and metrics
type Scheduler struct {
	cron     *cron.Cron
	recorder MetricsRecorder
	timeout  time.Duration

	mu    sync.Mutex
	names map[string]struct{}
}

// OpOption configures a Scheduler
type OpOption func(*Scheduler)

// WithMetrics records every run on rec
func WithMetrics(rec MetricsRecorder) OpOption {
	return func(s *Scheduler) {
		s.recorder = rec
	}
}

// WithTimeout bounds each job run
func WithTimeout(d time.Duration) OpOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func New(opts ...OpOption) *Scheduler {
	c := cron.New()
	c.ErrorLog = zap.NewStdLog(log.GetLogger().Desugar())
	s := &Scheduler{
		cron:    c,
		timeout: time.Minute,
		names:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddJob registers fn under name. spec uses the six field robfig syntax
// (with seconds) or descriptors such as "@every 1m".
func (s *Scheduler) AddJob(name, spec string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.names[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}
	if err := s.cron.AddFunc(spec, func() { s.RunNow(name, fn) }); err != nil {
		return fmt.Errorf("invalid cron spec %q for job %s: %w", spec, name, err)
	}
	s.names[name] = struct{}{}
	log.Infow("cron job registered", "job", name, "spec", spec)
	return nil
}

// RunNow executes fn synchronously with the scheduler's timeout, logging and metrics
func (s *Scheduler) RunNow(name string, fn JobFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	if s.recorder != nil {
		s.recorder.RecordJobRun(name, elapsed, err)
	}
	if err != nil {
		log.Errorw("cron job failed", "job", name, "elapsed", elapsed, "error", err)
		return
	}
	log.Debugw("cron job finished", "job", name, "elapsed", elapsed)
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// Jobs returns the number of registered jobs
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}
