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

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BookbuildMetrics are the engine level collectors
type BookbuildMetrics struct {
	transitions    *prometheus.CounterVec
	ledgerOps      *prometheus.CounterVec
	invitations    *prometheus.CounterVec
	rejections     *prometheus.CounterVec
	storageRetries prometheus.Counter
	summaryLatency prometheus.Histogram
}

func NewBookbuildMetrics(reg prometheus.Registerer) *BookbuildMetrics {
	m := &BookbuildMetrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookbuild_deal_transitions_total",
			Help: "Deal lifecycle transitions by target state",
		}, []string{"to"}),
		ledgerOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookbuild_ioi_operations_total",
			Help: "IOI ledger mutations by operation and strength",
		}, []string{"op", "strength"}),
		invitations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookbuild_invitation_events_total",
			Help: "Invitation lifecycle events",
		}, []string{"event"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookbuild_rejections_total",
			Help: "Rejected operations by error kind and code",
		}, []string{"kind", "code"}),
		storageRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookbuild_storage_retries_total",
			Help: "Transactions retried after transient storage contention",
		}),
		summaryLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bookbuild_demand_summary_duration_seconds",
			Help:    "Time to produce a demand summary",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
	}
	reg.MustRegister(m.transitions, m.ledgerOps, m.invitations, m.rejections, m.storageRetries, m.summaryLatency)
	return m
}

func (m *BookbuildMetrics) DealTransition(to string) {
	m.transitions.WithLabelValues(to).Inc()
}

func (m *BookbuildMetrics) LedgerOp(op, strength string) {
	m.ledgerOps.WithLabelValues(op, strength).Inc()
}

func (m *BookbuildMetrics) Invitation(event string) {
	m.invitations.WithLabelValues(event).Inc()
}

func (m *BookbuildMetrics) Rejected(kind, code string) {
	m.rejections.WithLabelValues(kind, code).Inc()
}

func (m *BookbuildMetrics) StorageRetry() {
	m.storageRetries.Inc()
}

func (m *BookbuildMetrics) ObserveSummary(d time.Duration) {
	m.summaryLatency.Observe(d.Seconds())
}
