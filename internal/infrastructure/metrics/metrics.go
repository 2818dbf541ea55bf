package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/txledger/internal/domain"
)

// Metrics holds the Prometheus metrics of one batch run.
type Metrics struct {
	registry *prometheus.Registry

	// Record metrics
	RecordsApplied *prometheus.CounterVec
	RecordsIgnored *prometheus.CounterVec
	RowsSkipped    prometheus.Counter

	// Snapshot metrics
	Accounts       prometheus.Gauge
	LockedAccounts prometheus.Gauge

	RunDuration prometheus.Histogram
}

// New creates all metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		RecordsApplied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txledger_records_applied_total",
				Help: "Total number of records applied by kind",
			},
			[]string{"kind"},
		),
		RecordsIgnored: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txledger_records_ignored_total",
				Help: "Total number of records ignored by kind and reason",
			},
			[]string{"kind", "reason"},
		),
		RowsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "txledger_rows_skipped_total",
			Help: "Total number of malformed input rows skipped",
		}),

		Accounts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txledger_accounts",
			Help: "Number of accounts in the final snapshot",
		}),
		LockedAccounts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txledger_accounts_locked",
			Help: "Number of locked accounts in the final snapshot",
		}),

		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "txledger_run_duration_seconds",
			Help:    "Duration of a full batch run",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
	}
}

// RecordApplied implements usecase.Observer.
func (m *Metrics) RecordApplied(kind domain.Kind) {
	m.RecordsApplied.WithLabelValues(string(kind)).Inc()
}

// RecordIgnored implements usecase.Observer.
func (m *Metrics) RecordIgnored(kind domain.Kind, reason error) {
	m.RecordsIgnored.WithLabelValues(string(kind), ReasonLabel(reason)).Inc()
}

// ObserveRun records the final snapshot and how long the run took.
func (m *Metrics) ObserveRun(snap domain.Snapshot, skipped int, elapsed time.Duration) {
	m.Accounts.Set(float64(len(snap)))
	m.LockedAccounts.Set(float64(snap.LockedCount()))
	m.RowsSkipped.Add(float64(skipped))
	m.RunDuration.Observe(elapsed.Seconds())
}

// Gatherer exposes the private registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes every metric to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// ReasonLabel maps an ignore reason to a bounded label value.
func ReasonLabel(reason error) string {
	switch {
	case errors.Is(reason, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(reason, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(reason, domain.ErrAccountLocked):
		return "account_locked"
	case errors.Is(reason, domain.ErrTransactionNotFound):
		return "not_found"
	case errors.Is(reason, domain.ErrClientMismatch):
		return "client_mismatch"
	case errors.Is(reason, domain.ErrInvalidStatusTransition):
		return "invalid_transition"
	default:
		return "other"
	}
}
