// Package metrics provides Prometheus metrics for the student tracker.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values shared by callers.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"

	OutcomeSaved  = "saved"
	OutcomeDenied = "denied"
)

// Manager owns every tracker metric.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	logins       *prometheus.CounterVec
	signups      *prometheus.CounterVec
	recordSaves  *prometheus.CounterVec
	reports      *prometheus.CounterVec
	recoveries   prometheus.Counter
	saveErrors   prometheus.Counter
	saveLatency  prometheus.Histogram
	accounts     prometheus.Gauge
	visible      prometheus.Gauge
	importedRows prometheus.Counter
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by package-level helpers

func init() { //nolint:gochecknoinits // metrics exist before any component runs
	globalManager = NewManager()
}

// NewManager creates a manager registered on its own registry unless one is
// supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "tracker",
		subsystem:        "core",
		histogramBuckets: []float64{0.5, 1, 2, 5, 10, 25, 50, 100, 250, 1000},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.logins = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "logins_total",
		Help:      "Login attempts by result and account kind",
	}, []string{"result", "kind"})

	m.signups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "signups_total",
		Help:      "Signup attempts by result",
	}, []string{"result"})

	m.recordSaves = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "record_saves_total",
		Help:      "Record list replacements by outcome",
	}, []string{"outcome"})

	m.reports = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reports_exported_total",
		Help:      "Exported report artifacts by format",
	}, []string{"format"})

	m.recoveries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_recoveries_total",
		Help:      "Loads that fell back to an empty account directory",
	})

	m.saveErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_save_errors_total",
		Help:      "Failed writes of the account directory",
	})

	m.saveLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_save_latency_milliseconds",
		Help:      "Time spent writing the account directory",
		Buckets:   m.histogramBuckets,
	})

	m.accounts = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "accounts",
		Help:      "Accounts in the loaded directory",
	})

	m.visible = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "visible_records",
		Help:      "Records visible to the most recent session query",
	})

	m.importedRows = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "imported_records_total",
		Help:      "Records appended from workbook imports or seeding",
	})
}

// Registry returns the registry the manager writes to.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// ImportedRecords exposes the bulk-append counter.
func (m *Manager) ImportedRecords() prometheus.Counter {
	return m.importedRows
}

// WriteTextfile dumps the registry in the text exposition format.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}

// RecordLogin counts a login attempt.
func RecordLogin(result string, privileged bool) {
	kind := "user"
	if privileged {
		kind = "author"
	}
	globalManager.logins.WithLabelValues(result, kind).Inc()
}

// RecordSignup counts a signup attempt.
func RecordSignup(result string) {
	globalManager.signups.WithLabelValues(result).Inc()
}

// RecordSave counts a record replacement by outcome.
func RecordSave(outcome string) {
	globalManager.recordSaves.WithLabelValues(outcome).Inc()
}

// RecordReport counts an exported artifact.
func RecordReport(format string) {
	globalManager.reports.WithLabelValues(format).Inc()
}

// RecordStoreRecovery counts a fail-soft load.
func RecordStoreRecovery() {
	globalManager.recoveries.Inc()
}

// RecordStoreSaveError counts a failed directory write.
func RecordStoreSaveError() {
	globalManager.saveErrors.Inc()
}

// RecordStoreSaveLatency observes a directory write duration.
func RecordStoreSaveLatency(ms float64) {
	globalManager.saveLatency.Observe(ms)
}

// UpdateAccounts sets the number of accounts in the directory.
func UpdateAccounts(n int) {
	globalManager.accounts.Set(float64(n))
}

// UpdateVisibleRecords sets the size of the latest visible record set.
func UpdateVisibleRecords(n int) {
	globalManager.visible.Set(float64(n))
}

// RecordImported counts records appended in bulk.
func RecordImported(n int) {
	globalManager.importedRows.Add(float64(n))
}

// Default returns the package-level manager.
func Default() *Manager {
	return globalManager
}

// WriteTextfile dumps the package-level registry to path.
func WriteTextfile(path string) error {
	return globalManager.WriteTextfile(path)
}
