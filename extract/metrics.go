package extract

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the extraction pipeline.
// All increment methods are nil-safe so callers can leave metrics off.
type Metrics struct {
	Registry        *prometheus.Registry
	SnapshotsTotal  *prometheus.CounterVec
	RecordsTotal    *prometheus.CounterVec
	DuplicatesTotal prometheus.Counter
	ErrorsTotal     *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	snapshots := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extract_snapshots_total",
			Help: "Total snapshots parsed, by page kind.",
		},
		[]string{"kind"},
	)
	records := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extract_records_total",
			Help: "Total records assembled, by page kind.",
		},
		[]string{"kind"},
	)
	duplicates := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "extract_duplicate_snapshots_total",
			Help: "Total snapshots skipped because an identical body was already seen in the same run.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extract_errors_total",
			Help: "Total snapshot failures, by error code.",
		},
		[]string{"code"},
	)

	registry.MustRegister(snapshots, records, duplicates, errorsTotal)

	return &Metrics{
		Registry:        registry,
		SnapshotsTotal:  snapshots,
		RecordsTotal:    records,
		DuplicatesTotal: duplicates,
		ErrorsTotal:     errorsTotal,
	}
}

// IncSnapshot increments the snapshot counter for a page kind.
func (m *Metrics) IncSnapshot(kind string) {
	if m == nil {
		return
	}
	m.SnapshotsTotal.WithLabelValues(kind).Inc()
}

// AddRecords adds to the record counter for a page kind.
func (m *Metrics) AddRecords(kind string, n int) {
	if m == nil {
		return
	}
	m.RecordsTotal.WithLabelValues(kind).Add(float64(n))
}

// IncDuplicate increments the duplicate snapshot counter.
func (m *Metrics) IncDuplicate() {
	if m == nil {
		return
	}
	m.DuplicatesTotal.Inc()
}

// IncError increments the error counter for a code label.
func (m *Metrics) IncError(code string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(code).Inc()
}
