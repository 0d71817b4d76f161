package grid

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the grid collectors. A nil *Metrics records nothing.
type Metrics struct {
	operations  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	rowsAdded   *prometheus.CounterVec
	rowsRemoved *prometheus.CounterVec
	merges      *prometheus.CounterVec
	grids       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridkit",
			Subsystem: "grid",
			Name:      "operations_total",
			Help:      "Grid API calls by operation and outcome",
		}, []string{"grid", "op", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gridkit",
			Subsystem: "grid",
			Name:      "operation_duration_seconds",
			Help:      "Grid API call latency in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"op"}),
		rowsAdded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridkit",
			Subsystem: "rows",
			Name:      "added_total",
			Help:      "Rows inserted by AddNewRows",
		}, []string{"grid"}),
		rowsRemoved: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridkit",
			Subsystem: "rows",
			Name:      "removed_total",
			Help:      "Rows deleted by RemoveSelectedRows",
		}, []string{"grid"}),
		merges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridkit",
			Subsystem: "selection",
			Name:      "equalize_merges_total",
			Help:      "Selection ranges merged away by equalize passes",
		}, []string{"grid"}),
		grids: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "gridkit",
			Subsystem: "registry",
			Name:      "grids",
			Help:      "Grids currently registered",
		}),
	}
}

func (m *Metrics) observeOp(grid, op string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if !ok {
		outcome = OutcomeFailure
	}
	m.operations.WithLabelValues(grid, op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(d.Seconds())
}

func (m *Metrics) observeRows(grid string, added, removed int) {
	if m == nil {
		return
	}
	if added > 0 {
		m.rowsAdded.WithLabelValues(grid).Add(float64(added))
	}
	if removed > 0 {
		m.rowsRemoved.WithLabelValues(grid).Add(float64(removed))
	}
}

func (m *Metrics) observeMerges(grid string, merged int) {
	if m == nil || merged == 0 {
		return
	}
	m.merges.WithLabelValues(grid).Add(float64(merged))
}

func (m *Metrics) setGrids(n int) {
	if m == nil {
		return
	}
	m.grids.Set(float64(n))
}
