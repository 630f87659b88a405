package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records cache-maintenance and cost-propagation activity.
type EngineMetrics struct {
	snapshotRebuilds     *prometheus.CounterVec
	snapshotDeletes      prometheus.Counter
	snapshotFailures     prometheus.Counter
	summaryRebuilds      prometheus.Counter
	summaryFailures      prometheus.Counter
	costPropagations     prometheus.Counter
	costFailures         prometheus.Counter
	productsRecalculated prometheus.Counter
	propagationDuration  prometheus.Histogram
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	snapshotRebuilds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshot_rebuilds_total",
		Help: "Order snapshot upserts, labelled by trigger.",
	}, []string{"trigger"})
	snapshotDeletes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_deletes_total",
		Help: "Order snapshot deletions.",
	})
	snapshotFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_failures_total",
		Help: "Order snapshot maintenance failures.",
	})
	summaryRebuilds := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "summary_rebuilds_total",
		Help: "Daily summary recomputations.",
	})
	summaryFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "summary_failures_total",
		Help: "Daily summary maintenance failures.",
	})
	costPropagations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cost_propagations_total",
		Help: "Cost propagation runs triggered by purchase line changes.",
	})
	costFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cost_propagation_failures_total",
		Help: "Cost propagation runs that ended in a swallowed error.",
	})
	productsRecalculated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "products_recalculated_total",
		Help: "Products whose cost was recalculated during propagation.",
	})
	propagationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cost_propagation_duration_seconds",
		Help:    "Duration of cost propagation runs in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(
		snapshotRebuilds,
		snapshotDeletes,
		snapshotFailures,
		summaryRebuilds,
		summaryFailures,
		costPropagations,
		costFailures,
		productsRecalculated,
		propagationDuration,
	)
	return &EngineMetrics{
		snapshotRebuilds:     snapshotRebuilds,
		snapshotDeletes:      snapshotDeletes,
		snapshotFailures:     snapshotFailures,
		summaryRebuilds:      summaryRebuilds,
		summaryFailures:      summaryFailures,
		costPropagations:     costPropagations,
		costFailures:         costFailures,
		productsRecalculated: productsRecalculated,
		propagationDuration:  propagationDuration,
	}
}

// IncSnapshotRebuild records a snapshot upsert for the given trigger.
func (m *EngineMetrics) IncSnapshotRebuild(trigger string) {
	if m == nil || m.snapshotRebuilds == nil {
		return
	}
	m.snapshotRebuilds.WithLabelValues(normalizeLabel(trigger)).Inc()
}

// IncSnapshotDelete records a snapshot deletion.
func (m *EngineMetrics) IncSnapshotDelete() {
	if m == nil || m.snapshotDeletes == nil {
		return
	}
	m.snapshotDeletes.Inc()
}

// IncSnapshotFailure records a swallowed snapshot maintenance error.
func (m *EngineMetrics) IncSnapshotFailure() {
	if m == nil || m.snapshotFailures == nil {
		return
	}
	m.snapshotFailures.Inc()
}

// IncSummaryRebuild records a daily summary recomputation.
func (m *EngineMetrics) IncSummaryRebuild() {
	if m == nil || m.summaryRebuilds == nil {
		return
	}
	m.summaryRebuilds.Inc()
}

// IncSummaryFailure records a swallowed summary maintenance error.
func (m *EngineMetrics) IncSummaryFailure() {
	if m == nil || m.summaryFailures == nil {
		return
	}
	m.summaryFailures.Inc()
}

// IncCostPropagation records a propagation run.
func (m *EngineMetrics) IncCostPropagation() {
	if m == nil || m.costPropagations == nil {
		return
	}
	m.costPropagations.Inc()
}

// IncCostFailure records a swallowed propagation error.
func (m *EngineMetrics) IncCostFailure() {
	if m == nil || m.costFailures == nil {
		return
	}
	m.costFailures.Inc()
}

// AddProductsRecalculated records how many products a propagation run touched.
func (m *EngineMetrics) AddProductsRecalculated(n int) {
	if m == nil || m.productsRecalculated == nil || n <= 0 {
		return
	}
	m.productsRecalculated.Add(float64(n))
}

// ObservePropagationDuration records the duration of a propagation run.
func (m *EngineMetrics) ObservePropagationDuration(duration time.Duration) {
	if m == nil || m.propagationDuration == nil {
		return
	}
	m.propagationDuration.Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
