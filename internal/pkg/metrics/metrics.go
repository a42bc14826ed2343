// Package metrics defines and registers all custom Prometheus metrics for the
// tracker service. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry at package init
// via promauto; the /metrics endpoint serves them alongside the HTTP metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tracker"

// ── Store metrics ─────────────────────────────────────────────────────────────

// StoreOperationsTotal counts calls made to the remote store.
// Labels:
//   - collection: "tasks", "contracts", "emails", "profiles"
//   - op: "select", "insert", "update", "delete"
//   - result: "ok" or "error"
var StoreOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_operations_total",
		Help:      "Total number of remote store operations, by collection, operation and result.",
	},
	[]string{"collection", "op", "result"},
)

// StoreOperationDuration measures the round trip of a single store call.
var StoreOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_operation_duration_seconds",
		Help:      "Duration of remote store operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"collection", "op"},
)

// ── Controller metrics ────────────────────────────────────────────────────────

// ResyncsTotal counts full list re-reads.
// Label:
//   - result: "ok", "error", or "stale" (a later-issued read had already been applied)
var ResyncsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resyncs_total",
		Help:      "Total number of list re-fetches, by collection and result.",
	},
	[]string{"collection", "result"},
)

// RecordsLoaded tracks how many records each controller currently holds.
var RecordsLoaded = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "records_loaded",
		Help:      "Number of records held in memory by each resource controller.",
	},
	[]string{"collection"},
)

// IdempotentReplaysTotal counts creates skipped because their Idempotency-Key was already used.
var IdempotentReplaysTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of create requests acknowledged as idempotent replays.",
	},
	[]string{"collection"},
)

// AutofillGeneratedTotal counts auto-fill samples handed out, by entity kind.
var AutofillGeneratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "autofill_generated_total",
		Help:      "Total number of auto-fill samples generated.",
	},
	[]string{"kind"},
)

// ── Dispatcher metrics ────────────────────────────────────────────────────────

// JobsProcessedTotal counts dispatcher jobs by shard key and result
// ("ok", "error", or "cancelled" when the dispatcher context was done).
var JobsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_processed_total",
		Help:      "Total number of dispatcher jobs processed, by key and result.",
	},
	[]string{"key", "result"},
)

// JobsQueueDepth tracks the number of jobs waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var JobsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "jobs_queue_depth",
		Help:      "Current number of jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ObserveStore records one store call.
func ObserveStore(collection, op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	StoreOperationsTotal.WithLabelValues(collection, op, result).Inc()
	StoreOperationDuration.WithLabelValues(collection, op).Observe(time.Since(start).Seconds())
}
