// Package metrics defines the custom Prometheus metrics of the task
// marketplace API. Metrics are registered with the default registry on import
// and served by the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskmarket"

// ── Action metrics ────────────────────────────────────────────────────────────

// ActionsTotal counts dispatched manager actions.
// Labels:
//   - manager: "user", "task", "order", "payment" or "review"
//   - action: the requested action name
//   - result: "ok" or the error kind (e.g. "not_found", "conflict")
var ActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "actions_total",
		Help:      "Total number of manager actions handled, by outcome.",
	},
	[]string{"manager", "action", "result"},
)

// TransitionConflictsTotal counts state changes lost to a concurrent writer.
var TransitionConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transition_conflicts_total",
		Help:      "Total number of actions rejected because the state changed concurrently.",
	},
	[]string{"manager"},
)

// ── Marketplace metrics ───────────────────────────────────────────────────────

var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created.",
	},
)

var ReviewsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_created_total",
		Help:      "Total number of reviews created.",
	},
)

// PaymentCallbacksTotal counts gateway callbacks.
// Label:
//   - result: "ok", "failed" or "error"
var PaymentCallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_callbacks_total",
		Help:      "Total number of payment gateway callbacks, by result.",
	},
	[]string{"result"},
)

// ── Settlement metrics ────────────────────────────────────────────────────────

// SettlementsTotal counts settlement attempts.
// Label:
//   - result: "ok", "error", or "dropped" (queue full at enqueue)
var SettlementsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settlements_total",
		Help:      "Total number of settlement attempts, by result.",
	},
	[]string{"result"},
)

// SettlementQueueDepth tracks jobs waiting in each dispatcher worker channel.
var SettlementQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "settlement_queue_depth",
		Help:      "Current number of settlement jobs pending in each worker channel.",
	},
	[]string{"worker_id"},
)

var SettlementDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "settlement_duration_seconds",
		Help:      "Duration of one settlement from dequeue to completion.",
		Buckets:   prometheus.DefBuckets,
	},
)
