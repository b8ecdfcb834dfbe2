// Package metrics defines the custom Prometheus metrics of the library API.
// It is the single source of truth for metric names, labels and help
// strings. Metrics register with the default registry on import via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "library"

// ── Loan metrics ──────────────────────────────────────────────────────────────

// LoansTotal counts completed loan operations.
// Label:
//   - op: "borrow" or "return"
var LoansTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loans_total",
		Help:      "Total number of successful borrow and return operations.",
	},
	[]string{"op"},
)

// LoanErrorsTotal counts loan operations that failed.
// Labels:
//   - op: "borrow" or "return"
//   - reason: "not_found", "conflict", "validation", "unauthorized" or "internal"
var LoanErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loan_errors_total",
		Help:      "Total number of borrow and return operations that failed.",
	},
	[]string{"op", "reason"},
)

// LoanDuration measures a loan command from dequeue to commit.
var LoanDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "loan_duration_seconds",
		Help:      "Duration of borrow and return commands from dequeue to commit.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)

// LoanQueueDepth tracks pending commands per dispatcher worker.
// Label:
//   - worker_id: numeric worker index
var LoanQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "loan_queue_depth",
		Help:      "Current number of loan commands pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Sweeper metrics ───────────────────────────────────────────────────────────

// RecordsMarkedOverdueTotal counts active records moved to overdue.
var RecordsMarkedOverdueTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_marked_overdue_total",
		Help:      "Total number of borrow records transitioned from active to overdue.",
	},
)

// SweepRunsTotal counts scheduled sweeps.
// Label:
//   - result: "ok", "error" or "skipped" (another instance held the lock)
var SweepRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_runs_total",
		Help:      "Total number of scheduled overdue sweeps, by result.",
	},
	[]string{"result"},
)

// SweepDuration measures a scheduled sweep.
var SweepDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sweep_duration_seconds",
		Help:      "Duration of scheduled overdue sweeps.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// BooksCreatedTotal counts books added to the catalog.
var BooksCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_created_total",
		Help:      "Total number of books added to the catalog.",
	},
)

// UsersRegisteredTotal counts self-registered members.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of self-registered members.",
	},
)
