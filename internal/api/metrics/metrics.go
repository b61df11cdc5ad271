// Package metrics defines the custom Prometheus metrics of the election API.
// It is the single source of truth for metric names, labels, and help strings.
//
// All metrics are registered with the default registry through promauto, so
// they appear on /metrics next to the echoprometheus HTTP metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "election"

// ── Ballot metrics ────────────────────────────────────────────────────────────

// BallotsTotal counts CastVote outcomes.
// Label:
//   - result: "accepted", "already_voted", "not_found", "conflict", "invalid" or "error"
var BallotsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ballots_total",
		Help:      "Total number of ballot submissions, labelled by outcome.",
	},
	[]string{"result"},
)

// ── Enrollment metrics ────────────────────────────────────────────────────────

// EnrollmentsTotal counts JoinClubs outcomes.
// Label:
//   - result: "joined", "no_change", "limit_exceeded", "not_found", "conflict", "invalid" or "error"
var EnrollmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrollments_total",
		Help:      "Total number of club enrollment requests, labelled by outcome.",
	},
	[]string{"result"},
)

// ── Reconciliation metrics ────────────────────────────────────────────────────

// ReconcileRunsTotal counts reconciliation passes.
// Labels:
//   - trigger: "interval", "trigger" (queued request) or "manual" (admin call)
//   - result: "ok" or "error"
var ReconcileRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconcile_runs_total",
		Help:      "Total number of tally reconciliation passes.",
	},
	[]string{"trigger", "result"},
)

// ReconcileAdjustedTotal counts stored candidate counters rewritten by
// reconciliation. A steadily growing value means something writes tallies
// outside the ballot path.
var ReconcileAdjustedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconcile_adjusted_total",
		Help:      "Total number of candidate vote counters corrected by reconciliation.",
	},
)

// ReconcileDuration measures a full reconciliation pass.
var ReconcileDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reconcile_duration_seconds",
		Help:      "Duration of a tally reconciliation pass.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)

// ReconcilePending reports whether a triggered pass is waiting for the worker
// (0 or 1; triggers coalesce).
var ReconcilePending = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "reconcile_pending",
		Help:      "1 while a requested reconciliation pass is queued.",
	},
)
