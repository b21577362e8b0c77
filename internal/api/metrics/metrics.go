// Package metrics defines and registers all custom Prometheus metrics for the
// donation gateway. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at import time;
// the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "donation"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome ("success" or "failure").
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// RegistrationsTotal counts registration attempts by outcome.
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by outcome.",
	},
	[]string{"outcome"},
)

// SessionsRehydratedTotal counts session store initializations by how the
// persisted record resolved ("authenticated", "absent", "corrupt").
var SessionsRehydratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_rehydrated_total",
		Help:      "Total number of session rehydrations, by persisted-record outcome.",
	},
	[]string{"outcome"},
)

// GuardDecisionsTotal counts route guard outcomes ("allow", "redirect", "pending").
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard authorization decisions, by outcome.",
	},
	[]string{"decision"},
)

// ── Donation metrics ──────────────────────────────────────────────────────────

// DonationsCreatedTotal counts newly registered donations by category.
var DonationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "donations_created_total",
		Help:      "Total number of medicine donations registered, by category.",
	},
	[]string{"category"},
)

// DonationTransitionsTotal counts lifecycle transitions by resulting status.
var DonationTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "donation_transitions_total",
		Help:      "Total number of donation status transitions, by resulting status.",
	},
	[]string{"status"},
)
