// Package metrics defines the custom Prometheus metrics of the review
// platform. It is the single source of truth for metric names, labels, and
// help strings; the counters register themselves with the default registry
// at import time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bazaar"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts account registrations that completed.
// Label:
//   - role: the role the account was created with ("admin" or "user")
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// ReviewsSubmittedTotal counts review submissions.
// Label:
//   - result: "created", "duplicate", or "rejected"
var ReviewsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_submitted_total",
		Help:      "Total number of review submissions, labelled by outcome.",
	},
	[]string{"result"},
)

// ProductMutationsTotal counts catalog write operations performed by admins.
// Label:
//   - op: "create", "update", or "delete"
var ProductMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "product_mutations_total",
		Help:      "Total number of product create/update/delete operations.",
	},
	[]string{"op"},
)
