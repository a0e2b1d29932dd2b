// Package metrics defines and registers all custom Prometheus metrics for
// the account service. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// RegistrationsTotal counts registration attempts by outcome.
// Label:
//   - result: "created", "rejected" (validation/duplicate) or "blocked" (flood control)
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by outcome.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts validation tokens issued.
// Label:
//   - purpose: "verification" (email link) or "password_reset" (SMS OTP)
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of validation tokens issued, by purpose.",
	},
	[]string{"purpose"},
)

// PasswordResetsTotal counts completed password resets.
var PasswordResetsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password resets completed.",
	},
)

// DeliveriesFailedTotal counts outbound notification failures.
// Label:
//   - channel: "email" or "sms"
var DeliveriesFailedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deliveries_failed_total",
		Help:      "Total number of failed notification deliveries, by channel.",
	},
	[]string{"channel"},
)

// LoginsTotal counts authentication attempts by outcome.
// Label:
//   - result: "success", "mismatch", or "not_found"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"result"},
)
