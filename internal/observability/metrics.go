package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UnlockAttempts counts unlock operations by outcome
	// (unlocked, already_unlocked, expired, no_credits, not_found).
	UnlockAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rishta_unlock_attempts_total",
		Help: "Total number of profile unlock attempts by outcome",
	}, []string{"outcome"})

	// Approvals counts successful account approvals by assigned tier.
	Approvals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rishta_approvals_total",
		Help: "Total number of account approvals by package tier",
	}, []string{"tier"})

	// Registrations counts accepted registrations.
	Registrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rishta_registrations_total",
		Help: "Total number of accepted registrations",
	})
)
