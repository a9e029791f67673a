// Package metrics exposes the Prometheus instrumentation for wishlist
// activity. Counters are registered on the default registry and served
// by the API server's /metrics endpoint.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// ActionsTotal counts mutating wishlist/profile actions by outcome:
	// ok, rejected (local validation), failed (remote).
	ActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giftwish_actions_total",
			Help: "Mutating actions by action name and outcome",
		},
		[]string{"action", "outcome"},
	)

	// ClaimConflictsTotal counts claims and unclaims lost to another
	// actor at the collaborator.
	ClaimConflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "giftwish_claim_conflicts_total",
			Help: "Conditional claim updates that lost the race",
		},
	)

	// RollbacksTotal counts optimistic writes reverted after a remote
	// failure.
	RollbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "giftwish_optimistic_rollbacks_total",
			Help: "Optimistic local writes rolled back",
		},
	)

	// MigratedItemsTotal counts guest wishlist items migrated on
	// sign-in, by outcome.
	MigratedItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "giftwish_guest_migrated_items_total",
			Help: "Guest wishlist items migrated to remote storage by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		ActionsTotal,
		ClaimConflictsTotal,
		RollbacksTotal,
		MigratedItemsTotal,
	)
}
