package gateway

import "github.com/prometheus/client_golang/prometheus"

var (
	// DecisionsTotal counts compliance decisions by status and reason.
	DecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blockkit",
			Name:      "proposal_decisions_total",
			Help:      "Total proposal decisions by status and rejection reason.",
		},
		[]string{"status", "reason"},
	)

	// ForwardsTotal counts proposals forwarded to the wallet channel.
	ForwardsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "blockkit",
			Name:      "proposal_forwards_total",
			Help:      "Total accepted proposals forwarded to the wallet.",
		},
	)
)

func init() {
	prometheus.MustRegister(DecisionsTotal, ForwardsTotal)
}
