package usage

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// UsageOpsTotal counts usage ledger operations by type.
	UsageOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blockkit",
			Name:      "usage_operations_total",
			Help:      "Total usage ledger operations by type.",
		},
		[]string{"type"},
	)

	// UsageOpDuration observes operation latency by type.
	UsageOpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "blockkit",
			Name:      "usage_operation_duration_seconds",
			Help:      "Usage ledger operation duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(UsageOpsTotal, UsageOpDuration)
}

// observeOp records one operation and returns a done func that
// observes its duration.
func observeOp(op string) func() {
	start := time.Now()
	UsageOpsTotal.WithLabelValues(op).Inc()
	return func() {
		UsageOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}
