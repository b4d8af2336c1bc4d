// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "billsplit"

// Calculation branches.
const (
	BranchItemized   = "itemized"
	BranchEqualSplit = "equal_split"
)

var (
	// Calculations counts successful breakdowns by allocation branch.
	Calculations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calculations_total",
		Help:      "Bill breakdowns computed, by allocation branch.",
	}, []string{"branch"})

	// ValidationFailures counts requests rejected for invalid input, whether
	// by the wire layer or by the calculator.
	ValidationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Requests rejected because of invalid input.",
	})

	// RPCRequests counts handled RPCs by procedure and connect code.
	RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_requests_total",
		Help:      "RPCs handled, by procedure and result code.",
	}, []string{"procedure", "code"})

	// RPCDuration observes RPC latency by procedure.
	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "RPC latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure"})
)

// ObserveCalculation records a successful breakdown.
func ObserveCalculation(equalSplit bool) {
	branch := BranchItemized
	if equalSplit {
		branch = BranchEqualSplit
	}
	Calculations.WithLabelValues(branch).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
