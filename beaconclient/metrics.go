package beaconclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rollup_node",
		Subsystem: "beacon",
		Name:      "http_requests_total",
		Help:      "Number of HTTP requests issued to the L1 beacon node per endpoint.",
	}, []string{"endpoint"})

	requestFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rollup_node",
		Subsystem: "beacon",
		Name:      "http_request_failures_total",
		Help:      "Number of failed L1 beacon node requests per endpoint and failure reason.",
	}, []string{"endpoint", "reason"})
)
