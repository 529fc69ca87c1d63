package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Process-wide metrics, registered through promauto so importing the package
// is enough to expose them on /metrics.

var (
	// HttpRequestsTotal counts served HTTP requests by method, path and
	// status code.
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dynagraph_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// HttpRequestDuration measures server response time per endpoint.
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dynagraph_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// GraphNodes tracks the node count of the flattened graph.
	GraphNodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dynagraph_graph_nodes",
			Help: "Number of nodes in the temporal graph",
		},
	)

	// GraphInteractions tracks the number of interaction records.
	GraphInteractions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dynagraph_graph_interactions",
			Help: "Number of interaction records in the temporal graph",
		},
	)

	// WriteOpsTotal counts applied mutations by kind (add, add_span, remove,
	// node).
	WriteOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dynagraph_write_ops_total",
			Help: "Total number of applied graph mutations",
		},
		[]string{"op"},
	)

	// PathSearchesTotal counts temporal path searches.
	PathSearchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dynagraph_path_searches_total",
			Help: "Total number of time-respecting path searches",
		},
	)
)
