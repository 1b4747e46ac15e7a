// Package metrics exposes the Prometheus metrics for the daemon. All
// metrics self-register in the default registry and are served from the
// /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests.
	// Labels: method, path (route template), status
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notesd",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route, and status code",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDuration tracks HTTP request latency.
	// Labels: method, path (route template)
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "notesd",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds by method and route",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// ExtractedItems counts action items produced by extraction.
	// Labels: provider (rules, bullets, simple, llm, noop)
	ExtractedItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notesd",
			Subsystem: "extract",
			Name:      "items_total",
			Help:      "Total number of action items extracted by provider",
		},
		[]string{"provider"},
	)

	// InboxFiles counts files picked up from the inbox directory.
	// Labels: result (processed, error)
	InboxFiles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notesd",
			Subsystem: "inbox",
			Name:      "files_total",
			Help:      "Total number of inbox files handled",
		},
		[]string{"result"},
	)

	// ToolCalls counts MCP tool invocations.
	// Labels: tool, status (ok, error)
	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notesd",
			Subsystem: "mcp",
			Name:      "tool_calls_total",
			Help:      "Total number of MCP tool invocations by tool and status",
		},
		[]string{"tool", "status"},
	)
)
