// Package metrics exposes Prometheus metrics for the fibremap server.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// View Metrics
	ClicksTotal           *prometheus.CounterVec
	ExpansionNodesAdded   prometheus.Counter
	ExpansionEdgesAdded   prometheus.Counter
	ExpansionVisited      prometheus.Histogram
	CollapseElementsTotal *prometheus.CounterVec
	SessionsActive        prometheus.Gauge
	SessionsOpenedTotal   prometheus.Counter
	SessionsEvictedTotal  *prometheus.CounterVec

	// Topology Metrics
	TopologyRecords      *prometheus.GaugeVec
	TopologyLoadsTotal   *prometheus.CounterVec
	TopologyLoadDuration prometheus.Histogram

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initHTTPMetrics()
	r.initViewMetrics()
	r.initTopologyMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
