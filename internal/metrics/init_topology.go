package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initTopologyMetrics() {
	r.TopologyRecords = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fibremap_topology_records",
			Help: "Number of records in the loaded topology document",
		},
		[]string{"kind"},
	)

	r.TopologyLoadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "fibremap_topology_loads_total",
			Help: "Total number of topology document loads",
		},
		[]string{"status"},
	)

	r.TopologyLoadDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fibremap_topology_load_duration_seconds",
			Help:    "Time to fetch and parse the topology document",
			Buckets: prometheus.DefBuckets,
		},
	)
}
