package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initViewMetrics() {
	r.ClicksTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "fibremap_clicks_total",
			Help: "Total number of view clicks by resulting action",
		},
		[]string{"action"},
	)

	r.ExpansionNodesAdded = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "fibremap_expansion_nodes_added_total",
			Help: "Total number of nodes added to datasets by expansion",
		},
	)

	r.ExpansionEdgesAdded = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "fibremap_expansion_edges_added_total",
			Help: "Total number of edges added to datasets by expansion",
		},
	)

	r.ExpansionVisited = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fibremap_expansion_visited_nodes",
			Help:    "Number of nodes visited by a single expansion",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 1000},
		},
	)

	r.CollapseElementsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "fibremap_collapse_removed_total",
			Help: "Total number of elements removed from datasets by collapse",
		},
		[]string{"element"},
	)

	r.SessionsActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "fibremap_sessions_active",
			Help: "Current number of open view sessions",
		},
	)

	r.SessionsOpenedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "fibremap_sessions_opened_total",
			Help: "Total number of view sessions opened",
		},
	)

	r.SessionsEvictedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "fibremap_sessions_evicted_total",
			Help: "Total number of view sessions closed by the server",
		},
		[]string{"reason"},
	)
}
