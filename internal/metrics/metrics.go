package metrics

import (
	"time"

	"fibremap/internal/domain"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordClick records the effect of one view click
func (r *Registry) RecordClick(action string, nodesAdded, edgesAdded, visited, nodesRemoved, edgesRemoved int) {
	r.ClicksTotal.WithLabelValues(action).Inc()
	r.ExpansionNodesAdded.Add(float64(nodesAdded))
	r.ExpansionEdgesAdded.Add(float64(edgesAdded))
	if visited > 0 {
		r.ExpansionVisited.Observe(float64(visited))
	}
	r.CollapseElementsTotal.WithLabelValues("node").Add(float64(nodesRemoved))
	r.CollapseElementsTotal.WithLabelValues("edge").Add(float64(edgesRemoved))
}

// SessionOpened records a new view session
func (r *Registry) SessionOpened(active int) {
	r.SessionsOpenedTotal.Inc()
	r.SessionsActive.Set(float64(active))
}

// SessionClosed records a session leaving the table. Reason is empty for
// sessions closed by the client.
func (r *Registry) SessionClosed(reason string, active int) {
	if reason != "" {
		r.SessionsEvictedTotal.WithLabelValues(reason).Inc()
	}
	r.SessionsActive.Set(float64(active))
}

// RecordTopologyLoad records a document load and, on success, its record counts
func (r *Registry) RecordTopologyLoad(stats *domain.TopologyStats, duration time.Duration) {
	r.TopologyLoadDuration.Observe(duration.Seconds())
	if stats == nil {
		r.TopologyLoadsTotal.WithLabelValues("error").Inc()
		return
	}

	r.TopologyLoadsTotal.WithLabelValues("ok").Inc()
	r.TopologyRecords.WithLabelValues("splice_closures").Set(float64(stats.SpliceClosures))
	r.TopologyRecords.WithLabelValues("feeder_cables").Set(float64(stats.FeederCables))
	r.TopologyRecords.WithLabelValues("optical_tap").Set(float64(stats.OpticalTaps))
	r.TopologyRecords.WithLabelValues("fibre_cables").Set(float64(stats.FibreCables))
}
