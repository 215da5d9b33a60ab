package domain

// GraphDelta describes the mutations one interaction applied to a dataset,
// in the order the renderer should apply them.
type GraphDelta struct {
	AddedNodes     []Node   `json:"added_nodes"`
	AddedEdges     []Edge   `json:"added_edges"`
	RemovedNodeIDs []string `json:"removed_node_ids"`
	RemovedEdgeIDs []string `json:"removed_edge_ids"`
}

// NewGraphDelta creates an empty delta
func NewGraphDelta() *GraphDelta {
	return &GraphDelta{
		AddedNodes:     make([]Node, 0),
		AddedEdges:     make([]Edge, 0),
		RemovedNodeIDs: make([]string, 0),
		RemovedEdgeIDs: make([]string, 0),
	}
}

// IsEmpty returns true if nothing changed
func (d *GraphDelta) IsEmpty() bool {
	return len(d.AddedNodes) == 0 && len(d.AddedEdges) == 0 &&
		len(d.RemovedNodeIDs) == 0 && len(d.RemovedEdgeIDs) == 0
}
