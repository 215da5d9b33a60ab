package dataset

import "fibremap/internal/domain"

// Recorder accumulates changes into a GraphDelta. Attach it with Subscribe,
// then Take the delta after an interaction completes.
type Recorder struct {
	delta *domain.GraphDelta
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{delta: domain.NewGraphDelta()}
}

// Record is a Listener
func (r *Recorder) Record(c Change) {
	switch c.Op {
	case OpAddNode:
		r.delta.AddedNodes = append(r.delta.AddedNodes, *c.Node)
	case OpRemoveNode:
		r.delta.RemovedNodeIDs = append(r.delta.RemovedNodeIDs, c.ID)
	case OpAddEdge:
		r.delta.AddedEdges = append(r.delta.AddedEdges, *c.Edge)
	case OpRemoveEdge:
		r.delta.RemovedEdgeIDs = append(r.delta.RemovedEdgeIDs, c.ID)
	}
}

// Take returns the recorded delta and resets the recorder. Removals in a
// delta always precede its additions.
func (r *Recorder) Take() *domain.GraphDelta {
	delta := r.delta
	r.delta = domain.NewGraphDelta()
	return delta
}
