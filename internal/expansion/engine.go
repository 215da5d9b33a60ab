// Package expansion lazily materialises the descendants of a clicked node by
// walking the fibre-cable list, and tears the resulting branch down again.
//
// Expand is idempotent: it only inserts ids the dataset does not already
// hold, and a call-local visited set stops traversal on cyclic fibre
// references. Collapse removes exactly the ids recorded in State, sparing any
// element that belongs to the base graph.
package expansion

import (
	"fibremap/internal/domain"
)

// Dataset is the graph dataset expansion mutates. Removing an absent id must
// succeed.
type Dataset interface {
	HasNode(id string) bool
	AddNode(node domain.Node) bool
	RemoveNode(id string) bool
	HasEdge(id string) bool
	AddEdge(edge domain.Edge) bool
	RemoveEdge(id string) bool
}

// BaseSet identifies base graph elements, which collapse never removes
type BaseSet interface {
	HasNode(id string) bool
	HasEdge(id string) bool
}

// ExpandResult summarises one Expand call
type ExpandResult struct {
	NodesAdded int `json:"nodes_added"`
	EdgesAdded int `json:"edges_added"`
	Visited    int `json:"visited"`
}

// CollapseResult summarises one Collapse call
type CollapseResult struct {
	NodesRemoved int `json:"nodes_removed"`
	EdgesRemoved int `json:"edges_removed"`
}

// Engine expands and collapses branches of one dataset
type Engine struct {
	index *domain.Index
	ds    Dataset
	base  BaseSet
}

// NewEngine creates an engine over a topology index and dataset
func NewEngine(index *domain.Index, ds Dataset, base BaseSet) *Engine {
	return &Engine{
		index: index,
		ds:    ds,
		base:  base,
	}
}

// Expand reveals everything reachable from nodeID over fibre cables,
// recording the produced ids in state
func (e *Engine) Expand(state *State, nodeID string) ExpandResult {
	var result ExpandResult
	visited := make(map[string]struct{})
	e.expand(state, nodeID, visited, &result)
	result.Visited = len(visited)
	return result
}

func (e *Engine) expand(state *State, nodeID string, visited map[string]struct{}, result *ExpandResult) {
	if _, seen := visited[nodeID]; seen {
		return
	}
	visited[nodeID] = struct{}{}

	fibres := e.index.FibresFrom(nodeID)
	if len(fibres) == 0 {
		return
	}

	for _, f := range fibres {
		if !e.ds.HasNode(f.To) {
			if e.ds.AddNode(e.index.ExpansionNode(f.To)) {
				result.NodesAdded++
			}
		}
		state.AddNode(f.To)

		if !e.ds.HasEdge(f.Label) {
			if e.ds.AddEdge(*domain.NewFibreEdge(f.Label, f.From, f.To, f.Label)) {
				result.EdgesAdded++
			}
		}
		state.AddEdge(f.Label)

		e.expand(state, f.To, visited, result)
	}
}

// Collapse removes the active branch from the dataset and clears state.
// Base graph nodes and edges survive even if they were recorded.
func (e *Engine) Collapse(state *State) CollapseResult {
	var result CollapseResult

	for _, id := range state.EdgeIDs() {
		if e.isBaseEdge(id) {
			continue
		}
		if e.ds.RemoveEdge(id) {
			result.EdgesRemoved++
		}
	}

	for _, id := range state.NodeIDs() {
		if e.isBaseNode(id) {
			continue
		}
		if e.ds.RemoveNode(id) {
			result.NodesRemoved++
		}
	}

	state.Clear()
	return result
}

func (e *Engine) isBaseNode(id string) bool {
	return e.base != nil && e.base.HasNode(id)
}

func (e *Engine) isBaseEdge(id string) bool {
	return e.base != nil && e.base.HasEdge(id)
}
