// Package graph derives the base graph: one node per splice closure and one
// feeder edge per feeder cable. Fibre cables never appear here; they are only
// revealed by expansion.
package graph

import (
	"fibremap/internal/domain"
)

// Base is the initial graph plus the id sets that identify its elements
type Base struct {
	Graph   *domain.Graph
	NodeIDs map[string]struct{}
	EdgeIDs map[string]struct{}
}

// HasNode reports whether id names a base graph node
func (b *Base) HasNode(id string) bool {
	_, ok := b.NodeIDs[id]
	return ok
}

// HasEdge reports whether id names a base graph edge
func (b *Base) HasEdge(id string) bool {
	_, ok := b.EdgeIDs[id]
	return ok
}

// BuildBase converts closures and feeder cables into the base graph.
// Records sharing an id keep the first occurrence.
func BuildBase(closures []domain.Closure, feeders []domain.FeederCable) *Base {
	base := &Base{
		Graph: &domain.Graph{
			Nodes: make([]domain.Node, 0, len(closures)),
			Edges: make([]domain.Edge, 0, len(feeders)),
		},
		NodeIDs: make(map[string]struct{}, len(closures)),
		EdgeIDs: make(map[string]struct{}, len(feeders)),
	}

	for _, c := range closures {
		if base.HasNode(c.Label) {
			continue
		}
		base.Graph.AddNode(domain.ClosureNode(c))
		base.NodeIDs[c.Label] = struct{}{}
	}

	for _, f := range feeders {
		if base.HasEdge(f.Label) {
			continue
		}
		base.Graph.AddEdge(*domain.NewFeederEdge(f.Label, f.From, f.To, f.Label))
		base.EdgeIDs[f.Label] = struct{}{}
	}

	return base
}

// BuildFromTopology builds the base graph of a whole topology
func BuildFromTopology(t *domain.Topology) *Base {
	return BuildBase(t.SpliceClosures, t.FeederCables)
}

// Store is the subset of the graph dataset the base graph is written to
type Store interface {
	AddNode(node domain.Node) bool
	AddEdge(edge domain.Edge) bool
}

// Populate writes the base graph into a dataset
func (b *Base) Populate(store Store) {
	for _, node := range b.Graph.Nodes {
		store.AddNode(node)
	}
	for _, edge := range b.Graph.Edges {
		store.AddEdge(edge)
	}
}
