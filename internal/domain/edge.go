package domain

import "sort"

// EdgeKind represents the kind of cable an edge stands for
type EdgeKind string

const (
	EdgeKindFeeder EdgeKind = "feeder"
	EdgeKindFibre  EdgeKind = "fibre"
)

// Edge represents a cable between two nodes
type Edge struct {
	ID     string   `json:"id" yaml:"id"`
	From   string   `json:"from" yaml:"from"`
	To     string   `json:"to" yaml:"to"`
	Label  string   `json:"label" yaml:"label"`
	Kind   EdgeKind `json:"kind" yaml:"kind"`
	Dashes bool     `json:"dashes,omitempty" yaml:"dashes,omitempty"`
}

// NewFeederEdge creates a permanent base-graph edge
func NewFeederEdge(id, from, to, label string) *Edge {
	return &Edge{
		ID:    id,
		From:  from,
		To:    to,
		Label: label,
		Kind:  EdgeKindFeeder,
	}
}

// NewFibreEdge creates an expansion edge. Fibre edges render dashed so they
// stand apart from feeders.
func NewFibreEdge(id, from, to, label string) *Edge {
	return &Edge{
		ID:     id,
		From:   from,
		To:     to,
		Label:  label,
		Kind:   EdgeKindFibre,
		Dashes: true,
	}
}

// SortEdges orders edges by ID
func SortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		return edges[i].ID < edges[j].ID
	})
}
