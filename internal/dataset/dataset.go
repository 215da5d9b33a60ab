// Package dataset implements the keyed node and edge collections the browser
// renderer draws from.
//
// A Dataset belongs to a single view session and is mutated only from that
// session's event loop. Listeners observe every mutation so renderers can
// update reactively.
package dataset

import (
	"fibremap/internal/domain"
)

// Op identifies the kind of mutation a Change describes
type Op string

const (
	OpAddNode    Op = "add_node"
	OpRemoveNode Op = "remove_node"
	OpAddEdge    Op = "add_edge"
	OpRemoveEdge Op = "remove_edge"
)

// Change describes one applied mutation
type Change struct {
	Op   Op           `json:"op"`
	Node *domain.Node `json:"node,omitempty"`
	Edge *domain.Edge `json:"edge,omitempty"`
	ID   string       `json:"id"`
}

// Listener receives changes after they are applied
type Listener func(Change)

// Dataset holds the nodes and edges currently rendered
type Dataset struct {
	nodes     map[string]domain.Node
	edges     map[string]domain.Edge
	listeners []Listener
}

// New creates an empty dataset
func New() *Dataset {
	return &Dataset{
		nodes: make(map[string]domain.Node),
		edges: make(map[string]domain.Edge),
	}
}

// Subscribe registers a listener for subsequent changes
func (d *Dataset) Subscribe(l Listener) {
	d.listeners = append(d.listeners, l)
}

func (d *Dataset) emit(c Change) {
	for _, l := range d.listeners {
		l(c)
	}
}

// GetNode returns the node with the given id
func (d *Dataset) GetNode(id string) (domain.Node, bool) {
	node, ok := d.nodes[id]
	return node, ok
}

// HasNode reports whether a node is present
func (d *Dataset) HasNode(id string) bool {
	_, ok := d.nodes[id]
	return ok
}

// AddNode inserts a node. It is a no-op returning false when the id exists.
func (d *Dataset) AddNode(node domain.Node) bool {
	if _, exists := d.nodes[node.ID]; exists {
		return false
	}
	d.nodes[node.ID] = node
	d.emit(Change{Op: OpAddNode, Node: &node, ID: node.ID})
	return true
}

// RemoveNode deletes a node. It succeeds whether or not the id was present;
// the result reports whether anything was removed.
func (d *Dataset) RemoveNode(id string) bool {
	if _, exists := d.nodes[id]; !exists {
		return false
	}
	delete(d.nodes, id)
	d.emit(Change{Op: OpRemoveNode, ID: id})
	return true
}

// GetEdge returns the edge with the given id
func (d *Dataset) GetEdge(id string) (domain.Edge, bool) {
	edge, ok := d.edges[id]
	return edge, ok
}

// HasEdge reports whether an edge is present
func (d *Dataset) HasEdge(id string) bool {
	_, ok := d.edges[id]
	return ok
}

// AddEdge inserts an edge. It is a no-op returning false when the id exists.
func (d *Dataset) AddEdge(edge domain.Edge) bool {
	if _, exists := d.edges[edge.ID]; exists {
		return false
	}
	d.edges[edge.ID] = edge
	d.emit(Change{Op: OpAddEdge, Edge: &edge, ID: edge.ID})
	return true
}

// RemoveEdge deletes an edge. It succeeds whether or not the id was present.
func (d *Dataset) RemoveEdge(id string) bool {
	if _, exists := d.edges[id]; !exists {
		return false
	}
	delete(d.edges, id)
	d.emit(Change{Op: OpRemoveEdge, ID: id})
	return true
}

// NodeCount returns the number of nodes
func (d *Dataset) NodeCount() int {
	return len(d.nodes)
}

// EdgeCount returns the number of edges
func (d *Dataset) EdgeCount() int {
	return len(d.edges)
}

// Graph returns a sorted snapshot of the dataset
func (d *Dataset) Graph() *domain.Graph {
	graph := &domain.Graph{
		Nodes: make([]domain.Node, 0, len(d.nodes)),
		Edges: make([]domain.Edge, 0, len(d.edges)),
	}
	for _, node := range d.nodes {
		graph.AddNode(node)
	}
	for _, edge := range d.edges {
		graph.AddEdge(edge)
	}
	graph.Sort()
	return graph
}
