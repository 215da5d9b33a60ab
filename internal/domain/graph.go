package domain

import "fmt"

// Graph is the vis-network view of a dataset: the nodes and edges currently
// rendered for one session.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		Nodes: make([]Node, 0),
		Edges: make([]Edge, 0),
	}
}

// AddNode adds a node to the graph
func (g *Graph) AddNode(node Node) {
	g.Nodes = append(g.Nodes, node)
}

// AddEdge adds an edge to the graph
func (g *Graph) AddEdge(edge Edge) {
	g.Edges = append(g.Edges, edge)
}

// Sort orders nodes and edges by ID so output is stable
func (g *Graph) Sort() {
	SortNodes(g.Nodes)
	SortEdges(g.Edges)
}

// closureTooltip builds the hover text for a closure node
func closureTooltip(c Closure) string {
	tooltip := c.Label
	if c.OLTName != "" {
		tooltip += "\nOLT: " + c.OLTName
	}
	if c.EncType != "" {
		tooltip += fmt.Sprintf("\nEnclosure type: %s", c.EncType)
	}
	return tooltip
}

// tapTooltip builds the hover text for an optical tap node
func tapTooltip(t OpticalTap) string {
	tooltip := "Optical tap " + t.Label
	for _, key := range sortedKeys(t.Attributes) {
		if key == "label" {
			continue
		}
		tooltip += fmt.Sprintf("\n%s: %s", key, t.Attributes[key])
	}
	return tooltip
}
