package domain

import "sort"

// NodeKind represents the kind of a topology node. It doubles as the
// vis-network group used for styling.
type NodeKind string

const (
	NodeKindOLT           NodeKind = "OLT"
	NodeKindSP            NodeKind = "SP"
	NodeKindOpticalTap    NodeKind = "OpticalTap"
	NodeKindFibreEndpoint NodeKind = "FibreEndpoint"
)

// Node represents a node in the rendered graph
type Node struct {
	ID         string            `json:"id" yaml:"id"`
	Kind       NodeKind          `json:"group" yaml:"kind"`
	Label      string            `json:"label" yaml:"label"`
	Title      string            `json:"title,omitempty" yaml:"title,omitempty"` // Tooltip content
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// NewNode creates a new node with initialized attributes
func NewNode(id string, kind NodeKind, label string) *Node {
	return &Node{
		ID:         id,
		Kind:       kind,
		Label:      label,
		Attributes: make(map[string]string),
	}
}

// Attribute returns an attribute value, or "" if unset
func (n *Node) Attribute(key string) string {
	if n.Attributes == nil {
		return ""
	}
	return n.Attributes[key]
}

// SetAttribute sets an attribute value
func (n *Node) SetAttribute(key, value string) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[key] = value
}

// SortNodes orders nodes by ID
func SortNodes(nodes []Node) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].ID < nodes[j].ID
	})
}
