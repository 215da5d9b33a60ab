package domain

import "sort"

// EncTypeOLT is the enclosure type marking a closure that houses an OLT
const EncTypeOLT = "5"

// Closure is a splice closure record. It becomes a base graph node.
type Closure struct {
	Label      string            `json:"label"`
	EncType    string            `json:"enc_type"`
	OLTName    string            `json:"olt_name"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Kind infers the node kind from the enclosure type
func (c Closure) Kind() NodeKind {
	if c.EncType == EncTypeOLT {
		return NodeKindOLT
	}
	return NodeKindSP
}

// FeederCable is a permanent cable between two closures
type FeederCable struct {
	From       string            `json:"from"`
	To         string            `json:"to"`
	Label      string            `json:"label"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// OpticalTap is a tap record. Fibre endpoints whose id matches a tap label
// render as taps.
type OpticalTap struct {
	Label      string            `json:"label"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// FibreCable is a directed cable only revealed by expansion
type FibreCable struct {
	From       string            `json:"from"`
	To         string            `json:"to"`
	Label      string            `json:"label"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Topology is the parsed input document. It is immutable once loaded.
type Topology struct {
	SpliceClosures []Closure     `json:"splice_closures"`
	FeederCables   []FeederCable `json:"feeder_cables"`
	OpticalTaps    []OpticalTap  `json:"optical_tap"`
	FibreCables    []FibreCable  `json:"fibre_cables"`
}

// NewTopology creates an empty topology
func NewTopology() *Topology {
	return &Topology{
		SpliceClosures: make([]Closure, 0),
		FeederCables:   make([]FeederCable, 0),
		OpticalTaps:    make([]OpticalTap, 0),
		FibreCables:    make([]FibreCable, 0),
	}
}

// TopologyStats holds record counts
type TopologyStats struct {
	SpliceClosures int `json:"splice_closures"`
	FeederCables   int `json:"feeder_cables"`
	OpticalTaps    int `json:"optical_taps"`
	FibreCables    int `json:"fibre_cables"`
}

// Stats returns record counts for the topology
func (t *Topology) Stats() TopologyStats {
	return TopologyStats{
		SpliceClosures: len(t.SpliceClosures),
		FeederCables:   len(t.FeederCables),
		OpticalTaps:    len(t.OpticalTaps),
		FibreCables:    len(t.FibreCables),
	}
}

// Index answers the lookups expansion needs without rescanning the record
// lists. It is read-only after construction and safe to share.
type Index struct {
	topology *Topology
	fibres   map[string][]FibreCable
	taps     map[string]OpticalTap
}

// NewIndex builds an index over a topology
func NewIndex(t *Topology) *Index {
	if t == nil {
		t = NewTopology()
	}
	idx := &Index{
		topology: t,
		fibres:   make(map[string][]FibreCable),
		taps:     make(map[string]OpticalTap, len(t.OpticalTaps)),
	}

	// Document order is preserved per source node
	for _, f := range t.FibreCables {
		idx.fibres[f.From] = append(idx.fibres[f.From], f)
	}

	// First tap with a given label wins
	for _, tap := range t.OpticalTaps {
		if _, exists := idx.taps[tap.Label]; !exists {
			idx.taps[tap.Label] = tap
		}
	}

	return idx
}

// Topology returns the indexed topology
func (i *Index) Topology() *Topology {
	return i.topology
}

// FibresFrom returns the fibre cables leaving a node, in document order
func (i *Index) FibresFrom(nodeID string) []FibreCable {
	return i.fibres[nodeID]
}

// Tap returns the optical tap with the given label
func (i *Index) Tap(label string) (OpticalTap, bool) {
	tap, ok := i.taps[label]
	return tap, ok
}

// ExpansionNode builds the node expansion creates for a fibre target id
func (i *Index) ExpansionNode(id string) Node {
	if tap, ok := i.Tap(id); ok {
		node := NewNode(id, NodeKindOpticalTap, tap.Label)
		node.Title = tapTooltip(tap)
		for k, v := range tap.Attributes {
			node.SetAttribute(k, v)
		}
		return *node
	}

	node := NewNode(id, NodeKindFibreEndpoint, id)
	node.Title = "Fibre endpoint " + id
	return *node
}

// ClosureNode builds the base graph node for a closure
func ClosureNode(c Closure) Node {
	node := NewNode(c.Label, c.Kind(), c.Label)
	node.Title = closureTooltip(c)
	for k, v := range c.Attributes {
		node.SetAttribute(k, v)
	}
	return *node
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
