package expansion

import "sort"

// State tracks the expansion-produced elements of the single active branch.
// It is owned by one view controller and never persisted.
type State struct {
	nodes   map[string]struct{}
	edges   map[string]struct{}
	root    string
	hasRoot bool
}

// NewState creates an empty state
func NewState() *State {
	return &State{
		nodes: make(map[string]struct{}),
		edges: make(map[string]struct{}),
	}
}

// AddNode records a visible node id. Adding an id twice is a no-op.
func (s *State) AddNode(id string) {
	s.nodes[id] = struct{}{}
}

// AddEdge records a visible edge id
func (s *State) AddEdge(id string) {
	s.edges[id] = struct{}{}
}

// HasNode reports whether a node id belongs to the active branch
func (s *State) HasNode(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// HasEdge reports whether an edge id belongs to the active branch
func (s *State) HasEdge(id string) bool {
	_, ok := s.edges[id]
	return ok
}

// Root returns the node the active branch was rooted at
func (s *State) Root() (string, bool) {
	return s.root, s.hasRoot
}

// IsRoot reports whether id is the root of the active branch
func (s *State) IsRoot(id string) bool {
	return s.hasRoot && s.root == id
}

// SetRoot roots the active branch at id
func (s *State) SetRoot(id string) {
	s.root = id
	s.hasRoot = true
}

// Empty reports whether no branch is tracked
func (s *State) Empty() bool {
	return !s.hasRoot && len(s.nodes) == 0 && len(s.edges) == 0
}

// Clear forgets the active branch
func (s *State) Clear() {
	s.nodes = make(map[string]struct{})
	s.edges = make(map[string]struct{})
	s.root = ""
	s.hasRoot = false
}

// NodeIDs returns the visible node ids in sorted order
func (s *State) NodeIDs() []string {
	return sortedSet(s.nodes)
}

// EdgeIDs returns the visible edge ids in sorted order
func (s *State) EdgeIDs() []string {
	return sortedSet(s.edges)
}

// Snapshot is a serialisable copy of the state
type Snapshot struct {
	Root           string   `json:"root,omitempty"`
	VisibleNodeIDs []string `json:"visible_node_ids"`
	VisibleEdgeIDs []string `json:"visible_edge_ids"`
}

// Snapshot copies the state
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Root:           s.root,
		VisibleNodeIDs: s.NodeIDs(),
		VisibleEdgeIDs: s.EdgeIDs(),
	}
}

func sortedSet(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
