// Package view implements the click policy that decides, per click, whether
// the active branch grows or is replaced, and keeps the page URL in step.
package view

import (
	"fibremap/internal/expansion"
)

// Phase is the controller state
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseBranchActive Phase = "branch_active"
)

// Action describes what a click did
type Action string

const (
	ActionNoop    Action = "noop"
	ActionGrow    Action = "grow"
	ActionReplace Action = "replace"
)

// URLSync keeps the shareable URL in step with clicks
type URLSync interface {
	FromDevice() (string, bool)
	PushFromDevice(id string) string
	String() string
}

// Outcome reports the effect of a click or of startup
type Outcome struct {
	Action   Action                   `json:"action"`
	Phase    Phase                    `json:"phase"`
	Root     string                   `json:"root,omitempty"`
	URL      string                   `json:"url"`
	Expand   expansion.ExpandResult   `json:"expand"`
	Collapse expansion.CollapseResult `json:"collapse"`
}

// Controller owns the expansion state of one view
type Controller struct {
	engine *expansion.Engine
	state  *expansion.State
	graph  expansion.Dataset
	url    URLSync
	focus  string
}

// NewController creates an idle controller
func NewController(engine *expansion.Engine, graph expansion.Dataset, url URLSync) *Controller {
	return &Controller{
		engine: engine,
		state:  expansion.NewState(),
		graph:  graph,
		url:    url,
	}
}

// Start applies the from_device parameter the page was loaded with. A
// parameter naming a node in the graph expands it and focuses the camera
// on it; anything else leaves the controller idle.
func (c *Controller) Start() Outcome {
	id, ok := c.url.FromDevice()
	if !ok || !c.graph.HasNode(id) {
		return c.outcome(ActionNoop)
	}

	out := c.outcome(ActionReplace)
	out.Expand = c.engine.Expand(c.state, id)
	c.state.SetRoot(id)
	c.state.AddNode(id)
	c.focus = id

	out.Phase = c.Phase()
	out.Root = id
	return out
}

// Click handles a click on nodeID. An empty id is a click on empty canvas
// and changes nothing, as does an id the dataset does not hold (a node a
// stale client still shows after it was collapsed).
func (c *Controller) Click(nodeID string) Outcome {
	if nodeID == "" || !c.graph.HasNode(nodeID) {
		return c.outcome(ActionNoop)
	}

	c.url.PushFromDevice(nodeID)

	if c.state.HasNode(nodeID) || c.state.IsRoot(nodeID) {
		out := c.outcome(ActionGrow)
		out.Expand = c.engine.Expand(c.state, nodeID)
		return out
	}

	out := c.outcome(ActionReplace)
	out.Collapse = c.engine.Collapse(c.state)
	out.Expand = c.engine.Expand(c.state, nodeID)
	c.state.SetRoot(nodeID)
	c.state.AddNode(nodeID)

	out.Phase = c.Phase()
	out.Root = nodeID
	return out
}

// Phase returns the current controller state
func (c *Controller) Phase() Phase {
	if _, ok := c.state.Root(); ok {
		return PhaseBranchActive
	}
	return PhaseIdle
}

// Focus returns the node the camera should centre on at startup
func (c *Controller) Focus() string {
	return c.focus
}

// State returns a copy of the expansion state
func (c *Controller) State() expansion.Snapshot {
	return c.state.Snapshot()
}

// URL returns the current page URL
func (c *Controller) URL() string {
	return c.url.String()
}

func (c *Controller) outcome(action Action) Outcome {
	root, _ := c.state.Root()
	return Outcome{
		Action: action,
		Phase:  c.Phase(),
		Root:   root,
		URL:    c.url.String(),
	}
}
