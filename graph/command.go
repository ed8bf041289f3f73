// Package graph implements the orchestration state machine: coordinator,
// planner and publisher control nodes cycling with the agent_factory and
// agent_proxy nodes until a node returns the terminal node name.
package graph

import (
	"context"

	"github.com/coragent/coor-agent/session"
)

// Node names used as both the graph's routing keys and, for the control
// nodes, the agent_name attached to their start_of_agent/end_of_agent
// events.
const (
	NodeCoordinator = "coordinator"
	NodePlanner     = "planner"
	NodePublisher   = "publisher"
	NodeFactory     = "agent_factory"
	NodeProxy       = "agent_proxy"
	NodeEnd         = "__end__"
)

// Command is what a node returns: the state patch to apply and the name
// of the node to run next (NodeEnd to terminate the run).
type Command struct {
	Next  string
	Apply func(session.State) session.State
}

// Node is one step of the graph: read the current state, do its work,
// and describe the resulting patch and transition. A Node never mutates
// state directly; Apply is applied by the Controller so every
// transition is an explicit, inspectable value.
type Node func(ctx context.Context, deps *Dependencies, state session.State) (Command, error)

func identity() func(session.State) session.State {
	return func(s session.State) session.State { return s }
}
