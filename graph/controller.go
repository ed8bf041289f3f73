package graph

import (
	"context"
	"errors"

	"github.com/coragent/coor-agent/coorerr"
	"github.com/coragent/coor-agent/event"
	"github.com/coragent/coor-agent/session"
)

// Controller owns the event stream and runs a named-node loop: resolve
// the current node, wrap its invocation in start_of_agent/end_of_agent,
// apply its patch, and move to whatever node it named next. Every
// transition is an explicit Command value the Controller applies, not a
// callback that re-enters the graph on its own.
type Controller struct {
	Nodes         map[string]Node
	Deps          *Dependencies
	MaxIterations int
}

// NewFullGraph wires the five-node graph used for an ordinary
// agent_workflow run: coordinator -> planner -> publisher, cycling with
// agent_proxy and agent_factory until publisher returns FINISH.
func NewFullGraph(deps *Dependencies, maxIterations int) *Controller {
	return &Controller{
		Deps:          deps,
		MaxIterations: maxIterations,
		Nodes: map[string]Node{
			NodeCoordinator: Coordinator,
			NodePlanner:     Planner,
			NodePublisher:   Publisher,
			NodeFactory:     Factory,
			NodeProxy:       Proxy,
		},
	}
}

// NewFactoryGraph wires the reduced graph used for an agent_factory run:
// the same control nodes minus agent_proxy, since the run only ever
// specs and registers a new agent, never dispatches an existing one.
func NewFactoryGraph(deps *Dependencies, maxIterations int) *Controller {
	return &Controller{
		Deps:          deps,
		MaxIterations: maxIterations,
		Nodes: map[string]Node{
			NodeCoordinator: Coordinator,
			NodePlanner:     Planner,
			NodePublisher:   Publisher,
			NodeFactory:     Factory,
		},
	}
}

// Run drives the graph from the coordinator until a node returns
// NodeEnd, the iteration bound is exceeded, or a node fails. Exactly one
// of end_of_workflow or error is emitted as the run's terminal event.
func (c *Controller) Run(ctx context.Context, initial session.State) (session.State, error) {
	state := initial

	if err := c.Deps.Stream.Emit(ctx, event.StartOfWorkflow(state.WorkflowID, transcriptOf(state))); err != nil {
		return state, err
	}

	node := NodeCoordinator
	iterations := 0

	for node != NodeEnd {
		iterations++
		if iterations > c.MaxIterations {
			err := coorerr.New(coorerr.Internal, "Controller", "Run", "iteration limit reached", nil)
			c.fail(ctx, state, err)
			return state, err
		}

		fn, ok := c.Nodes[node]
		if !ok {
			err := coorerr.New(coorerr.Internal, "Controller", "Run", "unknown node: "+node, nil)
			c.fail(ctx, state, err)
			return state, err
		}

		agentName := node
		if node == NodeProxy {
			agentName = state.Next
		}

		if err := c.Deps.Stream.Emit(ctx, event.StartOfAgent(agentName, agentName)); err != nil {
			wrapped := wrapCancellation(err)
			c.fail(ctx, state, wrapped)
			return state, wrapped
		}

		cmd, runErr := fn(ctx, c.Deps, state)

		if err := c.Deps.Stream.Emit(ctx, event.EndOfAgent(agentName, agentName)); err != nil && runErr == nil {
			runErr = err
		}

		if runErr != nil {
			wrapped := wrapCancellation(runErr)
			c.fail(ctx, state, wrapped)
			return state, wrapped
		}

		state = cmd.Apply(state)
		node = cmd.Next
	}

	return state, c.Deps.Stream.Emit(context.Background(), event.EndOfWorkflow(state.WorkflowID, transcriptOf(state)))
}

// fail emits the run's terminal error event. It deliberately uses a fresh,
// never-canceled context rather than the run's own ctx: ctx is typically
// already Done by the time fail is called (that's how Cancelled errors
// happen in the first place), and Emit's select over "send" vs "ctx done"
// would otherwise race to drop the one terminal event I1 guarantees.
//
// A cancelled run's error event carries the bare string "Cancelled": the
// error payload has no separate kind field, so the string is the wire
// contract consumers (the evaluation adapter included) branch on.
func (c *Controller) fail(_ context.Context, state session.State, err error) {
	msg := err.Error()
	if coorerr.KindOf(err) == coorerr.Cancelled {
		msg = string(coorerr.Cancelled)
	}
	_ = c.Deps.Stream.Emit(context.Background(), event.Error(state.WorkflowID, msg))
}

// wrapCancellation normalizes a context cancellation surfacing from deep
// inside a node (an LM call, a tool call, a blocked event emit) into the
// Cancelled error kind, so callers branch on coorerr.KindOf instead of
// comparing against context sentinels.
func wrapCancellation(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return coorerr.New(coorerr.Cancelled, "Controller", "Run", "run was cancelled", err)
	}
	return err
}

func transcriptOf(state session.State) []event.TranscriptMessage {
	out := make([]event.TranscriptMessage, len(state.Messages))
	for i, m := range state.Messages {
		out[i] = event.TranscriptMessage{Role: string(m.Role), Name: m.Name, Content: m.Content}
	}
	return out
}
