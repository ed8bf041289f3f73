package graph

import (
	"context"
	"strings"

	"github.com/coragent/coor-agent/coorerr"
	"github.com/coragent/coor-agent/event"
	"github.com/coragent/coor-agent/llm"
	"github.com/coragent/coor-agent/session"
)

// handoffSentinel is the exact reply the coordinator's template asks the
// model to use when a request needs the rest of the team.
const handoffSentinel = "handoff_to_planner"

// Coordinator is the graph's entry point. It talks to the user directly
// and either ends the run there or hands off to the planner. A reply
// that begins with the handoff sentinel is routing metadata, not an
// answer, so its message events are suppressed.
func Coordinator(ctx context.Context, deps *Dependencies, state session.State) (Command, error) {
	gw, err := deps.LLMs.Resolve("basic")
	if err != nil {
		return Command{}, err
	}

	msgs, err := deps.Binder.Bind(deps.Prompts.Coordinator, state, deps.now())
	if err != nil {
		return Command{}, err
	}

	resp, err := generateOnce(ctx, gw, llm.Request{Messages: msgs})
	if err != nil {
		return Command{}, coorerr.New(coorerr.LMError, "Coordinator", "Generate", "coordinator LM call failed", err)
	}

	if !event.SuppressesMessages(resp.Content) {
		if err := deps.Stream.EmitChunked(ctx, NodeCoordinator, resp.Content); err != nil {
			return Command{}, err
		}
	}

	next := NodeEnd
	if strings.HasPrefix(strings.TrimSpace(resp.Content), handoffSentinel) {
		next = NodePlanner
	}

	return Command{Next: next, Apply: identity()}, nil
}
