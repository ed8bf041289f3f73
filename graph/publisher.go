package graph

import (
	"context"
	"encoding/json"

	"github.com/coragent/coor-agent/coorerr"
	"github.com/coragent/coor-agent/llm"
	"github.com/coragent/coor-agent/session"
)

// Router is the publisher's structured routing decision.
type Router struct {
	Next string `json:"next"`
}

var routerSchema = []byte(`{
	"type": "object",
	"properties": {"next": {"type": "string"}},
	"required": ["next"],
	"additionalProperties": false
}`)

// Publisher chooses the next actor on every cycle through the graph.
// FINISH ends the run; agent_factory routes to agent creation; any other
// value must already be on the run's team roster, or the run ends with
// a protocol violation.
func Publisher(ctx context.Context, deps *Dependencies, state session.State) (Command, error) {
	gw, err := deps.LLMs.Resolve("basic")
	if err != nil {
		return Command{}, err
	}

	msgs, err := deps.Binder.Bind(deps.Prompts.Publisher, state, deps.now())
	if err != nil {
		return Command{}, err
	}

	resp, err := generateOnce(ctx, gw, llm.Request{Messages: msgs, StructuredSchema: routerSchema})
	if err != nil {
		return Command{}, coorerr.New(coorerr.LMError, "Publisher", "Generate", "publisher LM call failed", err)
	}

	var route Router
	if jsonErr := json.Unmarshal([]byte(resp.Content), &route); jsonErr != nil || route.Next == "" {
		return Command{}, coorerr.New(coorerr.ProtocolError, "Publisher", "Generate", "publisher did not return a valid routing decision", jsonErr)
	}

	switch {
	case route.Next == "FINISH":
		return Command{
			Next:  NodeEnd,
			Apply: func(s session.State) session.State { s.Next = route.Next; return s },
		}, nil
	case route.Next == NodeFactory:
		return Command{
			Next:  NodeFactory,
			Apply: func(s session.State) session.State { s.Next = route.Next; return s },
		}, nil
	case state.HasTeamMember(route.Next):
		return Command{
			Next:  NodeProxy,
			Apply: func(s session.State) session.State { s.Next = route.Next; return s },
		}, nil
	default:
		return Command{}, coorerr.New(coorerr.ProtocolError, "Publisher", "Generate",
			"publisher selected an agent outside the team roster: "+route.Next, nil)
	}
}
