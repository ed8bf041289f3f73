package graph

import (
	"context"
	"encoding/json"

	"github.com/coragent/coor-agent/agentstore"
	"github.com/coragent/coor-agent/coorerr"
	"github.com/coragent/coor-agent/event"
	"github.com/coragent/coor-agent/llm"
	"github.com/coragent/coor-agent/session"
)

// ToolSelection is one entry of AgentSpec.SelectedTools.
type ToolSelection struct {
	Name string `json:"name"`
}

// AgentSpec is the factory's structured decision: the new team member's
// identity, model binding, tool selection and prompt template.
type AgentSpec struct {
	AgentName        string          `json:"agent_name"`
	AgentDescription string          `json:"agent_description"`
	LLMType          string          `json:"llm_type"`
	SelectedTools    []ToolSelection `json:"selected_tools"`
	Prompt           string          `json:"prompt"`
}

var agentSpecSchema = []byte(`{
	"type": "object",
	"properties": {
		"agent_name": {"type": "string"},
		"agent_description": {"type": "string"},
		"llm_type": {"type": "string", "enum": ["basic", "reasoning", "vision", "code"]},
		"selected_tools": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {"name": {"type": "string"}},
				"required": ["name"]
			}
		},
		"prompt": {"type": "string"}
	},
	"required": ["agent_name", "llm_type", "prompt"],
	"additionalProperties": false
}`)

// Factory specs out and registers a brand-new team member, then always
// returns control to the publisher: once to route to the agent it just
// created, or to let the publisher pick again when the name it chose
// was already taken.
func Factory(ctx context.Context, deps *Dependencies, state session.State) (Command, error) {
	gw, err := deps.LLMs.Resolve("basic")
	if err != nil {
		return Command{}, err
	}

	msgs, err := deps.Binder.Bind(deps.Prompts.Factory, state, deps.now())
	if err != nil {
		return Command{}, err
	}

	resp, err := generateOnce(ctx, gw, llm.Request{Messages: msgs, StructuredSchema: agentSpecSchema})
	if err != nil {
		return Command{}, coorerr.New(coorerr.LMError, "Factory", "Generate", "factory LM call failed", err)
	}

	var spec AgentSpec
	if jsonErr := json.Unmarshal([]byte(resp.Content), &spec); jsonErr != nil || spec.AgentName == "" {
		return Command{}, coorerr.New(coorerr.ProtocolError, "Factory", "Generate", "factory did not return a valid agent spec", jsonErr)
	}

	tools := make([]agentstore.ToolRef, 0, len(spec.SelectedTools))
	for _, t := range spec.SelectedTools {
		tools = append(tools, agentstore.ToolRef{Name: t.Name})
	}

	def := agentstore.Definition{
		OwnerID:     state.UserID,
		AgentName:   spec.AgentName,
		NickName:    spec.AgentName,
		Description: spec.AgentDescription,
		LLMType:     spec.LLMType,
		Tools:       tools,
		Prompt:      spec.Prompt,
	}

	created, err := deps.Agents.Create(ctx, def)
	if err != nil {
		if coorerr.KindOf(err) != coorerr.AlreadyExists {
			return Command{}, err
		}
		note := "Agent " + spec.AgentName + " already exists; choose an existing team member or a different name."
		return Command{
			Next: NodePublisher,
			Apply: func(s session.State) session.State {
				return s.AppendMessage(session.Message{Role: llm.RoleUser, Name: NodeFactory, Content: note})
			},
		}, nil
	}

	if err := deps.Stream.Emit(ctx, event.NewAgentCreated(created.AgentName, created)); err != nil {
		return Command{}, err
	}

	note := "New agent " + created.AgentName + " created."
	return Command{
		Next: NodePublisher,
		Apply: func(s session.State) session.State {
			s.TeamMembers = append(append([]string(nil), s.TeamMembers...), created.AgentName)
			return s.AppendMessage(session.Message{Role: llm.RoleUser, Name: NodeFactory, Content: note})
		},
	}, nil
}
