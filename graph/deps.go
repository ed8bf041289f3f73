package graph

import (
	"context"
	"time"

	"github.com/coragent/coor-agent/agentstore"
	"github.com/coragent/coor-agent/event"
	"github.com/coragent/coor-agent/llm"
	"github.com/coragent/coor-agent/session"
	"github.com/coragent/coor-agent/tool"
)

// LLMResolver is the slice of the LM Gateway registry nodes need: resolve
// a channel by llm_type, falling back to "basic" per the registry's own
// policy.
type LLMResolver interface {
	Resolve(llmType string) (llm.Gateway, error)
}

// AgentResolver is the slice of the Agent Registry nodes need: resolve a
// team member's definition by name, and register a freshly-specced one.
type AgentResolver interface {
	Resolve(agentName string) (agentstore.Definition, error)
	Create(ctx context.Context, def agentstore.Definition) (agentstore.Definition, error)
}

// ToolInvoker is the slice of the Tool Registry the proxy loop needs:
// look a tool up and validate its arguments before calling it.
type ToolInvoker interface {
	Get(name string) (tool.Tool, bool)
	Validate(name string, args map[string]any) error
}

// Binder is the slice of the Prompt Binder nodes need: bind a template
// against the run's current state into a ready-to-send message list.
type Binder interface {
	Bind(template string, state session.State, now time.Time) ([]llm.Message, error)
}

// PromptSet holds the control nodes' system templates. They are plain
// <<VAR>>-style text, the same contract an AgentDefinition.Prompt uses.
type PromptSet struct {
	Coordinator string
	Planner     string
	Publisher   string
	Factory     string
}

// Dependencies bundles everything a Node needs, so Node keeps one
// uniform signature regardless of which collaborators a given node
// actually calls.
type Dependencies struct {
	LLMs    LLMResolver
	Agents  AgentResolver
	Tools   ToolInvoker
	Binder  Binder
	Stream  *event.Stream
	Prompts PromptSet

	// Now lets tests fix the clock the way prompt.Binder.Bind already
	// requires an explicit time rather than reaching for time.Now().
	Now func() time.Time
}

func (d *Dependencies) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}
