package agentregistry

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/coragent/coor-agent/agentstore"
	"github.com/coragent/coor-agent/coorerr"
)

// DefaultAgent describes one of the built-in agents seeded into every
// fresh store.
type DefaultAgent struct {
	Name        string
	NickName    string
	Description string
	LLMType     string
	Tools       []string
	Prompt      string
}

// DefaultAgents is the built-in roster: a web researcher, a coder that
// runs sandboxed commands, a browser operator, and a reporter that
// writes up the final answer. researcher/reporter run on the
// basic model, browser on the vision one, and coder on the
// code-specialized one.
var DefaultAgents = []DefaultAgent{
	{
		Name:        "researcher",
		NickName:    "Researcher",
		Description: "Uses search engines and web crawlers to gather information from the internet. Cannot do math or programming.",
		LLMType:     "basic",
		Tools:       []string{"search"},
		Prompt:      "<<CURRENT_TIME>>\nYou are a researcher. Use the search tool to gather information, then summarize findings as Markdown.\n",
	},
	{
		Name:        "coder",
		NickName:    "Coder",
		Description: "Executes shell commands and performs mathematical computations, reporting results as Markdown.",
		LLMType:     "code",
		Tools:       []string{"command"},
		Prompt:      "<<CURRENT_TIME>>\nYou are a coder. Use the command tool to run calculations or scripts, then report the result as Markdown.\n",
	},
	{
		Name:        "browser",
		NickName:    "Browser",
		Description: "Interacts directly with web pages, including sites that require in-domain search such as social or code-hosting platforms.",
		LLMType:     "vision",
		Tools:       []string{"search"},
		Prompt:      "<<CURRENT_TIME>>\nYou are a browser operator. Navigate and extract what the plan asks for.\n",
	},
	{
		Name:        "reporter",
		NickName:    "Reporter",
		Description: "Writes a professional report based on the results of each prior step. Cannot run code or commands.",
		LLMType:     "basic",
		Tools:       nil,
		Prompt:      "<<CURRENT_TIME>>\nYou are a reporter. Write a clear, professional report from the conversation so far.\n",
	},
}

// DefaultToolSchemas pairs a built-in tool name with the JSON schema
// written for it under the store's tools/ directory, independent of
// whether the tool happens to be registered in this process.
// list_default_tools reports only the tools that are registered.
var DefaultToolSchemas = map[string]json.RawMessage{
	"search":  json.RawMessage(`{"type":"object","properties":{"query":{"type":"string"},"max_results":{"type":"integer"}},"required":["query"]}`),
	"command": json.RawMessage(`{"type":"object","properties":{"command":{"type":"string"},"args":{"type":"array","items":{"type":"string"}}},"required":["command"]}`),
}

// SeedDefaults idempotently creates the DefaultAgents under owner_id
// "share" so they are visible to every caller. An agent that already
// exists (AlreadyExists) is left untouched; one whose tools have no
// registered backend in this process (NotFound) is skipped with a
// warning, since seeding it would produce a roster entry that can
// never run. Any other error aborts.
func SeedDefaults(ctx context.Context, reg *Registry) error {
	for _, da := range DefaultAgents {
		tools := make([]agentstore.ToolRef, 0, len(da.Tools))
		for _, name := range da.Tools {
			tools = append(tools, agentstore.ToolRef{Name: name})
		}

		def := agentstore.Definition{
			OwnerID:     agentstore.Shared,
			AgentName:   da.Name,
			NickName:    da.NickName,
			Description: da.Description,
			LLMType:     da.LLMType,
			Tools:       tools,
			Prompt:      da.Prompt,
		}

		if _, err := reg.Create(ctx, def); err != nil {
			switch coorerr.KindOf(err) {
			case coorerr.AlreadyExists:
				continue
			case coorerr.NotFound:
				slog.Warn("skipping default agent, tool backend not registered", "agent_name", da.Name, "error", err)
				continue
			default:
				return err
			}
		}
	}
	return nil
}
