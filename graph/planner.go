package graph

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/coragent/coor-agent/coorerr"
	"github.com/coragent/coor-agent/llm"
	"github.com/coragent/coor-agent/session"
)

// Planner turns the run's conversation into a full execution plan.
// deep_thinking_mode routes the call to the reasoning LM channel instead
// of basic; search_before_planning runs a search preflight and folds the
// results into the last message before the LM call. The plan must parse
// as JSON or the run ends here: an unusable plan cannot be trusted to
// the publisher.
func Planner(ctx context.Context, deps *Dependencies, state session.State) (Command, error) {
	llmType := "basic"
	if state.DeepThinkingMode {
		llmType = "reasoning"
	}
	gw, err := deps.LLMs.Resolve(llmType)
	if err != nil {
		return Command{}, err
	}

	msgs, err := deps.Binder.Bind(deps.Prompts.Planner, state, deps.now())
	if err != nil {
		return Command{}, err
	}

	if state.SearchBeforePlanning && len(msgs) > 0 {
		if err := injectSearchResults(ctx, deps, msgs); err != nil {
			return Command{}, err
		}
	}

	content, err := streamToEvents(ctx, deps, NodePlanner, gw, llm.Request{Messages: msgs})
	if err != nil {
		return Command{}, err
	}

	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var probe any
	if err := json.Unmarshal([]byte(content), &probe); err != nil {
		return Command{}, coorerr.New(coorerr.ValidationError, "Planner", "Run", "planner output is not valid JSON", err)
	}

	return Command{
		Next: NodePublisher,
		Apply: func(s session.State) session.State {
			s.FullPlan = content
			return s.AppendMessage(session.Message{Role: llm.RoleAssistant, Name: NodePlanner, Content: content})
		},
	}, nil
}

// injectSearchResults runs the search tool against the last message's
// content and, when the search succeeds, appends its text output to that
// message under a "# Relative Search Results" heading.
func injectSearchResults(ctx context.Context, deps *Dependencies, msgs []llm.Message) error {
	t, ok := deps.Tools.Get("search")
	if !ok {
		return nil
	}

	last := &msgs[len(msgs)-1]
	if err := deps.Tools.Validate("search", map[string]any{"query": last.Content}); err != nil {
		return coorerr.New(coorerr.ToolError, "Planner", "search_before_planning", "search preflight input invalid", err)
	}

	result, err := t.Execute(ctx, map[string]any{"query": last.Content})
	if err != nil {
		return coorerr.New(coorerr.ToolError, "Planner", "search_before_planning", "search preflight failed", err)
	}
	if result.Success {
		last.Content += "\n\n# Relative Search Results\n\n" + result.Content
	}
	return nil
}
