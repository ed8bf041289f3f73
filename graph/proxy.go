package graph

import (
	"context"

	"github.com/coragent/coor-agent/event"
	"github.com/coragent/coor-agent/llm"
	"github.com/coragent/coor-agent/session"
)

// maxProxyRounds bounds the reactive LM-plus-tools loop inside a single
// proxy invocation, independent of the graph's own iteration cap: a
// misbehaving agent that never stops calling tools must not hang the
// run forever.
const maxProxyRounds = 10

// Proxy dispatches the publisher's chosen team member: bind its prompt
// against the run's state, call its LM channel, and execute whatever
// tool calls the model makes until it yields a plain reply. A tool call
// that fails schema validation becomes an ordinary error message fed
// back into the loop rather than failing the run.
func Proxy(ctx context.Context, deps *Dependencies, state session.State) (Command, error) {
	def, err := deps.Agents.Resolve(state.Next)
	if err != nil {
		return Command{}, err
	}

	gw, err := deps.LLMs.Resolve(def.LLMType)
	if err != nil {
		return Command{}, err
	}

	msgs, err := deps.Binder.Bind(def.Prompt, state, deps.now())
	if err != nil {
		return Command{}, err
	}

	tools := make([]llm.ToolSpec, 0, len(def.Tools))
	for _, t := range def.Tools {
		tools = append(tools, llm.ToolSpec{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema})
	}

	var reply string
	for round := 0; round < maxProxyRounds; round++ {
		content, calls, err := generateWithTools(ctx, deps, def.AgentName, gw, llm.Request{Messages: msgs, Tools: tools})
		if err != nil {
			return Command{}, err
		}
		if len(calls) == 0 {
			reply = content
			break
		}

		msgs = append(msgs, llm.Message{Role: llm.RoleAssistant, Content: content})
		for _, call := range calls {
			if err := deps.Stream.Emit(ctx, event.ToolCall(def.AgentName, call.ID, call.Name, call.Arguments)); err != nil {
				return Command{}, err
			}

			result := runTool(ctx, deps, call)

			if err := deps.Stream.Emit(ctx, event.ToolCallResult(def.AgentName, call.ID, call.Name, result)); err != nil {
				return Command{}, err
			}
			msgs = append(msgs, llm.Message{Role: llm.RoleUser, Name: call.Name, Content: result})
		}
		reply = content
	}

	return Command{
		Next: NodePublisher,
		Apply: func(s session.State) session.State {
			s.ProcessingAgentName = def.AgentName
			return s.AppendMessage(session.Message{Role: llm.RoleUser, Name: def.AgentName, Content: reply})
		},
	}, nil
}

// runTool validates arguments, then executes the tool, collapsing every
// failure mode (unknown tool, schema violation, execution error) into a
// plain-text error the calling agent can read and recover from.
func runTool(ctx context.Context, deps *Dependencies, call llm.ToolCall) string {
	if err := deps.Tools.Validate(call.Name, call.Arguments); err != nil {
		return "error: " + err.Error()
	}

	t, ok := deps.Tools.Get(call.Name)
	if !ok {
		return "error: unknown tool " + call.Name
	}

	result, err := t.Execute(ctx, call.Arguments)
	if err != nil {
		return "error: " + err.Error()
	}
	if !result.Success {
		return "error: " + result.Error
	}
	return result.Content
}
