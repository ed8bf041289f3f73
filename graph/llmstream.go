package graph

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/coragent/coor-agent/coorerr"
	"github.com/coragent/coor-agent/event"
	"github.com/coragent/coor-agent/llm"
)

// streamToEvents drives a Gateway's token stream to completion, forwarding
// each chunk as a message event under a shared message_id and finishing
// with one full_message event, then returns the assembled text. Used by
// the planner, whose reply is streamed to the client rather than read
// as a structured routing decision. A stream that fails before yielding any
// chunk is retried once, same as every other LM call; a stream that
// fails after partial output is not retried, since replaying it would
// duplicate already-emitted message events.
func streamToEvents(ctx context.Context, deps *Dependencies, agentName string, gw llm.Gateway, req llm.Request) (string, error) {
	for attempt := 0; ; attempt++ {
		content, wrote, err := streamAttempt(ctx, deps, agentName, gw, req)
		if err == nil {
			return content, nil
		}
		if attempt > 0 || wrote || ctx.Err() != nil {
			return "", err
		}
	}
}

func streamAttempt(ctx context.Context, deps *Dependencies, agentName string, gw llm.Gateway, req llm.Request) (content string, wrote bool, err error) {
	chunks, errs := gw.GenerateStreaming(ctx, req)
	messageID := uuid.NewString()
	var full strings.Builder

	for chunks != nil || errs != nil {
		select {
		case c, ok := <-chunks:
			if !ok {
				chunks = nil
				continue
			}
			wrote = true
			full.WriteString(c.Content)
			if err := deps.Stream.Emit(ctx, event.Message(agentName, messageID, event.Delta{
				Content:          c.Content,
				ReasoningContent: c.ReasoningContent,
			})); err != nil {
				return "", wrote, err
			}
		case streamErr, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if streamErr != nil {
				return "", wrote, coorerr.New(coorerr.LMError, agentName, "GenerateStreaming", "LM stream failed", streamErr)
			}
		case <-ctx.Done():
			return "", wrote, ctx.Err()
		}
	}

	content = full.String()
	if err := deps.Stream.Emit(ctx, event.FullMessage(agentName, messageID, content)); err != nil {
		return "", wrote, err
	}
	return content, wrote, nil
}

// generateOnce calls Generate, retrying once if the first attempt fails
// for a reason other than the run's own cancellation, before a failure
// surfaces as LMError.
func generateOnce(ctx context.Context, gw llm.Gateway, req llm.Request) (llm.Response, error) {
	resp, err := gw.Generate(ctx, req)
	if err == nil || ctx.Err() != nil {
		return resp, err
	}
	return gw.Generate(ctx, req)
}

// generateWithTools makes one non-streaming call (retried once on
// failure) and, when the model asked for no tool, emits the reply as a
// chunked message/full_message pair (it arrived as a single string, not a
// token stream). When the model did request tools, nothing is emitted
// here; the proxy loop surfaces tool_call/tool_call_result instead and
// only the eventual tool-free reply gets a message.
func generateWithTools(ctx context.Context, deps *Dependencies, agentName string, gw llm.Gateway, req llm.Request) (string, []llm.ToolCall, error) {
	resp, err := generateOnce(ctx, gw, req)
	if err != nil {
		return "", nil, coorerr.New(coorerr.LMError, agentName, "Generate", "agent LM call failed", err)
	}

	if len(resp.ToolCalls) == 0 {
		if err := deps.Stream.EmitChunked(ctx, agentName, resp.Content); err != nil {
			return "", nil, err
		}
	}

	return resp.Content, resp.ToolCalls, nil
}
