package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/coragent/coor-agent/event"
	"github.com/coragent/coor-agent/service"
	"github.com/coragent/coor-agent/session"
)

// Event is the transcript record type; an alias keeps this package free
// of any scoring-specific wrapping around the raw workflow event.
type Event = event.Event

// EvalUserID is the caller identity the adapter runs every task under.
// Evaluation tasks never need per-user agent rosters, so a single fixed
// user keeps the harness's runs isolated from interactive callers.
const EvalUserID = "eval"

// ToMessage builds the single user message a Task is translated into:
// its question, plus a terse summary of any attachments so the model
// knows auxiliary input exists without leaking dataset answer fields.
func ToMessage(task Task) session.Message {
	content := strings.TrimSpace(task.Question)

	var extra []string
	if attachments, ok := task.Context["attachments"]; ok && attachments != nil {
		if summary, err := json.Marshal(attachments); err == nil {
			extra = append(extra, "Attachments summary: "+string(summary))
		}
	}

	if content == "" {
		extra = append([]string{fmt.Sprintf("Task ID: %s", task.TaskID)}, extra...)
		content = "Please solve the following task. Use tools if needed."
	}

	if len(extra) > 0 {
		content = content + "\n\n" + strings.Join(extra, "\n")
	}

	return session.Message{Role: "user", Content: content}
}

// Run drives task through the Workflow Service as a single
// agent_workflow run, collects the assembled reply text, and extracts
// its final answer. When collectTranscript is true every event from
// the run is kept on the returned TaskResponse.
func Run(ctx context.Context, svc *service.Service, task Task, collectTranscript bool) (TaskResponse, error) {
	req := service.AgentRequest{
		UserID:           EvalUserID,
		TaskType:         service.TaskAgentWorkflow,
		Messages:         []session.Message{ToMessage(task)},
		DeepThinkingMode: true,
	}

	stream, err := svc.RunWorkflow(ctx, req)
	if err != nil {
		return TaskResponse{Error: err.Error()}, err
	}

	var chunks []string
	var transcript []Event
	var runErr string
	for ev := range stream.Events() {
		if collectTranscript {
			transcript = append(transcript, ev)
		}
		switch ev.Tag {
		case event.TagMessage:
			var data event.MessageData
			if err := json.Unmarshal(ev.Data, &data); err == nil && data.Delta.Content != "" {
				chunks = append(chunks, data.Delta.Content)
			}
		case event.TagError:
			var data event.ErrorData
			if err := json.Unmarshal(ev.Data, &data); err == nil {
				runErr = data.Error
			}
		}
	}

	rawOutput := strings.Join(chunks, "")
	resp := TaskResponse{
		Answer:    ExtractFinalAnswer(rawOutput),
		RawOutput: rawOutput,
	}
	if collectTranscript {
		resp.Transcript = transcript
	}
	if runErr != "" {
		resp.Error = runErr
		resp.Answer = ""
		return resp, fmt.Errorf("workflow run failed: %s", runErr)
	}
	return resp, nil
}
