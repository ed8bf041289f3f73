// Package event defines the tagged-union events the orchestration graph
// emits as it runs, and a back-pressured single-producer/single-consumer
// Stream that carries them to one caller.
package event

import "encoding/json"

// Tag identifies the shape of an Event's Data.
type Tag string

const (
	TagStartOfWorkflow Tag = "start_of_workflow"
	TagStartOfAgent    Tag = "start_of_agent"
	TagEndOfAgent      Tag = "end_of_agent"
	TagMessage         Tag = "message"
	TagFullMessage     Tag = "full_message"
	TagToolCall        Tag = "tool_call"
	TagToolCallResult  Tag = "tool_call_result"
	TagNewAgentCreated Tag = "new_agent_created"
	TagEndOfWorkflow   Tag = "end_of_workflow"
	TagError           Tag = "error"
)

// Event is one line of the streamed protocol: a tag, the agent it
// concerns (when applicable), and a tag-specific data payload.
type Event struct {
	Tag       Tag             `json:"event"`
	AgentName string          `json:"agent_name,omitempty"`
	Data      json.RawMessage `json:"data"`
}

func encode(data any) json.RawMessage {
	raw, err := json.Marshal(data)
	if err != nil {
		// Every payload type below is a plain struct of strings/slices;
		// a marshal failure here means a programming error, not bad
		// input, so surfacing it as malformed JSON would only hide the
		// bug. Panicking keeps the contract "Data is always valid JSON".
		panic("event: failed to encode payload: " + err.Error())
	}
	return raw
}

// TranscriptMessage is one conversation turn as carried inside
// start_of_workflow and end_of_workflow payloads. It mirrors the session
// message shape without importing the session package, keeping event a
// leaf.
type TranscriptMessage struct {
	Role    string `json:"role"`
	Name    string `json:"name,omitempty"`
	Content string `json:"content"`
}

// StartOfWorkflowData is the payload of TagStartOfWorkflow.
type StartOfWorkflowData struct {
	WorkflowID string              `json:"workflow_id"`
	Input      []TranscriptMessage `json:"input"`
}

func StartOfWorkflow(workflowID string, input []TranscriptMessage) Event {
	return Event{Tag: TagStartOfWorkflow, Data: encode(StartOfWorkflowData{WorkflowID: workflowID, Input: input})}
}

// AgentLifecycleData is the payload of TagStartOfAgent/TagEndOfAgent.
type AgentLifecycleData struct {
	AgentName string `json:"agent_name"`
	AgentID   string `json:"agent_id"`
}

func StartOfAgent(agentName, agentID string) Event {
	return Event{Tag: TagStartOfAgent, AgentName: agentName, Data: encode(AgentLifecycleData{AgentName: agentName, AgentID: agentID})}
}

func EndOfAgent(agentName, agentID string) Event {
	return Event{Tag: TagEndOfAgent, AgentName: agentName, Data: encode(AgentLifecycleData{AgentName: agentName, AgentID: agentID})}
}

// Delta carries the incremental or full text of a message.
type Delta struct {
	Content          string `json:"content,omitempty"`
	ReasoningContent string `json:"reasoning_content,omitempty"`
}

// MessageData is the payload of TagMessage and TagFullMessage.
type MessageData struct {
	MessageID string `json:"message_id"`
	Delta     Delta  `json:"delta"`
}

func Message(agentName, messageID string, delta Delta) Event {
	return Event{Tag: TagMessage, AgentName: agentName, Data: encode(MessageData{MessageID: messageID, Delta: delta})}
}

func FullMessage(agentName, messageID, content string) Event {
	return Event{Tag: TagFullMessage, AgentName: agentName, Data: encode(MessageData{MessageID: messageID, Delta: Delta{Content: content}})}
}

// ToolCallData is the payload of TagToolCall.
type ToolCallData struct {
	ToolCallID string         `json:"tool_call_id"`
	ToolName   string         `json:"tool_name"`
	ToolInput  map[string]any `json:"tool_input"`
}

func ToolCall(agentName, toolCallID, toolName string, input map[string]any) Event {
	return Event{Tag: TagToolCall, AgentName: agentName, Data: encode(ToolCallData{ToolCallID: toolCallID, ToolName: toolName, ToolInput: input})}
}

// ToolCallResultData is the payload of TagToolCallResult.
type ToolCallResultData struct {
	ToolCallID string `json:"tool_call_id"`
	ToolName   string `json:"tool_name"`
	ToolResult string `json:"tool_result"`
}

func ToolCallResult(agentName, toolCallID, toolName, result string) Event {
	return Event{Tag: TagToolCallResult, AgentName: agentName, Data: encode(ToolCallResultData{ToolCallID: toolCallID, ToolName: toolName, ToolResult: result})}
}

// NewAgentCreatedData is the payload of TagNewAgentCreated. Definition is
// left as `any` here so this package does not import agentstore; callers
// pass the concrete agentstore.Definition.
type NewAgentCreatedData struct {
	AgentName  string `json:"agent_name"`
	Definition any    `json:"definition"`
}

func NewAgentCreated(agentName string, definition any) Event {
	return Event{Tag: TagNewAgentCreated, AgentName: agentName, Data: encode(NewAgentCreatedData{AgentName: agentName, Definition: definition})}
}

// EndOfWorkflowData is the payload of TagEndOfWorkflow.
type EndOfWorkflowData struct {
	WorkflowID string              `json:"workflow_id"`
	Messages   []TranscriptMessage `json:"messages"`
}

func EndOfWorkflow(workflowID string, messages []TranscriptMessage) Event {
	return Event{Tag: TagEndOfWorkflow, Data: encode(EndOfWorkflowData{WorkflowID: workflowID, Messages: messages})}
}

// ErrorData is the payload of TagError.
type ErrorData struct {
	WorkflowID string `json:"workflow_id"`
	Error      string `json:"error"`
}

func Error(workflowID, message string) Event {
	return Event{Tag: TagError, Data: encode(ErrorData{WorkflowID: workflowID, Error: message})}
}
