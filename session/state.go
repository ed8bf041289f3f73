// Package session holds the per-run State the orchestration graph reads
// and mutates, and a Cache that keeps a rolling window of recent turns
// per user between runs.
package session

import "github.com/coragent/coor-agent/llm"

// Message is one turn in a run's conversation, tagged with the role that
// produced it and, for agent replies, the agent's name.
type Message struct {
	Role    llm.Role `json:"role"`
	Name    string   `json:"name,omitempty"`
	Content string   `json:"content"`
}

// State is the mutable state threaded through one workflow run. Every
// graph node reads from and writes back into the same State as the run
// progresses from node to node.
type State struct {
	UserID     string `json:"user_id"`
	WorkflowID string `json:"workflow_id"`

	Messages []Message `json:"messages"`
	FullPlan string    `json:"full_plan,omitempty"`

	TeamMembers            []string `json:"team_members"`
	TeamMembersDescription string   `json:"team_members_description"`

	Next                 string `json:"next"`
	ProcessingAgentName  string `json:"processing_agent_name,omitempty"`
	DeepThinkingMode     bool   `json:"deep_thinking_mode"`
	SearchBeforePlanning bool   `json:"search_before_planning"`
}

// AppendMessage appends msg to the run's transcript and returns the
// updated State, so graph nodes can treat state transitions as values.
func (s State) AppendMessage(msg Message) State {
	next := make([]Message, len(s.Messages), len(s.Messages)+1)
	copy(next, s.Messages)
	s.Messages = append(next, msg)
	return s
}

// HasTeamMember reports whether name is part of this run's team roster.
func (s State) HasTeamMember(name string) bool {
	for _, m := range s.TeamMembers {
		if m == name {
			return true
		}
	}
	return false
}
