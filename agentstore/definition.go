// Package agentstore implements durable storage for agent definitions:
// one YAML file per agent, written atomically, indexed by agent_name.
package agentstore

import (
	"encoding/json"
	"time"
)

// ToolRef is a bind-time snapshot of a tool the agent was created with.
// The schema is copied from the tool registry at create/edit time so a
// later schema change in the registry never silently changes an agent's
// contract.
type ToolRef struct {
	Name        string          `yaml:"name" json:"name"`
	Description string          `yaml:"description" json:"description"`
	InputSchema json.RawMessage `yaml:"input_schema" json:"input_schema"`
}

// Definition is the durable record of one agent: its identity, routing
// attributes, bound tool snapshots and prompt template.
type Definition struct {
	OwnerID     string    `yaml:"owner_id" json:"owner_id"`
	AgentName   string    `yaml:"agent_name" json:"agent_name"`
	NickName    string    `yaml:"nick_name" json:"nick_name"`
	Description string    `yaml:"description" json:"description"`
	LLMType     string    `yaml:"llm_type" json:"llm_type"`
	Tools       []ToolRef `yaml:"tools" json:"tools"`
	Prompt      string    `yaml:"prompt" json:"prompt"`
	CreatedAt   time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt   time.Time `yaml:"updated_at" json:"updated_at"`
}

// Shared is the well-known owner_id whose agents are visible to every
// user.
const Shared = "share"

// IsShared reports whether def is visible to every caller regardless of
// owner_id or coop_agents.
func (d Definition) IsShared() bool { return d.OwnerID == Shared }

var validLLMTypes = map[string]bool{
	"basic":     true,
	"reasoning": true,
	"vision":    true,
	"code":      true,
}

// ValidLLMType reports whether t is one of the four recognized llm_type
// values.
func ValidLLMType(t string) bool { return validLLMTypes[t] }
