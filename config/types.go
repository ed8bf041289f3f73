// Package config provides the unified configuration surface for the
// orchestration runtime: LM providers, storage locations, graph bounds,
// visibility policy and the HTTP/evaluation surfaces.
package config

import (
	"fmt"
	"time"
)

// Config is the single entry point for all runtime configuration, the way
// a docker-compose.yml is the single entry point for a deployment.
type Config struct {
	Version string `yaml:"version,omitempty"`
	Name    string `yaml:"name,omitempty"`

	Server  ServerConfig         `yaml:"server,omitempty"`
	Store   StoreConfig          `yaml:"store,omitempty"`
	Graph   GraphConfig          `yaml:"graph,omitempty"`
	Policy  PolicyConfig         `yaml:"policy,omitempty"`
	Session SessionConfig        `yaml:"session,omitempty"`
	Search  SearchConfig         `yaml:"search,omitempty"`
	Eval    EvalConfig           `yaml:"eval,omitempty"`
	Admin   AdminConfig          `yaml:"admin,omitempty"`
	LLMs    map[string]LLMConfig `yaml:"llms,omitempty"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port,omitempty"`
}

func (c *ServerConfig) SetDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8800
	}
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig configures the durable agent store layout.
type StoreConfig struct {
	// RootDir is the directory under which agents/, tools/ and prompts/
	// live, one file per record.
	RootDir string `yaml:"root_dir,omitempty"`
}

func (c *StoreConfig) SetDefaults() {
	if c.RootDir == "" {
		c.RootDir = "./data"
	}
}

func (c *StoreConfig) AgentsDir() string  { return c.RootDir + "/agents" }
func (c *StoreConfig) ToolsDir() string   { return c.RootDir + "/tools" }
func (c *StoreConfig) PromptsDir() string { return c.RootDir + "/prompts" }

// GraphConfig bounds the orchestration graph's Publisher<->Proxy and
// Publisher<->Factory cycles.
type GraphConfig struct {
	MaxIterations int `yaml:"max_iterations,omitempty"`
}

func (c *GraphConfig) SetDefaults() {
	if c.MaxIterations == 0 {
		c.MaxIterations = 25
	}
}

func (c *GraphConfig) Validate() error {
	if c.MaxIterations < 1 {
		return fmt.Errorf("graph.max_iterations must be >= 1, got %d", c.MaxIterations)
	}
	return nil
}

// PolicyConfig controls agent-visibility policy.
type PolicyConfig struct {
	// AllowCoopOptIn, when true, lets a caller's coop_agents list grant
	// run-scoped visibility into another user's private agent.
	AllowCoopOptIn bool `yaml:"allow_coop_opt_in"`
}

func (c *PolicyConfig) SetDefaults() {
	// AllowCoopOptIn defaults to true; zero-value bool already is the
	// insecure default for a yaml-absent field, so SetDefaults is called
	// only when the caller explicitly wants the documented default.
}

// SessionConfig configures the per-user rolling history cache.
type SessionConfig struct {
	CacheTurns int `yaml:"cache_turns,omitempty"`
}

func (c *SessionConfig) SetDefaults() {
	if c.CacheTurns == 0 {
		c.CacheTurns = 3
	}
}

// SearchConfig configures the web-search backend behind the "search"
// tool. An empty APIKey leaves the tool unregistered, so the default
// researcher/browser agents are seeded only when a backend exists.
type SearchConfig struct {
	APIKey     string `yaml:"api_key,omitempty"`
	MaxResults int    `yaml:"max_results,omitempty"`
}

func (c *SearchConfig) SetDefaults() {
	if c.MaxResults == 0 {
		c.MaxResults = 5
	}
}

// AdminConfig names the users who may remove share-owned agents.
type AdminConfig struct {
	UserIDs []string `yaml:"user_ids,omitempty"`
}

func (c *AdminConfig) IsAdmin(userID string) bool {
	for _, id := range c.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// EvalConfig configures the evaluation harness.
type EvalConfig struct {
	MaxConcurrentTasks int           `yaml:"max_concurrent_tasks,omitempty"`
	TimeoutPerTask     time.Duration `yaml:"timeout_per_task,omitempty"`
	MaxRetries         int           `yaml:"max_retries,omitempty"`
	RetryFailedTasks   bool          `yaml:"retry_failed_tasks"`
	OutputDir          string        `yaml:"output_dir,omitempty"`
}

func (c *EvalConfig) SetDefaults() {
	if c.MaxConcurrentTasks == 0 {
		c.MaxConcurrentTasks = 4
	}
	if c.OutputDir == "" {
		c.OutputDir = "./eval-runs"
	}
}

func (c *EvalConfig) Validate() error {
	if c.MaxConcurrentTasks < 1 {
		return fmt.Errorf("eval.max_concurrent_tasks must be >= 1, got %d", c.MaxConcurrentTasks)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("eval.max_retries must be >= 0, got %d", c.MaxRetries)
	}
	return nil
}

// LLMConfig configures one named LM Gateway binding (e.g. "basic",
// "reasoning", "vision", "code" per the AgentDefinition.llm_type enum).
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key,omitempty"`
	BaseURL     string  `yaml:"base_url,omitempty"`
	MaxTokens   int     `yaml:"max_tokens,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty"`
}

func (c *LLMConfig) SetDefaults() {
	if c.MaxTokens == 0 {
		c.MaxTokens = 4096
	}
}

func (c *LLMConfig) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("llm provider cannot be empty")
	}
	if c.Model == "" {
		return fmt.Errorf("llm model cannot be empty")
	}
	return nil
}

// SetDefaults populates every optional field of Config with its
// documented default by composing each section's own SetDefaults.
func (c *Config) SetDefaults() {
	c.Server.SetDefaults()
	c.Store.SetDefaults()
	c.Graph.SetDefaults()
	c.Policy.SetDefaults()
	c.Session.SetDefaults()
	c.Search.SetDefaults()
	c.Eval.SetDefaults()

	for name, llm := range c.LLMs {
		llm.SetDefaults()
		c.LLMs[name] = llm
	}
}

// Validate checks every section for internal consistency. It does not
// check cross-references (e.g. that an agent's llm_type resolves to a
// configured LLMConfig) — that belongs to the component that consumes
// both, keeping Validate local to a section.
func (c *Config) Validate() error {
	if err := c.Graph.Validate(); err != nil {
		return fmt.Errorf("graph validation failed: %w", err)
	}
	if err := c.Eval.Validate(); err != nil {
		return fmt.Errorf("eval validation failed: %w", err)
	}
	for name, llm := range c.LLMs {
		if err := llm.Validate(); err != nil {
			return fmt.Errorf("llm '%s' validation failed: %w", name, err)
		}
	}
	return nil
}
