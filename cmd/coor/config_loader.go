package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/coragent/coor-agent/agentregistry"
	"github.com/coragent/coor-agent/agentstore"
	"github.com/coragent/coor-agent/config"
	"github.com/coragent/coor-agent/eval"
	"github.com/coragent/coor-agent/graph"
	"github.com/coragent/coor-agent/httpapi"
	"github.com/coragent/coor-agent/llm"
	"github.com/coragent/coor-agent/llm/anthropic"
	"github.com/coragent/coor-agent/llm/openai"
	"github.com/coragent/coor-agent/prompt"
	"github.com/coragent/coor-agent/service"
	"github.com/coragent/coor-agent/session"
	"github.com/coragent/coor-agent/tool"
)

// runtime bundles everything a CLI command needs out of one loaded
// Config: the Workflow Service, the HTTP surface it backs, and an
// Evaluation Engine wired to the same service.
type runtime struct {
	cfg     *config.Config
	service *service.Service
	server  *httpapi.Server
	engine  *eval.Engine
	tools   *tool.Registry
}

// buildRuntime loads cfg (defaulted/validated already) into a running
// set of collaborators: tool registry, agent store/registry, LM
// gateways, the Workflow Service, and the HTTP surface over it.
func buildRuntime(ctx context.Context, cfg *config.Config) (*runtime, error) {
	tools := tool.NewRegistry()
	if err := tools.Register(tool.NewCommandTool(tool.CommandToolConfig{
		Sandbox: tool.Sandbox{Root: cfg.Store.RootDir},
	})); err != nil {
		return nil, fmt.Errorf("register command tool: %w", err)
	}
	if cfg.Search.APIKey != "" {
		backend, err := tool.NewTavilySearcher(cfg.Search.APIKey)
		if err != nil {
			return nil, fmt.Errorf("build search backend: %w", err)
		}
		if err := tools.Register(tool.NewSearchTool(backend)); err != nil {
			return nil, fmt.Errorf("register search tool: %w", err)
		}
	}

	store, err := agentstore.NewFileStore(cfg.Store.AgentsDir(), tools)
	if err != nil {
		return nil, fmt.Errorf("open agent store: %w", err)
	}

	agents, err := agentregistry.New(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("build agent registry: %w", err)
	}
	if err := agentregistry.SeedDefaults(ctx, agents); err != nil {
		return nil, fmt.Errorf("seed default agents: %w", err)
	}
	if err := seedStoreLayout(cfg.Store); err != nil {
		return nil, fmt.Errorf("seed store layout: %w", err)
	}

	llms, err := buildLLMRegistry(cfg.LLMs)
	if err != nil {
		return nil, err
	}

	deps := &graph.Dependencies{
		LLMs:    llms,
		Agents:  agents,
		Tools:   tools,
		Binder:  prompt.NewBinder(),
		Prompts: graph.DefaultPrompts(),
	}

	svc := &service.Service{
		Agents:         agents,
		Cache:          session.NewCache(cfg.Session.CacheTurns),
		Deps:           deps,
		MaxIterations:  cfg.Graph.MaxIterations,
		AllowCoopOptIn: cfg.Policy.AllowCoopOptIn,
	}

	return &runtime{
		cfg:     cfg,
		service: svc,
		server:  &httpapi.Server{Service: svc, Tools: tools, Admin: &cfg.Admin},
		engine:  &eval.Engine{},
		tools:   tools,
	}, nil
}

// seedStoreLayout materializes the tools/ and prompts/ directories that
// sit beside agents/: one JSON schema file per built-in tool and one
// plain-text template per control node. Existing files are left alone so
// an operator's edits survive restarts.
func seedStoreLayout(store config.StoreConfig) error {
	for _, dir := range []string{store.ToolsDir(), store.PromptsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	for name, schema := range agentregistry.DefaultToolSchemas {
		path := filepath.Join(store.ToolsDir(), name+".json")
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, schema, 0o644); err != nil {
			return err
		}
	}

	prompts := graph.DefaultPrompts()
	for name, text := range map[string]string{
		"coordinator":   prompts.Coordinator,
		"planner":       prompts.Planner,
		"publisher":     prompts.Publisher,
		"agent_factory": prompts.Factory,
	} {
		path := filepath.Join(store.PromptsDir(), name+".md")
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// buildLLMRegistry binds every configured llm_type to a concrete
// Gateway. "anthropic" and "openai" are the two provider kinds the
// orchestration core ships adapters for; anything else is a
// configuration error caught here rather than at first use.
func buildLLMRegistry(cfgs map[string]config.LLMConfig) (*llm.Registry, error) {
	reg := llm.NewRegistry()
	for name, c := range cfgs {
		gw, err := buildGateway(c)
		if err != nil {
			return nil, fmt.Errorf("llm %q: %w", name, err)
		}
		if err := reg.RegisterGateway(name, gw); err != nil {
			return nil, fmt.Errorf("llm %q: %w", name, err)
		}
	}
	return reg, nil
}

func buildGateway(c config.LLMConfig) (llm.Gateway, error) {
	switch c.Provider {
	case "anthropic":
		return anthropic.New(anthropic.Config{
			APIKey:      c.APIKey,
			Model:       c.Model,
			MaxTokens:   int64(c.MaxTokens),
			Temperature: c.Temperature,
		})
	case "openai":
		return openai.New(openai.Config{
			APIKey:      c.APIKey,
			BaseURL:     c.BaseURL,
			Model:       c.Model,
			MaxTokens:   c.MaxTokens,
			Temperature: c.Temperature,
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", c.Provider)
	}
}

// evalConfigFrom converts the section of Config the harness needs into an
// eval.Config, keeping the YAML-facing shape (time.Duration, etc.)
// separate from the harness's own internal seconds-based fields.
func evalConfigFrom(c config.EvalConfig) eval.Config {
	return eval.Config{
		MaxConcurrentTasks: c.MaxConcurrentTasks,
		TimeoutPerTask:     int(c.TimeoutPerTask.Seconds()),
		RetryFailedTasks:   c.RetryFailedTasks,
		MaxRetries:         c.MaxRetries,
		OutputDir:          c.OutputDir,
		SaveDetails:        true,
	}
}
