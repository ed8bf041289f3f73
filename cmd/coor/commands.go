package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/coragent/coor-agent/agentstore"
	"github.com/coragent/coor-agent/config"
	"github.com/coragent/coor-agent/eval"
	"github.com/coragent/coor-agent/llm"
	"github.com/coragent/coor-agent/service"
	"github.com/coragent/coor-agent/session"
)

// CLI is the top-level command-line interface.
type CLI struct {
	Run               RunCmd               `cmd:"" help:"Run a workflow for one user and print its event stream."`
	ListAgents        ListAgentsCmd        `cmd:"" name:"list-agents" help:"List a user's agents."`
	ListDefaultAgents ListDefaultAgentsCmd `cmd:"" name:"list-default-agents" help:"List shared agents."`
	ListDefaultTools  ListDefaultToolsCmd  `cmd:"" name:"list-default-tools" help:"List every registered tool."`
	EditAgent         EditAgentCmd         `cmd:"" name:"edit-agent" help:"Update an existing agent."`
	RemoveAgent       RemoveAgentCmd       `cmd:"" name:"remove-agent" help:"Remove an agent."`
	Eval              EvalCmd              `cmd:"" help:"Run a benchmark dataset through the orchestrator."`
	Serve             ServeCmd             `cmd:"" help:"Start the HTTP surface."`
	Schema            SchemaCmd            `cmd:"" help:"Print the JSON Schema for a config or agent definition document."`

	Config    string `short:"c" help:"Path to config file." type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error)." default:"info"`
	LogFormat string `help:"Log format (text or json)." default:"text"`
}

func (c *CLI) loadConfig() (*config.Config, error) {
	_ = config.LoadDotEnv("")
	if c.Config == "" {
		return config.Default(), nil
	}
	return config.Load(c.Config)
}

// RunCmd drives one workflow run and prints its event stream as NDJSON.
type RunCmd struct {
	UserID               string   `short:"u" required:"" help:"Caller user_id."`
	TaskType             string   `short:"t" default:"agent_workflow" help:"agent_workflow or agent_factory."`
	Message              []string `short:"m" required:"" help:"User message(s), one per --message flag."`
	Debug                bool     `help:"Enable debug mode."`
	DeepThinking         bool     `name:"deep-thinking" negatable:"" help:"Use the reasoning LM for planning."`
	SearchBeforePlanning bool     `name:"search-before-planning" help:"Run a search preflight before planning."`
	Agent                []string `short:"a" help:"Coop agent(s) this run may also see."`
}

func (c *RunCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	// SIGINT cancels the in-flight run; the stream then carries its
	// terminal Cancelled error event before closing.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rt, err := buildRuntime(ctx, cfg)
	if err != nil {
		return err
	}

	msgs := make([]session.Message, 0, len(c.Message))
	for _, m := range c.Message {
		msgs = append(msgs, session.Message{Role: llm.RoleUser, Content: m})
	}

	stream, err := rt.service.RunWorkflow(ctx, service.AgentRequest{
		UserID:               c.UserID,
		TaskType:             c.TaskType,
		Messages:             msgs,
		Debug:                c.Debug,
		DeepThinkingMode:     c.DeepThinking,
		SearchBeforePlanning: c.SearchBeforePlanning,
		CoopAgents:           c.Agent,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	for ev := range stream.Events() {
		if err := enc.Encode(ev); err != nil {
			return err
		}
	}
	return nil
}

// ListAgentsCmd lists a user's own agents plus shared agents.
type ListAgentsCmd struct {
	UserID string `short:"u" required:"" help:"Caller user_id."`
	Match  string `short:"m" help:"Optional name filter (regex)."`
}

func (c *ListAgentsCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	rt, err := buildRuntime(ctx, cfg)
	if err != nil {
		return err
	}

	defs, err := rt.service.ListAgents(c.UserID, c.Match)
	if err != nil {
		return err
	}
	return printDefinitions(defs)
}

// ListDefaultAgentsCmd lists every shared agent.
type ListDefaultAgentsCmd struct{}

func (c *ListDefaultAgentsCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	rt, err := buildRuntime(ctx, cfg)
	if err != nil {
		return err
	}

	defs, err := rt.service.ListDefaultAgents()
	if err != nil {
		return err
	}
	return printDefinitions(defs)
}

// ListDefaultToolsCmd lists every tool registered in the tool registry.
type ListDefaultToolsCmd struct{}

func (c *ListDefaultToolsCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	rt, err := buildRuntime(ctx, cfg)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	for _, info := range rt.service.ListDefaultTools(rt.tools) {
		if err := enc.Encode(info); err != nil {
			return err
		}
	}
	return nil
}

// EditAgentCmd updates an existing agent definition; an unknown agent
// yields "agent not found". Flags populate the definition directly; an
// empty description or prompt is asked for on stdin unless
// --no-interactive is set.
type EditAgentCmd struct {
	UserID      string   `short:"u" required:"" help:"Owning user_id (or \"share\" for a shared agent)."`
	Name        string   `short:"n" required:"" help:"Agent name."`
	NickName    string   `help:"Display name."`
	Description string   `help:"One-line description."`
	LLMType     string   `help:"basic, reasoning, vision, or code." default:"basic"`
	Prompt      string   `help:"Prompt template."`
	Tools       []string `help:"Tool names this agent may call."`
	Interactive bool     `default:"true" negatable:"" help:"Prompt for description and prompt when left empty."`
}

func (c *EditAgentCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	rt, err := buildRuntime(ctx, cfg)
	if err != nil {
		return err
	}

	if c.Interactive {
		c.promptMissing()
	}

	tools := make([]agentstore.ToolRef, 0, len(c.Tools))
	for _, name := range c.Tools {
		t, ok := rt.tools.Get(name)
		if !ok {
			return fmt.Errorf("tool not found: %s", name)
		}
		info := t.Info()
		tools = append(tools, agentstore.ToolRef{Name: info.Name, Description: info.Description, InputSchema: info.InputSchema})
	}

	result, err := rt.service.EditAgent(ctx, agentstore.Definition{
		OwnerID:     c.UserID,
		AgentName:   c.Name,
		NickName:    c.NickName,
		Description: c.Description,
		LLMType:     c.LLMType,
		Tools:       tools,
		Prompt:      c.Prompt,
	})
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(result)
}

func (c *EditAgentCmd) promptMissing() {
	scanner := bufio.NewScanner(os.Stdin)
	ask := func(label string, dst *string) {
		if *dst != "" {
			return
		}
		fmt.Fprintf(os.Stderr, "%s: ", label)
		if scanner.Scan() {
			*dst = strings.TrimSpace(scanner.Text())
		}
	}
	ask("description", &c.Description)
	ask("prompt", &c.Prompt)
}

// RemoveAgentCmd removes an agent; removing a shared agent requires
// the caller to be an admin per config.
type RemoveAgentCmd struct {
	UserID string `short:"u" required:"" help:"Caller user_id."`
	Name   string `short:"n" required:"" help:"Agent name."`
}

func (c *RemoveAgentCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	rt, err := buildRuntime(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := rt.service.RemoveAgent(ctx, c.UserID, c.Name, cfg.Admin.IsAdmin(c.UserID))
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(result)
}

// EvalCmd runs a JSONL-backed benchmark through the orchestrator and
// prints the aggregate result.
type EvalCmd struct {
	Dataset string `required:"" help:"Path to a JSONL dataset file."`
	Kind    string `default:"jsonl" help:"Registered benchmark kind to run."`
	Name    string `default:"jsonl" help:"Benchmark name to record in the report."`
	Limit   int    `help:"Limit the number of tasks evaluated."`
}

func (c *EvalCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	rt, err := buildRuntime(ctx, cfg)
	if err != nil {
		return err
	}

	benchmarks := eval.NewRegistry()
	benchmarks.Register("jsonl", func() eval.Benchmark {
		return &eval.JSONLBenchmark{BenchmarkName: c.Name, Path: c.Dataset}
	})
	bench, err := benchmarks.Get(c.Kind)
	if err != nil {
		return err
	}
	evalCfg := evalConfigFrom(cfg.Eval)
	evalCfg.Limit = c.Limit

	result, err := rt.engine.Run(ctx, rt.service, bench, evalCfg)
	if err != nil {
		return err
	}

	fmt.Printf("Run ID: %s\n", result.RunID)
	fmt.Printf("Benchmark: %s\n", result.Benchmark)
	fmt.Printf("Tasks: %d\n", result.NumTasks)
	fmt.Printf("Aggregate Score: %.3f\n", result.Metrics.AggregateScore)
	return nil
}

// SchemaCmd emits the JSON Schema for one of the runtime's on-disk
// document shapes, so operators can validate a config.yaml or an agent
// YAML file before handing it to the runtime.
type SchemaCmd struct {
	Of string `arg:"" enum:"config,agent" help:"Which document to emit a schema for: config or agent."`
}

func (c *SchemaCmd) Run(cli *CLI) error {
	r := &jsonschema.Reflector{ExpandedStruct: true}
	var schema *jsonschema.Schema
	switch c.Of {
	case "config":
		schema = r.Reflect(&config.Config{})
	case "agent":
		schema = r.Reflect(&agentstore.Definition{})
	default:
		return fmt.Errorf("unknown schema target: %s", c.Of)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(schema)
}

func printDefinitions(defs []agentstore.Definition) error {
	enc := json.NewEncoder(os.Stdout)
	for _, def := range defs {
		if err := enc.Encode(def); err != nil {
			return err
		}
	}
	return nil
}
