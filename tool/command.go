package tool

import (
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"time"

	"github.com/coragent/coor-agent/coorerr"
)

// CommandToolConfig bounds what the command tool may run: an explicit
// command allowlist, a sandbox-confined working directory, and a hard
// execution timeout. Only the working directory is confined to the
// sandbox; args are passed to the command unchecked. This is the tool
// the default "coder" agent is bound to.
type CommandToolConfig struct {
	AllowedCommands  []string
	Sandbox          Sandbox
	MaxExecutionTime time.Duration
}

func (c *CommandToolConfig) setDefaults() {
	if len(c.AllowedCommands) == 0 {
		c.AllowedCommands = []string{"cat", "head", "tail", "ls", "find", "grep", "wc", "pwd", "go"}
	}
	if c.MaxExecutionTime == 0 {
		c.MaxExecutionTime = 30 * time.Second
	}
}

var commandSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"command": {"type": "string", "description": "command name, must be allowlisted"},
		"args": {"type": "array", "items": {"type": "string"}}
	},
	"required": ["command"],
	"additionalProperties": false
}`)

// NewCommandTool builds a Tool named "command" that executes an
// allowlisted command inside cfg.Sandbox.Root.
func NewCommandTool(cfg CommandToolConfig) Tool {
	cfg.setDefaults()
	allowed := make(map[string]bool, len(cfg.AllowedCommands))
	for _, c := range cfg.AllowedCommands {
		allowed[c] = true
	}

	return NewFunc(
		Info{Name: "command", Description: "Run an allowlisted shell command in a sandboxed directory.", InputSchema: commandSchema},
		func(ctx context.Context, args map[string]any) (Result, error) {
			start := time.Now()
			cmdName, _ := args["command"].(string)
			if !allowed[cmdName] {
				return Result{}, coorerr.New(coorerr.ToolError, "CommandTool", "Execute", "command not allowlisted: "+cmdName, nil)
			}

			var cmdArgs []string
			if raw, ok := args["args"].([]any); ok {
				for _, a := range raw {
					if s, ok := a.(string); ok {
						cmdArgs = append(cmdArgs, s)
					}
				}
			}

			root, err := cfg.Sandbox.Resolve(".")
			if err != nil {
				return Result{}, err
			}

			runCtx, cancel := context.WithTimeout(ctx, cfg.MaxExecutionTime)
			defer cancel()

			cmd := exec.CommandContext(runCtx, cmdName, cmdArgs...)
			cmd.Dir = root

			out, runErr := cmd.CombinedOutput()
			result := Result{
				ToolName:      "command",
				Content:       strings.TrimSpace(string(out)),
				ExecutionTime: time.Since(start),
			}
			if runErr != nil {
				result.Success = false
				result.Error = runErr.Error()
				return result, nil
			}
			result.Success = true
			return result, nil
		},
	)
}
