package tool

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/coragent/coor-agent/coorerr"
)

// Registry indexes Tools by name and compiles each one's input schema
// once at registration time, so every later Validate call is a cheap
// schema.Validate instead of a re-parse.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]Tool
	schemas map[string]*jsonschema.Schema
	order   []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:   make(map[string]Tool),
		schemas: make(map[string]*jsonschema.Schema),
	}
}

// Register compiles t's input schema and adds it to the registry.
// Registration is immutable thereafter: a second Register for the same
// name fails with AlreadyExists.
func (r *Registry) Register(t Tool) error {
	info := t.Info()
	if info.Name == "" {
		return coorerr.New(coorerr.ValidationError, "ToolRegistry", "Register", "tool name cannot be empty", nil)
	}

	schema, err := compileSchema(info.Name, info.InputSchema)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[info.Name]; exists {
		return coorerr.New(coorerr.AlreadyExists, "ToolRegistry", "Register", "tool already registered: "+info.Name, nil)
	}

	r.tools[info.Name] = t
	r.schemas[info.Name] = schema
	r.order = append(r.order, info.Name)
	return nil
}

func compileSchema(name string, raw json.RawMessage) (*jsonschema.Schema, error) {
	if len(raw) == 0 {
		// Empty schema means "any object" is accepted.
		raw = json.RawMessage(`{}`)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, coorerr.New(coorerr.ValidationError, "ToolRegistry", "Register",
			"tool "+name+" has malformed input schema", err)
	}

	c := jsonschema.NewCompiler()
	resourceID := "tool://" + name
	if err := c.AddResource(resourceID, doc); err != nil {
		return nil, coorerr.New(coorerr.ValidationError, "ToolRegistry", "Register",
			"tool "+name+" schema could not be added", err)
	}
	schema, err := c.Compile(resourceID)
	if err != nil {
		return nil, coorerr.New(coorerr.ValidationError, "ToolRegistry", "Register",
			"tool "+name+" schema does not compile", err)
	}
	return schema, nil
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns every registered tool's Info, sorted by name for stable
// output on the list_default_tools endpoint.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.order))
	for _, name := range r.order {
		infos = append(infos, r.tools[name].Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Validate checks args against the compiled schema for name. Callers
// invoke it before every tool call; schema violations surface as
// ordinary ToolErrors the caller can see and recover from.
func (r *Registry) Validate(name string, args map[string]any) error {
	r.mu.RLock()
	schema, ok := r.schemas[name]
	r.mu.RUnlock()
	if !ok {
		return coorerr.New(coorerr.ToolError, "ToolRegistry", "Validate", "unknown tool: "+name, nil)
	}

	if err := schema.Validate(toAny(args)); err != nil {
		return coorerr.New(coorerr.ToolError, "ToolRegistry", "Validate", "input does not satisfy schema for "+name, err)
	}
	return nil
}

func toAny(args map[string]any) any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	return out
}
