package llm

import (
	"github.com/coragent/coor-agent/coorerr"
	"github.com/coragent/coor-agent/registry"
)

// Registry maps an AgentDefinition.llm_type ("basic", "reasoning",
// "vision", "code") to a bound Gateway instance.
type Registry struct {
	*registry.BaseRegistry[Gateway]
}

// NewRegistry creates an empty LLM registry.
func NewRegistry() *Registry {
	return &Registry{BaseRegistry: registry.NewBaseRegistry[Gateway]()}
}

// RegisterGateway binds name (an llm_type) to gw.
func (r *Registry) RegisterGateway(name string, gw Gateway) error {
	if name == "" {
		return coorerr.New(coorerr.ValidationError, "LLMRegistry", "RegisterGateway", "llm type name cannot be empty", nil)
	}
	if gw == nil {
		return coorerr.New(coorerr.ValidationError, "LLMRegistry", "RegisterGateway", "gateway cannot be nil", nil)
	}
	if err := r.Register(name, gw); err != nil {
		return coorerr.New(coorerr.AlreadyExists, "LLMRegistry", "RegisterGateway", err.Error(), err)
	}
	return nil
}

// Resolve returns the Gateway bound to an llm_type, falling back to
// "basic" if the requested type has no dedicated binding. An agent
// created before its specialized binding was configured should still
// run rather than fail outright.
func (r *Registry) Resolve(llmType string) (Gateway, error) {
	if gw, ok := r.Get(llmType); ok {
		return gw, nil
	}
	if gw, ok := r.Get("basic"); ok {
		return gw, nil
	}
	return nil, coorerr.New(coorerr.NotFound, "LLMRegistry", "Resolve", "no gateway bound for llm_type "+llmType, nil)
}
