package service

import (
	"context"

	"github.com/coragent/coor-agent/agentstore"
	"github.com/coragent/coor-agent/coorerr"
	"github.com/coragent/coor-agent/tool"
)

// Tools lets the Service answer list_default_tools independently of any
// one run's Dependencies.
type Tools interface {
	List() []tool.Info
}

// ManagementResult is the body of edit_agent and remove_agent: a short
// machine-checkable result plus a human-readable message.
type ManagementResult struct {
	Result  string `json:"result"`
	Message string `json:"message,omitempty"`
}

// ListAgents returns every agent visible to userID, optionally narrowed
// by a regex match on agent_name.
func (s *Service) ListAgents(userID, match string) ([]agentstore.Definition, error) {
	return s.Agents.List(userID, match, nil)
}

// ListDefaultAgents returns the shared, owner_id=="share" agent set
// every caller sees regardless of who they are.
func (s *Service) ListDefaultAgents() ([]agentstore.Definition, error) {
	return s.Agents.List(agentstore.Shared, "", nil)
}

// ListDefaultTools returns every tool this process knows how to invoke.
func (s *Service) ListDefaultTools(tools Tools) []tool.Info {
	return tools.List()
}

// EditAgent persists a caller-supplied definition, reporting a
// not-found result rather than an error when the agent doesn't exist:
// this is a management-endpoint response, not a run failure.
func (s *Service) EditAgent(ctx context.Context, def agentstore.Definition) (ManagementResult, error) {
	_, err := s.Agents.Edit(ctx, def)
	if err != nil {
		if coorerr.KindOf(err) == coorerr.NotFound {
			return ManagementResult{Result: "agent not found"}, nil
		}
		return ManagementResult{}, err
	}
	return ManagementResult{Result: "success"}, nil
}

// RemoveAgent deletes an agent record. isAdmin is resolved by the caller
// from its own AdminConfig before calling in, keeping policy decisions
// out of the service layer.
func (s *Service) RemoveAgent(ctx context.Context, userID, agentName string, isAdmin bool) (ManagementResult, error) {
	if err := s.Agents.Remove(ctx, userID, agentName, isAdmin); err != nil {
		if coorerr.KindOf(err) == coorerr.NotFound {
			return ManagementResult{Result: "agent not found"}, nil
		}
		return ManagementResult{Result: "error", Message: err.Error()}, nil
	}
	return ManagementResult{Result: "success"}, nil
}
