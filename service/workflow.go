// Package service implements the Workflow Service: request validation,
// per-run team assembly from the Agent Registry, graph-flavor selection
// by task_type, and the session cache that threads a rolling window of
// prior turns into each new run.
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/coragent/coor-agent/agentregistry"
	"github.com/coragent/coor-agent/coorerr"
	"github.com/coragent/coor-agent/event"
	"github.com/coragent/coor-agent/graph"
	"github.com/coragent/coor-agent/session"
)

const (
	TaskAgentWorkflow = "agent_workflow"
	TaskAgentFactory  = "agent_factory"

	defaultMaxIterations  = 25
	defaultStreamCapacity = 64
)

// AgentRequest is the input to RunWorkflow, matching the /v1/workflow
// request body.
type AgentRequest struct {
	UserID               string
	Lang                 string
	TaskType             string
	Messages             []session.Message
	Debug                bool
	DeepThinkingMode     bool
	SearchBeforePlanning bool
	CoopAgents           []string
}

// Validate rejects a request the graph could never run successfully.
func (r AgentRequest) Validate() error {
	if r.UserID == "" {
		return coorerr.New(coorerr.ValidationError, "WorkflowService", "Validate", "user_id is required", nil)
	}
	if r.TaskType != "" && r.TaskType != TaskAgentWorkflow && r.TaskType != TaskAgentFactory {
		return coorerr.New(coorerr.ValidationError, "WorkflowService", "Validate", "unknown task_type: "+r.TaskType, nil)
	}
	if len(r.Messages) == 0 {
		return coorerr.New(coorerr.ValidationError, "WorkflowService", "Validate", "messages cannot be empty", nil)
	}
	return nil
}

// Service assembles a run's team roster, picks the graph flavor for the
// request's task_type, and drives the graph to completion, handing back
// the event stream as soon as the run starts so a caller can forward
// events while the run is still in progress.
type Service struct {
	Agents *agentregistry.Registry
	Cache  *session.Cache
	Deps   *graph.Dependencies

	MaxIterations  int
	StreamCapacity int

	// AllowCoopOptIn gates whether a request's coop_agents grant run-scoped
	// visibility into agents the caller doesn't own. False ignores the
	// list entirely, matching config.Config.Policy.AllowCoopOptIn.
	AllowCoopOptIn bool
}

func (s *Service) maxIterations() int {
	if s.MaxIterations > 0 {
		return s.MaxIterations
	}
	return defaultMaxIterations
}

func (s *Service) streamCapacity() int {
	if s.StreamCapacity > 0 {
		return s.StreamCapacity
	}
	return defaultStreamCapacity
}

// RunWorkflow validates the request, assembles the run's team, and
// starts the graph in its own goroutine, returning the stream the
// caller reads as events are produced. The stream is closed once the
// run reaches its terminal event.
func (s *Service) RunWorkflow(ctx context.Context, req AgentRequest) (*event.Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	coopAgents := req.CoopAgents
	if !s.AllowCoopOptIn {
		coopAgents = nil
	}
	team, description, err := s.assembleTeam(req.UserID, coopAgents)
	if err != nil {
		return nil, err
	}

	messages := make([]session.Message, 0, len(req.Messages)+3)
	messages = append(messages, s.Cache.Recent(req.UserID)...)
	messages = append(messages, req.Messages...)
	baseLen := len(messages)

	state := session.State{
		UserID:                 req.UserID,
		WorkflowID:             uuid.NewString(),
		Messages:               messages,
		TeamMembers:            team,
		TeamMembersDescription: description,
		DeepThinkingMode:       req.DeepThinkingMode,
		SearchBeforePlanning:   req.SearchBeforePlanning,
	}

	deps := *s.Deps
	stream := event.NewStream(s.streamCapacity())
	deps.Stream = stream

	var ctrl *graph.Controller
	if req.TaskType == TaskAgentFactory {
		ctrl = graph.NewFactoryGraph(&deps, s.maxIterations())
	} else {
		ctrl = graph.NewFullGraph(&deps, s.maxIterations())
	}

	go func() {
		defer stream.Close()
		final, runErr := ctrl.Run(ctx, state)
		if runErr == nil {
			s.rememberTurn(req.UserID, req.Messages, final, baseLen)
		}
	}()

	return stream, nil
}

// assembleTeam builds the run's team roster and publisher-facing
// description: agent_factory plus every agent visible to the caller.
// Shared agents contribute to the roster only, keeping the publisher
// prompt focused on agents the caller actually owns or was granted.
func (s *Service) assembleTeam(userID string, coopAgents []string) ([]string, string, error) {
	defs, err := s.Agents.List(userID, "", coopAgents)
	if err != nil {
		return nil, "", err
	}

	team := []string{graph.NodeFactory}
	var description strings.Builder
	for _, def := range defs {
		team = append(team, def.AgentName)
		if def.IsShared() {
			continue
		}
		description.WriteString(def.AgentName)
		description.WriteString(": ")
		description.WriteString(def.Description)
		description.WriteString("\n")
	}
	return team, description.String(), nil
}

// rememberTurn pushes this run's incoming messages, plus whatever
// messages the run itself produced past baseLen, into the per-user cache
// once the run has completed successfully, so the next run for the same
// user picks up where this one left off. A run that produced nothing
// (coordinator small talk) caches only the incoming side of the turn.
func (s *Service) rememberTurn(userID string, incoming []session.Message, final session.State, baseLen int) {
	for _, m := range incoming {
		s.Cache.Append(userID, m)
	}
	for _, m := range final.Messages[baseLen:] {
		s.Cache.Append(userID, m)
	}
}
