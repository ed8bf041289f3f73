package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coragent/coor-agent/agentregistry"
	"github.com/coragent/coor-agent/agentstore"
	"github.com/coragent/coor-agent/coorerr"
	"github.com/coragent/coor-agent/event"
	"github.com/coragent/coor-agent/graph"
	"github.com/coragent/coor-agent/llm"
	"github.com/coragent/coor-agent/llm/llmtest"
	"github.com/coragent/coor-agent/prompt"
	"github.com/coragent/coor-agent/session"
	"github.com/coragent/coor-agent/tool"
)

type fixedResolver struct{ gw llm.Gateway }

func (f fixedResolver) Resolve(string) (llm.Gateway, error) { return f.gw, nil }

func newTestService(t *testing.T, gw llm.Gateway) *Service {
	t.Helper()
	tools := tool.NewRegistry()
	store, err := agentstore.NewFileStore(t.TempDir(), tools)
	require.NoError(t, err)
	reg, err := agentregistry.New(context.Background(), store)
	require.NoError(t, err)

	return &Service{
		Agents:         reg,
		Cache:          session.NewCache(3),
		AllowCoopOptIn: true,
		Deps: &graph.Dependencies{
			LLMs:    fixedResolver{gw},
			Agents:  reg,
			Tools:   tools,
			Binder:  prompt.NewBinder(),
			Prompts: graph.DefaultPrompts(),
		},
	}
}

func seedAgent(t *testing.T, svc *Service, owner, name string) {
	t.Helper()
	_, err := svc.Agents.Create(context.Background(), agentstore.Definition{
		OwnerID: owner, AgentName: name, LLMType: "basic",
		Description: name + " does things",
		Prompt:      "<<CURRENT_TIME>>",
	})
	require.NoError(t, err)
}

func TestAgentRequest_Validate(t *testing.T) {
	base := AgentRequest{UserID: "u1", Messages: []session.Message{{Role: llm.RoleUser, Content: "hi"}}}
	assert.NoError(t, base.Validate())

	noUser := base
	noUser.UserID = ""
	assert.Equal(t, coorerr.ValidationError, coorerr.KindOf(noUser.Validate()))

	badType := base
	badType.TaskType = "agent_disco"
	assert.Equal(t, coorerr.ValidationError, coorerr.KindOf(badType.Validate()))

	noMsgs := base
	noMsgs.Messages = nil
	assert.Equal(t, coorerr.ValidationError, coorerr.KindOf(noMsgs.Validate()))
}

func TestService_AssembleTeamVisibility(t *testing.T) {
	svc := newTestService(t, llmtest.NewStub(llm.Response{}))
	seedAgent(t, svc, agentstore.Shared, "reporter")
	seedAgent(t, svc, "u1", "mine")
	seedAgent(t, svc, "u2", "theirs")

	team, desc, err := svc.assembleTeam("u1", nil)
	require.NoError(t, err)

	assert.Equal(t, graph.NodeFactory, team[0])
	assert.Contains(t, team, "reporter")
	assert.Contains(t, team, "mine")
	assert.NotContains(t, team, "theirs")

	// shared agents stay out of the publisher-facing description text
	assert.Contains(t, desc, "mine")
	assert.NotContains(t, desc, "reporter")
}

func TestService_AssembleTeamCoopOptIn(t *testing.T) {
	svc := newTestService(t, llmtest.NewStub(llm.Response{}))
	seedAgent(t, svc, "u2", "theirs")

	team, _, err := svc.assembleTeam("u1", []string{"theirs"})
	require.NoError(t, err)
	assert.Contains(t, team, "theirs")
}

func TestService_RunWorkflowCachesCompletedTurn(t *testing.T) {
	svc := newTestService(t, llmtest.NewStub(llm.Response{Content: "hello there"}))

	stream, err := svc.RunWorkflow(context.Background(), AgentRequest{
		UserID:   "u1",
		Messages: []session.Message{{Role: llm.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)

	var last event.Event
	for ev := range stream.Events() {
		last = ev
	}
	assert.Equal(t, event.TagEndOfWorkflow, last.Tag)

	// coordinator small talk appends nothing to the run's messages, so
	// only the incoming user message lands in the cache - never twice.
	recent := svc.Cache.Recent("u1")
	require.Len(t, recent, 1)
	assert.Equal(t, "hi", recent[0].Content)
}

func TestService_RunWorkflowRejectsInvalidRequest(t *testing.T) {
	svc := newTestService(t, llmtest.NewStub(llm.Response{}))
	_, err := svc.RunWorkflow(context.Background(), AgentRequest{UserID: "u1"})
	require.Error(t, err)
	assert.Equal(t, coorerr.ValidationError, coorerr.KindOf(err))
}
