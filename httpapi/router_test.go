package httpapi

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coragent/coor-agent/agentregistry"
	"github.com/coragent/coor-agent/agentstore"
	"github.com/coragent/coor-agent/config"
	"github.com/coragent/coor-agent/event"
	"github.com/coragent/coor-agent/graph"
	"github.com/coragent/coor-agent/llm"
	"github.com/coragent/coor-agent/llm/llmtest"
	"github.com/coragent/coor-agent/prompt"
	"github.com/coragent/coor-agent/service"
	"github.com/coragent/coor-agent/session"
	"github.com/coragent/coor-agent/tool"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	tools := tool.NewRegistry()
	store, err := agentstore.NewFileStore(t.TempDir(), tools)
	require.NoError(t, err)
	reg, err := agentregistry.New(context.Background(), store)
	require.NoError(t, err)

	svc := &service.Service{
		Agents: reg,
		Cache:  session.NewCache(3),
		Deps: &graph.Dependencies{
			LLMs:    fakeResolver{llmtest.NewStub(llm.Response{Content: "hi"})},
			Agents:  reg,
			Tools:   tools,
			Binder:  prompt.NewBinder(),
			Prompts: graph.DefaultPrompts(),
		},
	}

	return &Server{Service: svc, Tools: tools, Admin: &config.AdminConfig{UserIDs: []string{"admin"}}}
}

type fakeResolver struct{ gw llm.Gateway }

func (f fakeResolver) Resolve(string) (llm.Gateway, error) { return f.gw, nil }

func TestHandleListDefaultAgents_Empty(t *testing.T) {
	s := newTestServer(t)
	r := NewRouter(s)

	req := httptest.NewRequest(http.MethodGet, "/v1/list_default_agents", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, strings.TrimSpace(w.Body.String()))
}

func TestHandleEditAgent_NotFound(t *testing.T) {
	s := newTestServer(t)
	r := NewRouter(s)

	def := agentstore.Definition{AgentName: "ghost", OwnerID: "u1", LLMType: "basic"}
	body, _ := json.Marshal(def)

	req := httptest.NewRequest(http.MethodPost, "/v1/edit_agent", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var result service.ManagementResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "agent not found", result.Result)
}

func TestHandleRemoveAgent_SharedRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	_, err := s.Service.Agents.Create(context.Background(), agentstore.Definition{
		AgentName: "shared_one", OwnerID: agentstore.Shared, LLMType: "basic",
	})
	require.NoError(t, err)

	r := NewRouter(s)
	body, _ := json.Marshal(removeAgentBody{UserID: "not_admin", AgentName: "shared_one"})
	req := httptest.NewRequest(http.MethodPost, "/v1/remove_agent", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var result service.ManagementResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.NotEqual(t, "success", result.Result)
}

func TestHandleWorkflow_StreamsNDJSON(t *testing.T) {
	s := newTestServer(t)
	r := NewRouter(s)

	reqBody := workflowRequestBody{
		UserID:   "u1",
		Messages: []messageBody{{Role: "user", Content: "hi"}},
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/v1/workflow", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	scanner := bufio.NewScanner(w.Body)
	var events []event.Event
	for scanner.Scan() {
		var ev event.Event
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev))
		events = append(events, ev)
	}
	require.NotEmpty(t, events)
	assert.Equal(t, event.TagStartOfWorkflow, events[0].Tag)
	assert.Equal(t, event.TagEndOfWorkflow, events[len(events)-1].Tag)
}
