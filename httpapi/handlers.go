package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/coragent/coor-agent/agentstore"
	"github.com/coragent/coor-agent/coorerr"
	"github.com/coragent/coor-agent/llm"
	"github.com/coragent/coor-agent/service"
	"github.com/coragent/coor-agent/session"
)

type messageBody struct {
	Role    string `json:"role"`
	Name    string `json:"name,omitempty"`
	Content string `json:"content"`
}

type workflowRequestBody struct {
	UserID               string        `json:"user_id"`
	Lang                 string        `json:"lang,omitempty"`
	TaskType             string        `json:"task_type,omitempty"`
	Messages             []messageBody `json:"messages"`
	Debug                bool          `json:"debug,omitempty"`
	DeepThinkingMode     bool          `json:"deep_thinking_mode,omitempty"`
	SearchBeforePlanning bool          `json:"search_before_planning,omitempty"`
	CoopAgents           []string      `json:"coop_agents,omitempty"`
}

func (s *Server) handleWorkflow(w http.ResponseWriter, r *http.Request) {
	var body workflowRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	msgs := make([]session.Message, 0, len(body.Messages))
	for _, m := range body.Messages {
		msgs = append(msgs, session.Message{Role: llm.Role(m.Role), Name: m.Name, Content: m.Content})
	}

	req := service.AgentRequest{
		UserID:               body.UserID,
		Lang:                 body.Lang,
		TaskType:             body.TaskType,
		Messages:             msgs,
		Debug:                body.Debug,
		DeepThinkingMode:     body.DeepThinkingMode,
		SearchBeforePlanning: body.SearchBeforePlanning,
		CoopAgents:           body.CoopAgents,
	}

	stream, err := s.Service.RunWorkflow(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	taskType := req.TaskType
	if taskType == "" {
		taskType = service.TaskAgentWorkflow
	}
	workflowRunsTotal.WithLabelValues(taskType).Inc()

	writeNDJSON(w, stream)
}

type listAgentsBody struct {
	UserID string `json:"user_id"`
	Match  string `json:"match,omitempty"`
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	var body listAgentsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	defs, err := s.Service.ListAgents(body.UserID, body.Match)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeDefinitionLines(w, defs)
}

func (s *Server) handleListDefaultAgents(w http.ResponseWriter, r *http.Request) {
	defs, err := s.Service.ListDefaultAgents()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeDefinitionLines(w, defs)
}

func (s *Server) handleListDefaultTools(w http.ResponseWriter, r *http.Request) {
	infos := s.Service.ListDefaultTools(s.Tools)

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	for _, info := range infos {
		if err := enc.Encode(info); err != nil {
			slog.Error("failed to encode tool info", "error", err)
			return
		}
	}
}

func (s *Server) handleEditAgent(w http.ResponseWriter, r *http.Request) {
	var def agentstore.Definition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.Service.EditAgent(r.Context(), def)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type removeAgentBody struct {
	UserID    string `json:"user_id"`
	AgentName string `json:"agent_name"`
}

func (s *Server) handleRemoveAgent(w http.ResponseWriter, r *http.Request) {
	var body removeAgentBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	isAdmin := s.Admin != nil && s.Admin.IsAdmin(body.UserID)
	result, err := s.Service.RemoveAgent(r.Context(), body.UserID, body.AgentName, isAdmin)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeDefinitionLines(w http.ResponseWriter, defs []agentstore.Definition) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	for _, def := range defs {
		if err := enc.Encode(def); err != nil {
			slog.Error("failed to encode agent definition", "error", err)
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch coorerr.KindOf(err) {
	case coorerr.ValidationError:
		return http.StatusBadRequest
	case coorerr.NotFound:
		return http.StatusNotFound
	case coorerr.AlreadyExists:
		return http.StatusConflict
	case coorerr.Cancelled:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
