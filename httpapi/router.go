// Package httpapi exposes the Workflow Service and agent-management
// operations over the HTTP surface: a chi router, NDJSON event
// streaming, and Prometheus counters for requests and events.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coragent/coor-agent/config"
	"github.com/coragent/coor-agent/service"
	"github.com/coragent/coor-agent/tool"
)

// Server bundles what the HTTP handlers need: the Workflow Service, the
// tool registry for list_default_tools, and admin policy for
// remove_agent.
type Server struct {
	Service *service.Service
	Tools   *tool.Registry
	Admin   *config.AdminConfig
}

// NewRouter builds the chi router for every /v1 endpoint in the HTTP
// surface.
func NewRouter(s *Server) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	r.Post("/v1/workflow", s.handleWorkflow)
	r.Post("/v1/list_agents", s.handleListAgents)
	r.Get("/v1/list_default_agents", s.handleListDefaultAgents)
	r.Get("/v1/list_default_tools", s.handleListDefaultTools)
	r.Post("/v1/edit_agent", s.handleEditAgent)
	r.Post("/v1/remove_agent", s.handleRemoveAgent)

	r.Handle("/metrics", promhttp.Handler())

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Flush() {
	if f, ok := rec.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		requestsTotal.WithLabelValues(route, http.StatusText(rec.status)).Inc()
	})
}
