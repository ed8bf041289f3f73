package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coor_agent_http_requests_total",
		Help: "Total HTTP requests handled, by route and status.",
	}, []string{"route", "status"})

	eventsEmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coor_agent_workflow_events_total",
		Help: "Total workflow events streamed to clients, by tag.",
	}, []string{"tag"})

	workflowRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coor_agent_workflow_runs_total",
		Help: "Total workflow runs started, by task_type.",
	}, []string{"task_type"})
)
