package eval

// Score is one task's evaluation outcome along the four scoring
// dimensions, plus a pass/fail derived from accuracy.
type Score struct {
	TaskID       string         `json:"task_id"`
	Accuracy     float64        `json:"accuracy"`
	Completeness float64        `json:"completeness"`
	Efficiency   float64        `json:"efficiency"`
	ToolUsage    float64        `json:"tool_usage"`
	Passed       bool           `json:"passed"`
	Details      map[string]any `json:"details,omitempty"`
}

// Metrics aggregates a run's Scores into arithmetic means per dimension
// plus their overall average.
type Metrics struct {
	Accuracy       float64        `json:"accuracy"`
	Completeness   float64        `json:"completeness"`
	Efficiency     float64        `json:"efficiency"`
	ToolUsage      float64        `json:"tool_usage"`
	AggregateScore float64        `json:"aggregate_score"`
	Totals         map[string]any `json:"totals,omitempty"`
}

// AverageMetrics computes the arithmetic mean of each dimension across
// scores and the mean of those four means as the aggregate.
func AverageMetrics(scores []Score) Metrics {
	if len(scores) == 0 {
		return Metrics{}
	}
	var acc, comp, eff, tool float64
	for _, s := range scores {
		acc += s.Accuracy
		comp += s.Completeness
		eff += s.Efficiency
		tool += s.ToolUsage
	}
	n := float64(len(scores))
	acc, comp, eff, tool = acc/n, comp/n, eff/n, tool/n
	return Metrics{
		Accuracy:       acc,
		Completeness:   comp,
		Efficiency:     eff,
		ToolUsage:      tool,
		AggregateScore: (acc + comp + eff + tool) / 4.0,
		Totals:         map[string]any{"num_tasks": len(scores)},
	}
}
