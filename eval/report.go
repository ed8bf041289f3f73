package eval

import (
	"fmt"
	"strings"
)

// GenerateMarkdownReport renders a one-page summary of a Result.
func GenerateMarkdownReport(result Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Evaluation Report - %s\n\n", result.Benchmark)
	fmt.Fprintf(&b, "Run ID: %s\n", result.RunID)
	fmt.Fprintf(&b, "Tasks: %d\n", result.NumTasks)
	fmt.Fprintf(&b, "Duration: %dms\n", result.DurationMS)
	fmt.Fprintf(&b, "Aggregate Score: %.3f\n\n", result.Metrics.AggregateScore)
	fmt.Fprintf(&b, "| Dimension | Score |\n|---|---|\n")
	fmt.Fprintf(&b, "| Accuracy | %.3f |\n", result.Metrics.Accuracy)
	fmt.Fprintf(&b, "| Completeness | %.3f |\n", result.Metrics.Completeness)
	fmt.Fprintf(&b, "| Efficiency | %.3f |\n", result.Metrics.Efficiency)
	fmt.Fprintf(&b, "| Tool Usage | %.3f |\n", result.Metrics.ToolUsage)
	return b.String()
}
