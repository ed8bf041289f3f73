// Package adapter converts evaluation Tasks into Workflow Service
// requests and workflow event streams back into TaskResponses; scoring
// is left to the eval harness. It is factored out of the harness so a
// single ad hoc task can be driven through the workflow without pulling
// in benchmark registration or scoring.
package adapter

// Task is one unit of evaluation work: a question, its expected
// answer, and whatever free-form context a benchmark attaches to it.
type Task struct {
	TaskID         string         `json:"task_id"`
	Question       string         `json:"question"`
	ExpectedOutput string         `json:"expected_output"`
	Context        map[string]any `json:"context,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// Dataset is an ordered collection of Tasks a Benchmark loads.
type Dataset struct {
	Tasks []Task
}

// TaskResponse is what running a Task through the workflow produced:
// the extracted answer, the raw assembled text it came from, and the
// run's event transcript when collection was requested.
type TaskResponse struct {
	Answer     string  `json:"answer"`
	RawOutput  string  `json:"raw_output,omitempty"`
	Error      string  `json:"error,omitempty"`
	Transcript []Event `json:"transcript,omitempty"`
}
