package eval

import "github.com/coragent/coor-agent/eval/adapter"

// Transcript is the full record of one task's run: every event in
// order, the raw text assembled from message deltas, and the resulting
// score. Persisted under the run's transcripts directory when the
// caller asked for per-task detail.
type Transcript struct {
	TaskID   string               `json:"task_id"`
	Question string               `json:"question"`
	Response adapter.TaskResponse `json:"response"`
	Score    Score                `json:"score"`
}
