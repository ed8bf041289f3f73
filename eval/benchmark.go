package eval

import (
	"context"

	"github.com/coragent/coor-agent/eval/adapter"
)

// Benchmark supplies a dataset and knows how to score its own tasks.
// Benchmarks with nothing dimension-specific to add can build their
// Score from DefaultScore.
type Benchmark interface {
	Name() string
	Version() string
	LoadDataset(ctx context.Context) (adapter.Dataset, error)
	ScoreResponse(task adapter.Task, resp adapter.TaskResponse) Score
}

// DefaultScore implements the harness's default scoring rule: accuracy
// is 1.0 iff the expected output (trimmed, case-folded) is a substring
// of the extracted answer; every other dimension is left at zero.
func DefaultScore(task adapter.Task, resp adapter.TaskResponse) Score {
	expected := normalize(task.ExpectedOutput)
	accuracy := 0.0
	if expected != "" && contains(normalize(resp.Answer), expected) {
		accuracy = 1.0
	}
	return Score{
		TaskID:   task.TaskID,
		Accuracy: accuracy,
		Passed:   accuracy >= 0.5,
	}
}
