package eval

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/coragent/coor-agent/coorerr"
	"github.com/coragent/coor-agent/eval/adapter"
)

// questionKeys and answerKeys are tried in order for every JSONL row and
// the first non-empty string wins, since exported benchmark rows
// commonly carry the question under one of several differently-named
// fields depending on source. "question" is the first question key;
// "expected_output" is the last answer key.
var (
	questionKeys = []string{"question", "question_text", "prompt", "instruction", "input", "query", "text"}
	answerKeys   = []string{"answer", "expected_answer", "expected_output"}
)

// JSONLBenchmark loads its dataset from a local newline-delimited JSON
// file, one task per line, and scores with the harness's default
// substring rule.
type JSONLBenchmark struct {
	BenchmarkName    string
	BenchmarkVersion string
	Path             string
}

func (b *JSONLBenchmark) Name() string {
	if b.BenchmarkName != "" {
		return b.BenchmarkName
	}
	return "jsonl"
}

func (b *JSONLBenchmark) Version() string {
	if b.BenchmarkVersion != "" {
		return b.BenchmarkVersion
	}
	return "1.0"
}

func (b *JSONLBenchmark) LoadDataset(ctx context.Context) (adapter.Dataset, error) {
	f, err := os.Open(b.Path)
	if err != nil {
		return adapter.Dataset{}, coorerr.New(coorerr.NotFound, "JSONLBenchmark", "LoadDataset", "dataset file not found: "+b.Path, err)
	}
	defer f.Close()

	var tasks []adapter.Task
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for i := 0; scanner.Scan(); i++ {
		select {
		case <-ctx.Done():
			return adapter.Dataset{}, ctx.Err()
		default:
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var row map[string]any
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return adapter.Dataset{}, coorerr.New(coorerr.ValidationError, "JSONLBenchmark", "LoadDataset", fmt.Sprintf("invalid JSON on line %d", i+1), err)
		}
		tasks = append(tasks, preprocessRow(i, row))
	}
	if err := scanner.Err(); err != nil {
		return adapter.Dataset{}, err
	}

	return adapter.Dataset{Tasks: tasks}, nil
}

func (b *JSONLBenchmark) ScoreResponse(task adapter.Task, resp adapter.TaskResponse) Score {
	return DefaultScore(task, resp)
}

func preprocessRow(index int, row map[string]any) adapter.Task {
	taskID := stringField(row, "task_id", "id")
	if taskID == "" {
		taskID = fmt.Sprintf("%d", index)
	}

	question := stringField(row, questionKeys...)
	expected := stringField(row, answerKeys...)

	metadata := make(map[string]any, len(row))
	skip := map[string]bool{"task_id": true, "id": true}
	for _, k := range questionKeys {
		skip[k] = true
	}
	for _, k := range answerKeys {
		skip[k] = true
	}
	for k, v := range row {
		if !skip[k] {
			metadata[k] = v
		}
	}

	var context map[string]any
	if attachments, ok := row["attachments"]; ok {
		context = map[string]any{"attachments": attachments}
	}

	return adapter.Task{
		TaskID:         taskID,
		Question:       question,
		ExpectedOutput: expected,
		Context:        context,
		Metadata:       metadata,
	}
}

func stringField(row map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := row[k]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
