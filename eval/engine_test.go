package eval

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coragent/coor-agent/agentregistry"
	"github.com/coragent/coor-agent/agentstore"
	"github.com/coragent/coor-agent/eval/adapter"
	"github.com/coragent/coor-agent/graph"
	"github.com/coragent/coor-agent/llm"
	"github.com/coragent/coor-agent/llm/llmtest"
	"github.com/coragent/coor-agent/prompt"
	"github.com/coragent/coor-agent/service"
	"github.com/coragent/coor-agent/session"
	"github.com/coragent/coor-agent/tool"
)

type fakeResolver struct{ gw llm.Gateway }

func (f fakeResolver) Resolve(string) (llm.Gateway, error) { return f.gw, nil }

func newTestService(t *testing.T, reply string) *service.Service {
	t.Helper()
	tools := tool.NewRegistry()
	store, err := agentstore.NewFileStore(t.TempDir(), tools)
	require.NoError(t, err)
	reg, err := agentregistry.New(context.Background(), store)
	require.NoError(t, err)

	return &service.Service{
		Agents: reg,
		Cache:  session.NewCache(3),
		Deps: &graph.Dependencies{
			LLMs:    fakeResolver{llmtest.NewStub(llm.Response{Content: reply})},
			Agents:  reg,
			Tools:   tools,
			Binder:  prompt.NewBinder(),
			Prompts: graph.DefaultPrompts(),
		},
	}
}

func writeJSONLFile(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.jsonl")
	var content string
	for _, r := range rows {
		content += r + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEngine_Run_ScoresAgainstExpectedAnswer(t *testing.T) {
	datasetPath := writeJSONLFile(t, `{"task_id":"t1","question":"what is the answer","expected_output":"42"}`)
	bench := &JSONLBenchmark{Path: datasetPath}
	svc := newTestService(t, "Final Answer: 42")

	engine := &Engine{}
	result, err := engine.Run(context.Background(), svc, bench, Config{
		OutputDir: t.TempDir(),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.NumTasks)
	require.Len(t, result.Scores, 1)
	assert.Equal(t, 1.0, result.Scores[0].Accuracy)
	assert.True(t, result.Scores[0].Passed)
	assert.Equal(t, 1.0, result.Metrics.Accuracy)
}

func TestEngine_Run_LimitTruncatesDataset(t *testing.T) {
	datasetPath := writeJSONLFile(t,
		`{"task_id":"t1","question":"q1","expected_output":"a"}`,
		`{"task_id":"t2","question":"q2","expected_output":"b"}`,
	)
	bench := &JSONLBenchmark{Path: datasetPath}
	svc := newTestService(t, "no marker here")

	engine := &Engine{}
	result, err := engine.Run(context.Background(), svc, bench, Config{
		OutputDir: t.TempDir(),
		Limit:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.NumTasks)
}

// blockingGateway never answers; it waits out the caller's context so
// tests can exercise the per-task timeout path.
type blockingGateway struct{}

func (blockingGateway) ModelName() string { return "blocking" }

func (blockingGateway) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	<-ctx.Done()
	return llm.Response{}, ctx.Err()
}

func (blockingGateway) GenerateStreaming(ctx context.Context, req llm.Request) (<-chan llm.Chunk, <-chan error) {
	chunks := make(chan llm.Chunk)
	errs := make(chan error, 1)
	go func() {
		defer close(chunks)
		defer close(errs)
		<-ctx.Done()
		errs <- ctx.Err()
	}()
	return chunks, errs
}

func TestEngine_Run_TimeoutScoresZero(t *testing.T) {
	datasetPath := writeJSONLFile(t, `{"task_id":"t1","question":"never finishes","expected_output":"42"}`)
	bench := &JSONLBenchmark{Path: datasetPath}

	svc := newTestService(t, "unused")
	svc.Deps.LLMs = fakeResolver{blockingGateway{}}

	engine := &Engine{}
	result, err := engine.Run(context.Background(), svc, bench, Config{
		OutputDir:      t.TempDir(),
		TimeoutPerTask: 1,
	})
	require.NoError(t, err)
	require.Len(t, result.Scores, 1)
	assert.Equal(t, 0.0, result.Scores[0].Accuracy)
	assert.False(t, result.Scores[0].Passed)
}

func TestAdapterRun_TimeoutCarriesCancelledError(t *testing.T) {
	svc := newTestService(t, "unused")
	svc.Deps.LLMs = fakeResolver{blockingGateway{}}

	taskCtx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	resp, err := adapter.Run(taskCtx, svc, adapter.Task{TaskID: "t1", Question: "never finishes"}, false)
	require.Error(t, err)
	assert.Equal(t, "Cancelled", resp.Error)
	assert.Empty(t, resp.Answer)
}

// countingGateway tracks how many Generate calls are in flight at once.
type countingGateway struct {
	live    atomic.Int32
	maxLive atomic.Int32
}

func (c *countingGateway) ModelName() string { return "counting" }

func (c *countingGateway) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	n := c.live.Add(1)
	for {
		prev := c.maxLive.Load()
		if n <= prev || c.maxLive.CompareAndSwap(prev, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	c.live.Add(-1)
	return llm.Response{Content: "done"}, nil
}

func (c *countingGateway) GenerateStreaming(ctx context.Context, req llm.Request) (<-chan llm.Chunk, <-chan error) {
	chunks := make(chan llm.Chunk)
	errs := make(chan error)
	resp, _ := c.Generate(ctx, req)
	go func() {
		chunks <- llm.Chunk{Content: resp.Content}
		close(chunks)
		close(errs)
	}()
	return chunks, errs
}

func TestEngine_Run_BoundsConcurrency(t *testing.T) {
	rows := make([]string, 0, 4)
	for _, id := range []string{"t1", "t2", "t3", "t4"} {
		rows = append(rows, `{"task_id":"`+id+`","question":"q","expected_output":"x"}`)
	}
	datasetPath := writeJSONLFile(t, rows...)
	bench := &JSONLBenchmark{Path: datasetPath}

	gw := &countingGateway{}
	svc := newTestService(t, "unused")
	svc.Deps.LLMs = fakeResolver{gw}

	engine := &Engine{}
	_, err := engine.Run(context.Background(), svc, bench, Config{
		OutputDir:          t.TempDir(),
		MaxConcurrentTasks: 1,
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, gw.maxLive.Load(), int32(1))
}

func TestJSONLBenchmark_MissingFile(t *testing.T) {
	bench := &JSONLBenchmark{Path: "/nonexistent/path.jsonl"}
	_, err := bench.LoadDataset(context.Background())
	assert.Error(t, err)
}

func TestExtractFinalAnswer(t *testing.T) {
	assert.Equal(t, "42", adapter.ExtractFinalAnswer("some reasoning.\nFinal Answer: 42."))
	assert.Equal(t, "paris", adapter.ExtractFinalAnswer("Answer: paris"))
	assert.Equal(t, "7", adapter.ExtractFinalAnswer("the result has 7 widgets"))
	assert.Equal(t, "no markers at all", adapter.ExtractFinalAnswer("no markers at all"))
}
