package eval

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/coragent/coor-agent/eval/adapter"
	"github.com/coragent/coor-agent/service"
)

// Result is the outcome of one full benchmark run: per-task scores and
// their aggregate, alongside the run's identity and timing.
type Result struct {
	RunID      string    `json:"run_id"`
	Benchmark  string    `json:"benchmark"`
	Version    string    `json:"version"`
	Config     Config    `json:"config"`
	Metrics    Metrics   `json:"metrics"`
	Scores     []Score   `json:"scores"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMS int64     `json:"duration_ms"`
	NumTasks   int       `json:"num_tasks"`
}

// Engine drives a Benchmark's dataset through the Workflow Service with
// bounded concurrency, per-task timeout and retry, then scores and
// persists the run.
type Engine struct{}

// Run loads benchmark's dataset, evaluates every task (subject to
// cfg.Limit) through svc, and returns the aggregated Result. The run
// summary is always persisted; per-task transcripts are persisted only
// when cfg.SaveDetails is set.
func (e *Engine) Run(ctx context.Context, svc *service.Service, benchmark Benchmark, cfg Config) (Result, error) {
	started := time.Now()

	dataset, err := benchmark.LoadDataset(ctx)
	if err != nil {
		return Result{}, err
	}

	tasks := dataset.Tasks
	if cfg.Limit > 0 && cfg.Limit < len(tasks) {
		tasks = tasks[:cfg.Limit]
	}

	store, err := NewResultStore(cfg.outputDir())
	if err != nil {
		return Result{}, err
	}

	runID := fmt.Sprintf("%s-%d", benchmark.Name(), started.Unix())

	scores := make([]Score, len(tasks))
	sem := make(chan struct{}, cfg.maxConcurrentTasks())
	g, gctx := errgroup.WithContext(ctx)

	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()

			scores[i] = e.runTask(gctx, svc, benchmark, task, cfg, store, runID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	metrics := AverageMetrics(scores)
	finished := time.Now()
	result := Result{
		RunID:      runID,
		Benchmark:  benchmark.Name(),
		Version:    benchmark.Version(),
		Config:     cfg,
		Metrics:    metrics,
		Scores:     scores,
		StartedAt:  started,
		FinishedAt: finished,
		DurationMS: finished.Sub(started).Milliseconds(),
		NumTasks:   len(tasks),
	}

	if _, err := store.SaveJSON(runID, result); err != nil {
		return result, err
	}
	_, _ = store.SaveReport(runID, GenerateMarkdownReport(result))

	return result, nil
}

// runTask executes one task with retry/timeout policy from cfg and
// scores the outcome, persisting its transcript when requested.
func (e *Engine) runTask(ctx context.Context, svc *service.Service, benchmark Benchmark, task adapter.Task, cfg Config, store *ResultStore, runID string) Score {
	var resp adapter.TaskResponse
	attempts := 0
	for {
		taskCtx := ctx
		var cancel context.CancelFunc
		if timeout := cfg.timeoutPerTask(); timeout > 0 {
			taskCtx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		}

		var err error
		resp, err = adapter.Run(taskCtx, svc, task, cfg.SaveDetails)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			break
		}

		attempts++
		if !cfg.RetryFailedTasks || attempts > cfg.maxRetries() {
			// resp already carries the last attempt's error, raw output
			// and transcript; keep it rather than recording the bare error.
			if resp.Error == "" {
				resp.Error = err.Error()
			}
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	score := benchmark.ScoreResponse(task, resp)

	if cfg.SaveDetails {
		_, _ = store.SaveTaskTranscript(runID, task.TaskID, Transcript{
			TaskID:   task.TaskID,
			Question: task.Question,
			Response: resp,
			Score:    score,
		})
	}

	return score
}
