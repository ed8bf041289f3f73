// Package llmtest provides a scriptable llm.Gateway for exercising graph
// nodes and the workflow service without a live model.
package llmtest

import (
	"context"

	"github.com/coragent/coor-agent/llm"
)

// Stub is a test-friendly llm.Gateway whose replies are queued in advance.
// Each call to Generate or GenerateStreaming pops the next queued
// response; if the queue is empty the last response is replayed, which
// keeps tests that don't care about call count short to write.
type Stub struct {
	Name      string
	Responses []llm.Response
	calls     int

	// Requests records every Request passed to Generate/GenerateStreaming,
	// so tests can assert on prompt contents.
	Requests []llm.Request
}

// NewStub returns a Stub that always answers with resp.
func NewStub(resp llm.Response) *Stub {
	return &Stub{Responses: []llm.Response{resp}}
}

// NewSequence returns a Stub that answers with each response in order,
// repeating the last one once exhausted.
func NewSequence(resps ...llm.Response) *Stub {
	return &Stub{Responses: resps}
}

func (s *Stub) ModelName() string {
	if s.Name == "" {
		return "stub-model"
	}
	return s.Name
}

func (s *Stub) next() llm.Response {
	if len(s.Responses) == 0 {
		return llm.Response{}
	}
	idx := s.calls
	if idx >= len(s.Responses) {
		idx = len(s.Responses) - 1
	}
	s.calls++
	return s.Responses[idx]
}

func (s *Stub) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	s.Requests = append(s.Requests, req)
	return s.next(), nil
}

func (s *Stub) GenerateStreaming(ctx context.Context, req llm.Request) (<-chan llm.Chunk, <-chan error) {
	s.Requests = append(s.Requests, req)
	resp := s.next()

	chunks := make(chan llm.Chunk, 1)
	errs := make(chan error, 1)

	go func() {
		defer close(chunks)
		defer close(errs)
		if resp.Content != "" {
			select {
			case chunks <- llm.Chunk{Content: resp.Content}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return chunks, errs
}
