// Package openai adapts the OpenAI chat-completions API to the llm.Gateway
// interface.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	openailib "github.com/sashabaranov/go-openai"

	"github.com/coragent/coor-agent/coorerr"
	"github.com/coragent/coor-agent/llm"
)

// Config configures a Client.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Client implements llm.Gateway over an OpenAI-compatible endpoint.
type Client struct {
	client *openailib.Client
	config Config
}

// New creates a Client. An empty BaseURL targets the default OpenAI API;
// any OpenAI-compatible endpoint (local, proxied, or another vendor) can
// be used by setting BaseURL.
func New(cfg Config) (*Client, error) {
	if cfg.Model == "" {
		return nil, coorerr.New(coorerr.ValidationError, "OpenAIGateway", "New", "model cannot be empty", nil)
	}

	clientCfg := openailib.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Client{client: openailib.NewClientWithConfig(clientCfg), config: cfg}, nil
}

func (c *Client) ModelName() string { return c.config.Model }

func toOpenAIMessages(msgs []llm.Message) []openailib.ChatCompletionMessage {
	out := make([]openailib.ChatCompletionMessage, len(msgs))
	for i, m := range msgs {
		out[i] = openailib.ChatCompletionMessage{
			Role:    string(m.Role),
			Name:    m.Name,
			Content: m.Content,
		}
	}
	return out
}

func toOpenAITools(specs []llm.ToolSpec) []openailib.Tool {
	if len(specs) == 0 {
		return nil
	}
	out := make([]openailib.Tool, 0, len(specs))
	for _, s := range specs {
		var params any
		_ = json.Unmarshal(s.InputSchema, &params)
		out = append(out, openailib.Tool{
			Type: openailib.ToolTypeFunction,
			Function: &openailib.FunctionDefinition{
				Name:        s.Name,
				Description: s.Description,
				Parameters:  params,
			},
		})
	}
	return out
}

func (c *Client) baseRequest(req llm.Request) openailib.ChatCompletionRequest {
	out := openailib.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    toOpenAIMessages(req.Messages),
		Tools:       toOpenAITools(req.Tools),
		MaxTokens:   c.config.MaxTokens,
		Temperature: float32(c.config.Temperature),
	}
	if len(req.StructuredSchema) > 0 {
		out.ResponseFormat = &openailib.ChatCompletionResponseFormat{
			Type: openailib.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openailib.ChatCompletionResponseFormatJSONSchema{
				Name:   "structured_response",
				Schema: json.RawMessage(req.StructuredSchema),
				Strict: true,
			},
		}
	}
	return out
}

// Generate implements llm.Gateway.
func (c *Client) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	out := c.baseRequest(req)

	resp, err := c.client.CreateChatCompletion(ctx, out)
	if err != nil {
		return llm.Response{}, coorerr.New(coorerr.LMError, "OpenAIGateway", "Generate", "chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return llm.Response{}, coorerr.New(coorerr.LMError, "OpenAIGateway", "Generate", "no choices returned", nil)
	}

	choice := resp.Choices[0]
	result := llm.Response{
		Content:    choice.Message.Content,
		TokensUsed: resp.Usage.TotalTokens,
	}
	for _, tc := range choice.Message.ToolCalls {
		var args map[string]any
		_ = json.Unmarshal([]byte(tc.Function.Arguments), &args)
		result.ToolCalls = append(result.ToolCalls, llm.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}
	return result, nil
}

// GenerateStreaming implements llm.Gateway. Chunks carry incremental
// content; the error channel receives at most one value before closing.
func (c *Client) GenerateStreaming(ctx context.Context, req llm.Request) (<-chan llm.Chunk, <-chan error) {
	chunks := make(chan llm.Chunk)
	errs := make(chan error, 1)

	out := c.baseRequest(req)
	out.Stream = true

	stream, err := c.client.CreateChatCompletionStream(ctx, out)
	if err != nil {
		errs <- coorerr.New(coorerr.LMError, "OpenAIGateway", "GenerateStreaming", "failed to open stream", err)
		close(chunks)
		close(errs)
		return chunks, errs
	}

	go func() {
		defer stream.Close()
		defer close(chunks)
		defer close(errs)

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				errs <- coorerr.New(coorerr.LMError, "OpenAIGateway", "GenerateStreaming", "stream recv failed", err)
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			delta := resp.Choices[0].Delta
			if delta.Content == "" && delta.ReasoningContent == "" {
				continue
			}
			select {
			case chunks <- llm.Chunk{Content: delta.Content, ReasoningContent: delta.ReasoningContent}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return chunks, errs
}
