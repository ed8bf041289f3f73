// Package anthropic adapts the Anthropic Messages API to the llm.Gateway
// interface, using the official github.com/anthropics/anthropic-sdk-go
// client.
package anthropic

import (
	"context"
	"encoding/json"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/coragent/coor-agent/coorerr"
	"github.com/coragent/coor-agent/llm"
)

// Config configures a Client.
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int64
	Temperature float64
}

// Client implements llm.Gateway over the Anthropic Messages API.
type Client struct {
	msg    sdk.MessageService
	config Config
}

// New builds a Client from an API key and model identifier.
func New(cfg Config) (*Client, error) {
	if cfg.Model == "" {
		return nil, coorerr.New(coorerr.ValidationError, "AnthropicGateway", "New", "model cannot be empty", nil)
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 4096
	}

	ac := sdk.NewClient(option.WithAPIKey(cfg.APIKey))
	return &Client{msg: ac.Messages, config: cfg}, nil
}

func (c *Client) ModelName() string { return c.config.Model }

func toAnthropicMessages(msgs []llm.Message) ([]sdk.MessageParam, string) {
	var system string
	out := make([]sdk.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case llm.RoleSystem:
			system += m.Content + "\n"
		case llm.RoleUser:
			out = append(out, sdk.NewUserMessage(sdk.NewTextBlock(m.Content)))
		default:
			out = append(out, sdk.NewAssistantMessage(sdk.NewTextBlock(m.Content)))
		}
	}
	return out, system
}

func toAnthropicTools(specs []llm.ToolSpec) []sdk.ToolUnionParam {
	if len(specs) == 0 {
		return nil
	}
	out := make([]sdk.ToolUnionParam, 0, len(specs))
	for _, s := range specs {
		var schema map[string]any
		_ = json.Unmarshal(s.InputSchema, &schema)
		out = append(out, sdk.ToolUnionParam{
			OfTool: &sdk.ToolParam{
				Name:        s.Name,
				Description: sdk.String(s.Description),
				InputSchema: sdk.ToolInputSchemaParam{
					Properties: schema["properties"],
				},
			},
		})
	}
	return out
}

func (c *Client) params(req llm.Request) sdk.MessageNewParams {
	msgs, system := toAnthropicMessages(req.Messages)
	p := sdk.MessageNewParams{
		Model:     sdk.Model(c.config.Model),
		MaxTokens: c.config.MaxTokens,
		Messages:  msgs,
	}
	if len(req.StructuredSchema) > 0 {
		// The Messages API has no response_format parameter; constrain the
		// reply through the system prompt instead.
		system += "\nRespond with a single JSON object conforming to this JSON Schema, no surrounding prose:\n" + string(req.StructuredSchema) + "\n"
	}
	if system != "" {
		p.System = []sdk.TextBlockParam{{Text: system}}
	}
	if tools := toAnthropicTools(req.Tools); len(tools) > 0 {
		p.Tools = tools
	}
	if c.config.Temperature > 0 {
		p.Temperature = sdk.Float(c.config.Temperature)
	}
	return p
}

// Generate implements llm.Gateway.
func (c *Client) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	msg, err := c.msg.New(ctx, c.params(req))
	if err != nil {
		return llm.Response{}, coorerr.New(coorerr.LMError, "AnthropicGateway", "Generate", "messages.new failed", err)
	}

	var result llm.Response
	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case sdk.TextBlock:
			result.Content += b.Text
		case sdk.ToolUseBlock:
			var args map[string]any
			_ = json.Unmarshal(b.Input, &args)
			result.ToolCalls = append(result.ToolCalls, llm.ToolCall{
				ID:        b.ID,
				Name:      b.Name,
				Arguments: args,
			})
		}
	}
	result.TokensUsed = int(msg.Usage.InputTokens + msg.Usage.OutputTokens)
	return result, nil
}

// GenerateStreaming implements llm.Gateway.
func (c *Client) GenerateStreaming(ctx context.Context, req llm.Request) (<-chan llm.Chunk, <-chan error) {
	chunks := make(chan llm.Chunk)
	errs := make(chan error, 1)

	params := c.params(req)

	go func() {
		defer close(chunks)
		defer close(errs)

		stream := c.msg.NewStreaming(ctx, params)
		defer stream.Close()

		for stream.Next() {
			event := stream.Current()
			switch ev := event.AsAny().(type) {
			case sdk.ContentBlockDeltaEvent:
				switch delta := ev.Delta.AsAny().(type) {
				case sdk.TextDelta:
					if delta.Text == "" {
						continue
					}
					select {
					case chunks <- llm.Chunk{Content: delta.Text}:
					case <-ctx.Done():
						return
					}
				case sdk.ThinkingDelta:
					if delta.Thinking == "" {
						continue
					}
					select {
					case chunks <- llm.Chunk{ReasoningContent: delta.Thinking}:
					case <-ctx.Done():
						return
					}
				}
			}
		}
		if err := stream.Err(); err != nil {
			errs <- coorerr.New(coorerr.LMError, "AnthropicGateway", "GenerateStreaming", "stream failed", err)
		}
	}()

	return chunks, errs
}
