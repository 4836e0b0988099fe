// Package anthropic provides the Claude client implementation.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"devcrew/pkg/agent/llm"
	"devcrew/pkg/agent/llmerrors"
)

const defaultMaxTokens = 8192

// Client wraps the Anthropic API client to implement llm.LLMClient.
type Client struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewClient creates a raw Claude client; retry is applied at a higher level.
func NewClient(apiKey, model string) llm.LLMClient {
	return &Client{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(model),
	}
}

// Complete implements llm.LLMClient.
func (c *Client) Complete(ctx context.Context, in llm.CompletionRequest) (llm.CompletionResponse, error) {
	system, rest := llm.SplitSystem(in.Messages)
	if len(rest) == 0 {
		return llm.CompletionResponse{}, llmerrors.New(llmerrors.ErrorTypeBadPrompt, "no user messages in request")
	}

	messages := make([]anthropic.MessageParam, 0, len(rest))
	for i := range rest {
		messages = append(messages, anthropic.MessageParam{
			Role:    anthropic.MessageParamRole(rest[i].Role),
			Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(rest[i].Content)},
		})
	}

	maxTokens := in.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   int64(maxTokens),
		Messages:    messages,
		Temperature: anthropic.Float(float64(in.Temperature)),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return llm.CompletionResponse{}, llmerrors.Classify(err)
	}
	if resp == nil || len(resp.Content) == 0 {
		return llm.CompletionResponse{}, llmerrors.New(llmerrors.ErrorTypeEmptyResponse, "empty response from Claude API")
	}

	var out llm.CompletionResponse
	for i := range resp.Content {
		block := &resp.Content[i]
		switch block.Type {
		case "text":
			out.Content += block.AsText().Text
		case "tool_use":
			toolUse := block.AsToolUse()
			var args map[string]any
			if err := json.Unmarshal(toolUse.Input, &args); err != nil {
				return llm.CompletionResponse{}, fmt.Errorf("failed to parse tool input: %w", err)
			}
			out.ToolCalls = append(out.ToolCalls, llm.ToolCall{
				ID:   toolUse.ID,
				Name: toolUse.Name,
				Args: args,
			})
		}
	}

	if out.Content == "" && len(out.ToolCalls) == 0 {
		return llm.CompletionResponse{}, llmerrors.New(llmerrors.ErrorTypeEmptyResponse, "no text content in Claude response")
	}
	return out, nil
}
