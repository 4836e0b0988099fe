// Package gemini provides the Google Gemini client implementation.
package gemini

import (
	"context"

	"google.golang.org/genai"

	"devcrew/pkg/agent/llm"
	"devcrew/pkg/agent/llmerrors"
)

// Client wraps the Google GenAI client to implement llm.LLMClient. The
// underlying client needs a context to construct, so creation is deferred to
// the first Complete call.
type Client struct {
	client *genai.Client
	apiKey string
	model  string
}

// NewClient creates a raw Gemini client; retry is applied at a higher level.
func NewClient(apiKey, model string) llm.LLMClient {
	return &Client{apiKey: apiKey, model: model}
}

// Complete implements llm.LLMClient.
func (c *Client) Complete(ctx context.Context, in llm.CompletionRequest) (llm.CompletionResponse, error) {
	if c.client == nil {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  c.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return llm.CompletionResponse{}, llmerrors.Classify(err)
		}
		c.client = client
	}

	system, rest := llm.SplitSystem(in.Messages)
	contents := make([]*genai.Content, 0, len(rest))
	for i := range rest {
		role := genai.RoleUser
		if rest[i].Role == llm.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: rest[i].Content}},
		})
	}
	if len(contents) == 0 {
		return llm.CompletionResponse{}, llmerrors.New(llmerrors.ErrorTypeBadPrompt, "no user messages in request")
	}

	temperature := in.Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(in.MaxTokens), //nolint:gosec // bounded by config
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return llm.CompletionResponse{}, llmerrors.Classify(err)
	}
	if result == nil || result.Text() == "" {
		return llm.CompletionResponse{}, llmerrors.New(llmerrors.ErrorTypeEmptyResponse, "empty response from Gemini API")
	}

	return llm.CompletionResponse{Content: result.Text()}, nil
}
