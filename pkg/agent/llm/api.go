// Package llm defines the provider-neutral completion contract shared by the
// agent layer and the provider client implementations.
package llm

import (
	"context"
)

// CompletionRole represents the role of a message in a conversation.
type CompletionRole string

const (
	// RoleSystem indicates a system message carrying role instructions.
	RoleSystem CompletionRole = "system"
	// RoleUser indicates a message from the user.
	RoleUser CompletionRole = "user"
	// RoleAssistant indicates a message from the model.
	RoleAssistant CompletionRole = "assistant"
)

// CompletionMessage represents a single message in a completion request.
type CompletionMessage struct {
	Role    CompletionRole
	Content string
}

// ToolCall represents a structured tool invocation returned by the model.
type ToolCall struct {
	Args map[string]any `json:"args"`
	ID   string         `json:"id"`
	Name string         `json:"name"`
}

// CompletionRequest represents a request to generate a completion.
type CompletionRequest struct {
	Messages    []CompletionMessage
	Temperature float32
	MaxTokens   int
}

// CompletionResponse represents the model's reply.
type CompletionResponse struct {
	Content   string
	ToolCalls []ToolCall
}

// LLMClient is the single contract the pipeline consumes for model
// invocation. Implementations may block for seconds to minutes and may fail
// transiently; retry policy is layered on top, not inside.
type LLMClient interface {
	Complete(ctx context.Context, in CompletionRequest) (CompletionResponse, error)
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) CompletionMessage {
	return CompletionMessage{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) CompletionMessage {
	return CompletionMessage{Role: RoleUser, Content: content}
}

// SplitSystem separates system instructions from conversational messages,
// for providers that take the system prompt as a top-level parameter.
func SplitSystem(messages []CompletionMessage) (system string, rest []CompletionMessage) {
	for i := range messages {
		if messages[i].Role == RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += messages[i].Content
			continue
		}
		rest = append(rest, messages[i])
	}
	return system, rest
}
