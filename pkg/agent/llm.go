// Package agent provides the LLM invocation layer: a provider-neutral client
// interface, bounded retry, a mock client for tests, and a factory that
// caches configured clients per (model, temperature).
package agent

import (
	"devcrew/pkg/agent/llm"
)

// Aliases re-export the llm contract so callers only import this package.
type (
	// CompletionRole represents the role of a message in a conversation.
	CompletionRole = llm.CompletionRole
	// CompletionMessage represents a single message in a completion request.
	CompletionMessage = llm.CompletionMessage
	// CompletionRequest represents a request to generate a completion.
	CompletionRequest = llm.CompletionRequest
	// CompletionResponse represents the model's reply.
	CompletionResponse = llm.CompletionResponse
	// ToolCall represents a structured tool invocation returned by the model.
	ToolCall = llm.ToolCall
	// LLMClient is the completion contract the pipeline consumes.
	LLMClient = llm.LLMClient
)

const (
	// RoleSystem indicates a system message carrying role instructions.
	RoleSystem = llm.RoleSystem
	// RoleUser indicates a message from the user.
	RoleUser = llm.RoleUser
	// RoleAssistant indicates a message from the model.
	RoleAssistant = llm.RoleAssistant
)

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) CompletionMessage {
	return llm.NewSystemMessage(content)
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) CompletionMessage {
	return llm.NewUserMessage(content)
}
