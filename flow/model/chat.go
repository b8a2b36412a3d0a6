// Package model defines the provider-neutral chat interface used by LLM
// workflow nodes. Concrete adapters live in the provider subpackages
// (anthropic, openai, google).
package model

import "context"

// ChatModel is the unified chat surface over LLM providers.
//
// Implementations convert the neutral Message format to the provider wire
// format, invoke the provider, and map the response back into ChatOut. They
// must respect context cancellation and deadlines; retry behaviour is left
// to the caller (the workflow engine applies its own retry policy around
// model nodes).
type ChatModel interface {
	// Chat sends the conversation and returns the model's reply. tools may
	// be nil when the model should not call tools.
	Chat(ctx context.Context, messages []Message, tools []ToolSpec) (ChatOut, error)
}

// Message is one turn of an LLM conversation.
type Message struct {
	// Role is one of the Role* constants.
	Role string

	// Content is the message text. May be empty on turns that carry only
	// tool activity.
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ToolSpec describes a tool the model may request. Schema is JSON Schema
// for the tool's input; nil for parameterless tools.
type ToolSpec struct {
	Name        string
	Description string
	Schema      map[string]any
}

// ToolCall is the model's request to invoke a tool.
type ToolCall struct {
	// Name matches a ToolSpec.Name offered in the request.
	Name string

	// Input holds the arguments, shaped by the tool's schema.
	Input map[string]any
}

// ChatOut is a model reply: generated text, tool invocation requests, or
// both.
type ChatOut struct {
	Text      string
	ToolCalls []ToolCall
}
