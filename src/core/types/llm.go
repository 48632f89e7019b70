package types

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// ActivityState is the coarse human-readable label describing what the
// assistant is currently doing. Written only by the session orchestrator,
// read by the transports for display.
type ActivityState string

const (
	StateIdle      ActivityState = "Idle"
	StateListening ActivityState = "Listening"
	StateThinking  ActivityState = "Thinking"
	StateSpeaking  ActivityState = "Speaking"
	StateError     ActivityState = "Error"
)

// Message roles, mirroring the chat-completion taxonomy.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one element of the conversation history.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a provider-requested tool invocation. Index identifies the
// call while its arguments stream in across chunks.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Index    int          `json:"index"`
	Function FunctionCall `json:"function"`
}

// FunctionCall carries the tool name and its raw JSON arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Response is one chunk of a streamed LLM completion.
type Response struct {
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	StopReason string     `json:"stop_reason,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// Provider is the base lifecycle contract every adapter implements.
type Provider interface {
	Initialize() error
	Cleanup() error
}

// LLMProvider is the chat-completion adapter contract.
type LLMProvider interface {
	Provider
	Response(ctx context.Context, sessionID string, messages []Message) (<-chan string, error)
	ResponseWithFunctions(ctx context.Context, sessionID string, messages []Message, tools []openai.Tool) (<-chan Response, error)
}
