package brain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/function"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/providers/llm"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/types"

	"github.com/sashabaranov/go-openai"
)

const (
	// maxToolRounds bounds how many completion/tool cycles one turn may
	// take before the accumulated content is returned as-is.
	maxToolRounds = 4

	// toolTimeout caps a single tool execution.
	toolTimeout = 30 * time.Second
)

// ProviderBrain answers with a chat-completion backend and runs the tool
// loop: when the model requests tool calls they are executed in order,
// their observations go back into the dialogue, and the model completes
// again with the results in view.
type ProviderBrain struct {
	name     string
	provider llm.Provider
	registry *function.Registry
}

// NewProviderBrain wraps a completion backend as a chain rung.
func NewProviderBrain(name string, provider llm.Provider, registry *function.Registry) *ProviderBrain {
	return &ProviderBrain{
		name:     name,
		provider: provider,
		registry: registry,
	}
}

// Name implements Brain.
func (b *ProviderBrain) Name() string {
	return b.name
}

// Converse implements Brain.
func (b *ProviderBrain) Converse(ctx context.Context, sessionID string, messages []types.Message) (string, error) {
	dialogue := make([]types.Message, len(messages))
	copy(dialogue, messages)

	tools := b.registry.Definitions()

	for round := 0; round < maxToolRounds; round++ {
		content, toolCalls, err := b.complete(ctx, sessionID, dialogue, tools)
		if err != nil {
			return "", err
		}

		if len(toolCalls) == 0 {
			if strings.TrimSpace(content) == "" {
				return "", fmt.Errorf("%s returned an empty completion", b.name)
			}
			return content, nil
		}

		dialogue = append(dialogue, types.Message{
			Role:      types.RoleAssistant,
			Content:   content,
			ToolCalls: toolCalls,
		})
		dialogue = append(dialogue, b.executeCalls(ctx, toolCalls)...)
	}

	return "", fmt.Errorf("%s exceeded %d tool rounds", b.name, maxToolRounds)
}

// complete drains one streamed completion, accumulating content and
// assembling tool calls whose arguments arrive across chunks.
func (b *ProviderBrain) complete(ctx context.Context, sessionID string, dialogue []types.Message, tools []openai.Tool) (string, []types.ToolCall, error) {
	stream, err := b.provider.ResponseWithFunctions(ctx, sessionID, dialogue, tools)
	if err != nil {
		return "", nil, err
	}

	var content strings.Builder
	pending := make(map[int]*types.ToolCall)

	for chunk := range stream {
		if chunk.Error != "" {
			return "", nil, errors.New(chunk.Error)
		}
		content.WriteString(chunk.Content)

		for _, tc := range chunk.ToolCalls {
			call, ok := pending[tc.Index]
			if !ok {
				call = &types.ToolCall{Index: tc.Index, Type: "function"}
				pending[tc.Index] = call
			}
			if tc.ID != "" {
				call.ID = tc.ID
			}
			if tc.Type != "" {
				call.Type = tc.Type
			}
			if tc.Function.Name != "" {
				call.Function.Name = tc.Function.Name
			}
			call.Function.Arguments += tc.Function.Arguments
		}
	}

	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	indexes := make([]int, 0, len(pending))
	for idx := range pending {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	// Tool calls the registry does not know are dropped here so the
	// assistant message never references a call that gets no reply.
	calls := make([]types.ToolCall, 0, len(pending))
	for _, idx := range indexes {
		call := pending[idx]
		if !b.registry.Exists(call.Function.Name) {
			continue
		}
		calls = append(calls, *call)
	}
	return content.String(), calls, nil
}

// executeCalls runs the requested tools in order and returns their tool
// messages. A failing tool contributes its failure text as the
// observation instead of aborting the turn.
func (b *ProviderBrain) executeCalls(ctx context.Context, calls []types.ToolCall) []types.Message {
	results := make([]types.Message, 0, len(calls))
	for _, call := range calls {
		observation := b.executeOne(ctx, call)
		results = append(results, types.Message{
			Role:       types.RoleTool,
			Content:    observation,
			ToolCallID: call.ID,
		})
	}
	return results
}

func (b *ProviderBrain) executeOne(ctx context.Context, call types.ToolCall) string {
	args := make(map[string]interface{})
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return fmt.Sprintf("Tool %s failed: invalid arguments: %v", call.Function.Name, err)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, toolTimeout)
	defer cancel()

	observation, err := b.registry.Dispatch(callCtx, call.Function.Name, args)
	if err != nil {
		return fmt.Sprintf("Tool %s failed: %v", call.Function.Name, err)
	}
	return observation
}
