package ddg

import (
	"context"
	"fmt"
	"strings"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/providers/llm"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/search"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/types"

	"github.com/sashabaranov/go-openai"
)

// Provider answers through DuckDuckGo's free chat endpoint. It needs no
// credentials, which makes it the keyless rung of the brain chain. The
// endpoint takes a single prompt, so the dialogue is flattened before
// sending.
type Provider struct {
	*llm.BaseProvider
	client *search.Client
}

func init() {
	llm.Register("ddg", NewProvider)
}

// NewProvider creates the DuckDuckGo chat adapter.
func NewProvider(config *llm.Config) (llm.Provider, error) {
	return &Provider{
		BaseProvider: llm.NewBaseProvider(config),
		client:       search.NewClient(),
	}, nil
}

// Response implements types.LLMProvider. The whole answer arrives as one
// chunk since the endpoint is not streamed to us incrementally.
func (p *Provider) Response(ctx context.Context, sessionID string, messages []types.Message) (<-chan string, error) {
	answer, err := p.client.Chat(ctx, flatten(messages))
	if err != nil {
		return nil, fmt.Errorf("ddg chat: %v", err)
	}
	if strings.TrimSpace(answer) == "" {
		return nil, fmt.Errorf("ddg chat returned no answer")
	}

	responseChan := make(chan string, 1)
	responseChan <- answer
	close(responseChan)
	return responseChan, nil
}

// ResponseWithFunctions implements types.LLMProvider. The endpoint cannot
// call tools, so the definitions are ignored and plain content comes back.
func (p *Provider) ResponseWithFunctions(ctx context.Context, sessionID string, messages []types.Message, tools []openai.Tool) (<-chan types.Response, error) {
	answer, err := p.client.Chat(ctx, flatten(messages))
	if err != nil {
		return nil, fmt.Errorf("ddg chat: %v", err)
	}
	if strings.TrimSpace(answer) == "" {
		return nil, fmt.Errorf("ddg chat returned no answer")
	}

	responseChan := make(chan types.Response, 1)
	responseChan <- types.Response{Content: answer, StopReason: "stop"}
	close(responseChan)
	return responseChan, nil
}

// flatten folds the dialogue into a single prompt, keeping the system
// persona and the recent exchange.
func flatten(messages []types.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		switch msg.Role {
		case types.RoleSystem:
			b.WriteString(msg.Content)
			b.WriteString("\n\n")
		case types.RoleUser:
			b.WriteString("User: ")
			b.WriteString(msg.Content)
			b.WriteString("\n")
		case types.RoleAssistant:
			if msg.Content != "" {
				b.WriteString("Assistant: ")
				b.WriteString(msg.Content)
				b.WriteString("\n")
			}
		}
	}
	b.WriteString("Assistant:")
	return b.String()
}
