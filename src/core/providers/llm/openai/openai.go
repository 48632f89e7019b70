package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/providers/llm"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/types"

	"github.com/sashabaranov/go-openai"
)

// defaultRequestTimeout caps one completion request when the config
// leaves timeout_secs unset.
const defaultRequestTimeout = 60 * time.Second

// Provider streams completions from an OpenAI-compatible endpoint.
type Provider struct {
	*llm.BaseProvider
	client    *openai.Client
	maxTokens int
}

func init() {
	llm.Register("openai", NewProvider)
}

// NewProvider creates the OpenAI-compatible adapter.
func NewProvider(config *llm.Config) (llm.Provider, error) {
	provider := &Provider{
		BaseProvider: llm.NewBaseProvider(config),
		maxTokens:    config.MaxTokens,
	}
	if provider.maxTokens <= 0 {
		provider.maxTokens = 500
	}
	return provider, nil
}

// Initialize validates credentials and builds the API client.
func (p *Provider) Initialize() error {
	config := p.Config()
	if config.APIKey == "" {
		return fmt.Errorf("missing API key for %s", config.ModelName)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	timeout := time.Duration(config.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	// Timeout covers the whole streamed body, so a stalled provider
	// cannot hold a turn open past the deadline.
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	p.client = openai.NewClientWithConfig(clientConfig)
	return nil
}

// Response implements types.LLMProvider.
func (p *Provider) Response(ctx context.Context, sessionID string, messages []types.Message) (<-chan string, error) {
	responseChan := make(chan string, 10)

	go func() {
		defer close(responseChan)

		chatMessages := make([]openai.ChatCompletionMessage, len(messages))
		for i, msg := range messages {
			chatMessages[i] = openai.ChatCompletionMessage{
				Role:    msg.Role,
				Content: msg.Content,
			}
		}

		stream, err := p.client.CreateChatCompletionStream(
			ctx,
			openai.ChatCompletionRequest{
				Model:     p.Config().ModelName,
				Messages:  chatMessages,
				Stream:    true,
				MaxTokens: p.maxTokens,
			},
		)
		if err != nil {
			responseChan <- fmt.Sprintf("[completion failed: %v]", err)
			return
		}
		defer stream.Close()

		isActive := true
		for {
			response, err := stream.Recv()
			if err != nil {
				break
			}

			if len(response.Choices) > 0 {
				content := response.Choices[0].Delta.Content
				if content != "" {
					// Reasoning models wrap deliberation in think tags;
					// those chunks never reach the user.
					if content, isActive = handleThinkTags(content, isActive); content != "" {
						responseChan <- content
					}
				}
			}
		}
	}()

	return responseChan, nil
}

// ResponseWithFunctions implements types.LLMProvider.
func (p *Provider) ResponseWithFunctions(ctx context.Context, sessionID string, messages []types.Message, tools []openai.Tool) (<-chan types.Response, error) {
	responseChan := make(chan types.Response, 10)

	go func() {
		defer close(responseChan)

		chatMessages := make([]openai.ChatCompletionMessage, len(messages))
		for i, msg := range messages {
			chatMessage := openai.ChatCompletionMessage{
				Role:    msg.Role,
				Content: msg.Content,
			}

			if msg.ToolCallID != "" {
				chatMessage.ToolCallID = msg.ToolCallID
			}

			if len(msg.ToolCalls) > 0 {
				openaiToolCalls := make([]openai.ToolCall, len(msg.ToolCalls))
				for j, tc := range msg.ToolCalls {
					openaiToolCalls[j] = openai.ToolCall{
						ID:   tc.ID,
						Type: openai.ToolType(tc.Type),
						Function: openai.FunctionCall{
							Name:      tc.Function.Name,
							Arguments: tc.Function.Arguments,
						},
					}
				}
				chatMessage.ToolCalls = openaiToolCalls
			}

			chatMessages[i] = chatMessage
		}

		stream, err := p.client.CreateChatCompletionStream(
			ctx,
			openai.ChatCompletionRequest{
				Model:    p.Config().ModelName,
				Messages: chatMessages,
				Tools:    tools,
				Stream:   true,
			},
		)
		if err != nil {
			responseChan <- types.Response{
				Content: fmt.Sprintf("[completion failed: %v]", err),
				Error:   err.Error(),
			}
			return
		}
		defer stream.Close()

		for {
			response, err := stream.Recv()
			if err != nil {
				break
			}

			if len(response.Choices) > 0 {
				delta := response.Choices[0].Delta
				chunk := types.Response{
					Content: delta.Content,
				}

				if len(delta.ToolCalls) > 0 {
					toolCalls := make([]types.ToolCall, len(delta.ToolCalls))
					for i, tc := range delta.ToolCalls {
						toolCalls[i] = types.ToolCall{
							ID:   tc.ID,
							Type: string(tc.Type),
							Function: types.FunctionCall{
								Name:      tc.Function.Name,
								Arguments: tc.Function.Arguments,
							},
						}
						if tc.Index != nil {
							toolCalls[i].Index = *tc.Index
						}
					}
					chunk.ToolCalls = toolCalls
				}

				responseChan <- chunk
			}
		}
	}()

	return responseChan, nil
}

// handleThinkTags drops content between <think> and </think> markers.
func handleThinkTags(content string, isActive bool) (string, bool) {
	if content == "" {
		return "", isActive
	}
	if content == "<think>" {
		return "", false
	}
	if content == "</think>" {
		return "", true
	}
	if !isActive {
		return "", isActive
	}
	return content, isActive
}
