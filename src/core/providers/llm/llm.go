package llm

import (
	"fmt"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/types"
)

// Config configures one chat-completion backend. OpenAI-compatible
// services (OpenAI, Groq, OpenRouter, the HF router) differ only in
// BaseURL, key and model name.
type Config struct {
	Type        string
	ModelName   string
	BaseURL     string
	APIKey      string
	Temperature float64
	MaxTokens   int
	TimeoutSecs int
}

// Provider is the chat-completion adapter contract.
type Provider interface {
	types.LLMProvider
}

// BaseProvider carries the config for concrete adapters.
type BaseProvider struct {
	config *Config
}

// NewBaseProvider creates the shared adapter base.
func NewBaseProvider(config *Config) *BaseProvider {
	return &BaseProvider{config: config}
}

// Config returns the adapter configuration.
func (p *BaseProvider) Config() *Config {
	return p.config
}

// Initialize is a no-op for adapters without setup.
func (p *BaseProvider) Initialize() error {
	return nil
}

// Cleanup is a no-op for adapters without resources.
func (p *BaseProvider) Cleanup() error {
	return nil
}

// Factory builds a chat adapter from its config.
type Factory func(config *Config) (Provider, error)

var factories = make(map[string]Factory)

// Register adds an adapter factory under its type name.
func Register(name string, factory Factory) {
	factories[name] = factory
}

// Create builds and initializes the named adapter.
func Create(name string, config *Config) (Provider, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider: %s", name)
	}

	provider, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider %s: %v", name, err)
	}

	if err := provider.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize LLM provider %s: %v", name, err)
	}

	return provider, nil
}
