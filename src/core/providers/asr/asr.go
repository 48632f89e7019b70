package asr

import (
	"fmt"
	"sync"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/providers"
)

// Config configures one transcription backend.
type Config struct {
	Type      string
	ModelName string
	BaseURL   string
	APIKey    string
	Language  string
}

// Provider is the transcription adapter contract.
type Provider interface {
	providers.ASRProvider
}

// BaseProvider carries the config and active language for concrete adapters.
type BaseProvider struct {
	config *Config

	mu       sync.RWMutex
	language string
}

// NewBaseProvider creates the shared adapter base.
func NewBaseProvider(config *Config) *BaseProvider {
	language := config.Language
	if language == "" {
		language = "en-IN"
	}
	return &BaseProvider{
		config:   config,
		language: language,
	}
}

// Config returns the adapter configuration.
func (p *BaseProvider) Config() *Config {
	return p.config
}

// Language returns the active recognition language.
func (p *BaseProvider) Language() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.language
}

// SetLanguage switches the recognition language.
func (p *BaseProvider) SetLanguage(tag string) error {
	if tag == "" {
		return fmt.Errorf("empty language tag")
	}
	p.mu.Lock()
	p.language = tag
	p.mu.Unlock()
	return nil
}

// Initialize is a no-op for adapters without setup.
func (p *BaseProvider) Initialize() error {
	return nil
}

// Cleanup is a no-op for adapters without resources.
func (p *BaseProvider) Cleanup() error {
	return nil
}

// Factory builds a transcription adapter from its config.
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
		return nil, fmt.Errorf("unknown ASR provider: %s", name)
	}

	provider, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create ASR provider %s: %v", name, err)
	}

	if err := provider.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize ASR provider %s: %v", name, err)
	}

	return provider, nil
}
