package tts

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/providers"
)

// Config configures one synthesis backend.
type Config struct {
	Type      string
	Voice     string
	Rate      string
	ModelName string
	APIKey    string
	CacheDir  string
}

// Provider is the synthesis adapter contract.
type Provider interface {
	providers.TTSProvider
}

// VoiceProfile is the voice plus prosody a synthesis runs with.
type VoiceProfile struct {
	Voice string
	Rate  string
}

// BaseProvider carries the config and active voice profile for concrete
// adapters. The profile is swapped atomically so a synthesis in flight
// keeps the profile it loaded at its start.
type BaseProvider struct {
	config  *Config
	profile atomic.Value // VoiceProfile
}

// NewBaseProvider creates the shared adapter base.
func NewBaseProvider(config *Config) *BaseProvider {
	p := &BaseProvider{config: config}
	p.profile.Store(VoiceProfile{Voice: config.Voice, Rate: config.Rate})
	return p
}

// Config returns the adapter configuration.
func (p *BaseProvider) Config() *Config {
	return p.config
}

// Profile returns the active voice profile.
func (p *BaseProvider) Profile() VoiceProfile {
	return p.profile.Load().(VoiceProfile)
}

// SetVoice swaps the active voice profile. Setting the current profile
// again is a no-op success.
func (p *BaseProvider) SetVoice(voice, rate string) error {
	if voice == "" {
		return fmt.Errorf("empty voice name")
	}
	p.profile.Store(VoiceProfile{Voice: voice, Rate: rate})
	return nil
}

// Initialize creates the cache directory when one is configured.
func (p *BaseProvider) Initialize() error {
	if p.config.CacheDir != "" {
		if err := os.MkdirAll(p.config.CacheDir, 0755); err != nil {
			return fmt.Errorf("create tts cache dir: %v", err)
		}
	}
	return nil
}

// Cleanup removes cached audio files.
func (p *BaseProvider) Cleanup() error {
	if p.config.CacheDir == "" {
		return nil
	}
	matches, err := filepath.Glob(filepath.Join(p.config.CacheDir, "*.mp3"))
	if err != nil {
		return err
	}
	for _, file := range matches {
		os.Remove(file)
	}
	return nil
}

// CachePath returns a unique path for a synthesized file, or empty when
// caching is disabled.
func (p *BaseProvider) CachePath() string {
	if p.config.CacheDir == "" {
		return ""
	}
	return filepath.Join(p.config.CacheDir, fmt.Sprintf("tts_%d.mp3", time.Now().UnixNano()))
}

// Factory builds a synthesis adapter from its config.
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
		return nil, fmt.Errorf("unknown TTS provider: %s", name)
	}

	provider, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create TTS provider %s: %v", name, err)
	}

	if err := provider.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize TTS provider %s: %v", name, err)
	}

	return provider, nil
}
