package openai

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/providers/tts"

	"github.com/sashabaranov/go-openai"
)

// Provider synthesizes through the OpenAI speech endpoint. Used when a
// paid key is configured and higher quality is wanted over edge.
type Provider struct {
	*tts.BaseProvider
	client *openai.Client
}

func init() {
	tts.Register("openai", func(config *tts.Config) (tts.Provider, error) {
		return NewProvider(config)
	})
}

// NewProvider creates the OpenAI speech adapter.
func NewProvider(config *tts.Config) (*Provider, error) {
	if config.Voice == "" {
		config.Voice = string(openai.VoiceNova)
	}
	return &Provider{
		BaseProvider: tts.NewBaseProvider(config),
	}, nil
}

// Initialize validates credentials and builds the API client.
func (p *Provider) Initialize() error {
	if err := p.BaseProvider.Initialize(); err != nil {
		return err
	}
	if p.Config().APIKey == "" {
		return fmt.Errorf("missing OpenAI API key for speech")
	}
	p.client = openai.NewClient(p.Config().APIKey)
	return nil
}

// Synthesize returns MP3 audio for the text using the active voice.
func (p *Provider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	model := openai.SpeechModel(p.Config().ModelName)
	if model == "" {
		model = openai.TTSModel1
	}

	resp, err := p.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          model,
		Input:          text,
		Voice:          openai.SpeechVoice(p.Profile().Voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %v", err)
	}
	defer resp.Close()

	audioData, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read openai speech stream: %v", err)
	}

	if path := p.CachePath(); path != "" {
		if err := os.WriteFile(path, audioData, 0644); err != nil {
			return nil, fmt.Errorf("write tts cache file: %v", err)
		}
	}

	return audioData, nil
}
