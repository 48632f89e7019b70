package openai

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/providers/asr"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/utils"

	"github.com/sashabaranov/go-openai"
)

// Provider transcribes with an OpenAI-compatible audio endpoint. Groq's
// whisper-large-v3 uses the same API surface with a different base URL.
type Provider struct {
	*asr.BaseProvider
	client *openai.Client
}

func init() {
	asr.Register("openai", NewProvider)
}

// NewProvider creates the Whisper adapter.
func NewProvider(config *asr.Config) (asr.Provider, error) {
	return &Provider{
		BaseProvider: asr.NewBaseProvider(config),
	}, nil
}

// Initialize validates credentials and builds the API client.
func (p *Provider) Initialize() error {
	config := p.Config()
	if config.APIKey == "" {
		return fmt.Errorf("missing API key for whisper endpoint")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	p.client = openai.NewClientWithConfig(clientConfig)
	return nil
}

// Transcribe sends the utterance as a WAV upload. Raw PCM input is
// wrapped in a RIFF header first.
func (p *Provider) Transcribe(ctx context.Context, audioData []byte) (string, error) {
	if len(audioData) == 0 {
		return "", nil
	}

	wavData := audioData
	if !utils.IsWAV(audioData) {
		wavData = utils.PCMToWAV(audioData, 16000, 1)
	}

	model := p.Config().ModelName
	if model == "" {
		model = openai.Whisper1
	}

	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		FilePath: "utterance.wav",
		Reader:   bytes.NewReader(wavData),
		Language: primarySubtag(p.Language()),
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription: %v", err)
	}

	return strings.TrimSpace(resp.Text), nil
}

// primarySubtag reduces a BCP-47 tag to the bare language whisper expects,
// e.g. en-IN becomes en.
func primarySubtag(tag string) string {
	if idx := strings.IndexByte(tag, '-'); idx > 0 {
		return tag[:idx]
	}
	return tag
}
