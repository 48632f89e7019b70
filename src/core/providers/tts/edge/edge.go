package edge

import (
	"context"
	"fmt"
	"os"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/providers/tts"

	"github.com/wujunwei928/edge-tts-go/edge_tts"
)

// Provider synthesizes through Microsoft Edge's free TTS service. No
// credentials needed; this is the default speech backend.
type Provider struct {
	*tts.BaseProvider
}

func init() {
	tts.Register("edge", func(config *tts.Config) (tts.Provider, error) {
		return NewProvider(config)
	})
}

// NewProvider creates the edge adapter.
func NewProvider(config *tts.Config) (*Provider, error) {
	if config.Voice == "" {
		config.Voice = "en-IN-NeerjaNeural"
	}
	return &Provider{
		BaseProvider: tts.NewBaseProvider(config),
	}, nil
}

// Synthesize returns MP3 audio for the text using the active profile.
// The 24kHz MP3 stream comes back in one buffer.
func (p *Provider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	profile := p.Profile()

	connOptions := []edge_tts.CommunicateOption{
		edge_tts.SetVoice(profile.Voice),
	}
	if profile.Rate != "" {
		connOptions = append(connOptions, edge_tts.SetRate(profile.Rate))
	}

	conn, err := edge_tts.NewCommunicate(text, connOptions...)
	if err != nil {
		return nil, fmt.Errorf("edge tts connect: %v", err)
	}

	audioData, err := conn.Stream()
	if err != nil {
		return nil, fmt.Errorf("edge tts stream: %v", err)
	}
	if len(audioData) == 0 {
		return nil, fmt.Errorf("edge tts produced no audio")
	}

	if path := p.CachePath(); path != "" {
		if err := os.WriteFile(path, audioData, 0644); err != nil {
			return nil, fmt.Errorf("write tts cache file: %v", err)
		}
	}

	return audioData, nil
}
