package providers

import (
	"context"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/types"
)

// Provider is the base interface shared by every adapter.
type Provider interface {
	Initialize() error
	Cleanup() error
}

// ASRProvider transcribes recorded audio.
type ASRProvider interface {
	Provider
	// Transcribe recognizes a complete utterance. audioData is 16kHz
	// 16-bit mono PCM unless the provider documents otherwise.
	Transcribe(ctx context.Context, audioData []byte) (string, error)
	// SetLanguage switches the recognition language.
	SetLanguage(tag string) error
}

// TTSProvider synthesizes speech.
type TTSProvider interface {
	Provider
	// Synthesize returns MP3 audio for the text.
	Synthesize(ctx context.Context, text string) ([]byte, error)
	// SetVoice swaps the active voice and rate. The swap is atomic: a
	// synthesis in flight keeps the profile it started with.
	SetVoice(voice, rate string) error
}

// LLMProvider generates chat completions.
type LLMProvider interface {
	types.LLMProvider
}

// Message is re-exported for adapter packages.
type Message = types.Message
