package asr

import (
	"context"
	"fmt"
	"strings"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/utils"
)

// Chain tries a list of transcription backends in priority order and
// returns the first non-empty transcript. When every backend fails the
// chain returns an empty transcript and no error; the caller treats that
// as "nothing heard" rather than a fault.
type Chain struct {
	providers []Provider
	logger    *utils.Logger
}

// NewChain builds a priority chain over the given backends.
func NewChain(logger *utils.Logger, backends ...Provider) *Chain {
	return &Chain{
		providers: backends,
		logger:    logger,
	}
}

// Initialize initializes every backend.
func (c *Chain) Initialize() error {
	for _, p := range c.providers {
		if err := p.Initialize(); err != nil {
			return err
		}
	}
	return nil
}

// Cleanup cleans up every backend.
func (c *Chain) Cleanup() error {
	var firstErr error
	for _, p := range c.providers {
		if err := p.Cleanup(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SetLanguage propagates the language to every backend.
func (c *Chain) SetLanguage(tag string) error {
	for _, p := range c.providers {
		if err := p.SetLanguage(tag); err != nil {
			return err
		}
	}
	return nil
}

// Transcribe runs the backends in order until one yields a transcript.
func (c *Chain) Transcribe(ctx context.Context, audioData []byte) (string, error) {
	for _, p := range c.providers {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		text, err := p.Transcribe(ctx, audioData)
		if err != nil {
			if c.logger != nil {
				c.logger.Warn(fmt.Sprintf("ASR backend failed, trying next: %v", err))
			}
			continue
		}
		if strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), nil
		}
	}
	return "", nil
}
