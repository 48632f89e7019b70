package brain

import (
	"context"
	"fmt"
	"time"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/types"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/utils"
)

// defaultRungTimeout bounds a single rung's completion. A hung provider
// must fall through to the next rung, not stall the turn.
const defaultRungTimeout = 60 * time.Second

// Chain tries brains in priority order until one produces a reply. The
// usual layout is a configured API backend, then the keyless chat
// endpoint, then the search summary rung which cannot fail; with that
// terminal rung in place Invoke always returns something speakable.
type Chain struct {
	brains      []Brain
	logger      *utils.Logger
	rungTimeout time.Duration
}

// NewChain builds the fallback chain.
func NewChain(logger *utils.Logger, brains ...Brain) *Chain {
	return &Chain{
		brains:      brains,
		logger:      logger,
		rungTimeout: defaultRungTimeout,
	}
}

// SetRungTimeout overrides the per-rung deadline. Zero and negative
// values are ignored.
func (c *Chain) SetRungTimeout(d time.Duration) {
	if d > 0 {
		c.rungTimeout = d
	}
}

// Invoke produces the turn's reply and reports which rung answered.
func (c *Chain) Invoke(ctx context.Context, sessionID string, messages []types.Message) (string, string, error) {
	if len(c.brains) == 0 {
		return "", "", fmt.Errorf("brain chain is empty")
	}

	var lastErr error
	for _, b := range c.brains {
		if err := ctx.Err(); err != nil {
			return "", "", err
		}

		// Each rung gets its own deadline derived from the turn context,
		// so one timed-out rung does not poison the ones after it.
		rungCtx, cancel := context.WithTimeout(ctx, c.rungTimeout)
		reply, err := b.Converse(rungCtx, sessionID, messages)
		cancel()
		if err != nil {
			lastErr = err
			if c.logger != nil {
				c.logger.Warn(fmt.Sprintf("brain %s failed, trying next: %v", b.Name(), err))
			}
			continue
		}
		return reply, b.Name(), nil
	}

	return "", "", fmt.Errorf("every brain failed, last error: %v", lastErr)
}
