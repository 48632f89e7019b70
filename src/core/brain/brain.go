package brain

import (
	"context"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/types"
)

// Brain produces the assistant's reply for one turn. Implementations may
// call tools while forming the answer.
type Brain interface {
	// Name identifies the rung for logging.
	Name() string
	// Converse returns the final spoken reply for the dialogue. A brain
	// that cannot answer returns an error so the chain can move on.
	Converse(ctx context.Context, sessionID string, messages []types.Message) (string, error)
}
