package brain

import (
	"context"
	"strings"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/search"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/types"
)

const searchApology = "I could not reach any of my knowledge sources just now. Please try again in a moment."

// SearchBrain is the terminal rung of the chain. It answers with a web
// search summary and never returns an error: when even the search fails
// the reply is a spoken apology.
type SearchBrain struct {
	client *search.Client
}

// NewSearchBrain creates the terminal rung.
func NewSearchBrain(client *search.Client) *SearchBrain {
	if client == nil {
		client = search.NewClient()
	}
	return &SearchBrain{client: client}
}

// Name implements Brain.
func (b *SearchBrain) Name() string {
	return "search"
}

// Converse implements Brain.
func (b *SearchBrain) Converse(ctx context.Context, sessionID string, messages []types.Message) (string, error) {
	query := lastUserMessage(messages)
	if query == "" {
		return searchApology, nil
	}

	results, err := b.client.Text(ctx, query, 4)
	if err != nil || len(results) == 0 {
		return searchApology, nil
	}
	return search.Summarize(results), nil
}

// lastUserMessage walks the dialogue backwards for the turn's question.
func lastUserMessage(messages []types.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == types.RoleUser {
			return strings.TrimSpace(messages[i].Content)
		}
	}
	return ""
}
