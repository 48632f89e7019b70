package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/function"
)

// DocumentQuerier answers a natural-language question from the indexed
// document store. Implemented by the RAG store.
type DocumentQuerier interface {
	QueryDocuments(ctx context.Context, query string, limit int) ([]string, error)
}

// RegisterDocumentQuery adds the query_document tool.
func RegisterDocumentQuery(reg *function.Registry, store DocumentQuerier) error {
	def := function.NewDefinition(
		"query_document",
		"Searches the user's indexed documents and returns the passages most relevant to the question. Use this when the user asks about their own files or notes.",
		function.Param{Name: "query", Description: "The question to answer from the documents.", Required: true},
	)
	return reg.Register(def, func(ctx context.Context, args map[string]interface{}) (string, error) {
		query, _ := args["query"].(string)
		if strings.TrimSpace(query) == "" {
			return "", fmt.Errorf("query is empty")
		}

		passages, err := store.QueryDocuments(ctx, query, 3)
		if err != nil {
			return "", err
		}
		if len(passages) == 0 {
			return "No relevant passages found in the indexed documents.", nil
		}
		return strings.Join(passages, "\n---\n"), nil
	})
}
