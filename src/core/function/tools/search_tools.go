package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/function"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/search"
)

// RegisterWebSearch adds the keyless web search tool.
func RegisterWebSearch(reg *function.Registry, client *search.Client) error {
	def := function.NewDefinition(
		"web_search",
		"Search the web using DuckDuckGo. Use this to answer questions about current events, facts, or any topic.",
		function.Param{Name: "query", Description: "The search query string.", Required: true},
	)

	return reg.Register(def, func(ctx context.Context, args map[string]interface{}) (string, error) {
		query, _ := args["query"].(string)
		if strings.TrimSpace(query) == "" {
			return "", fmt.Errorf("no search query given")
		}

		results, err := client.Text(ctx, query, 4)
		if err != nil {
			return "", fmt.Errorf("search failed: %v", err)
		}
		if len(results) == 0 {
			return "No search results found for that query.", nil
		}
		return search.Summarize(results), nil
	})
}

// RegisterLatestNews adds the headlines tool.
func RegisterLatestNews(reg *function.Registry, client *search.Client) error {
	def := function.NewDefinition(
		"get_latest_news",
		"Fetches top trending news headlines. Use this when the user asks for the news or what is happening in the world.",
		function.Param{Name: "query", Description: "Optional topic to narrow the headlines."},
	)

	return reg.Register(def, func(ctx context.Context, args map[string]interface{}) (string, error) {
		topic, _ := args["query"].(string)

		results, err := client.News(ctx, topic, 5)
		if err != nil {
			return "", fmt.Errorf("could not fetch news right now: %v", err)
		}
		if len(results) == 0 {
			return "No news found at the moment.", nil
		}

		var b strings.Builder
		b.WriteString("Top News Headlines:\n")
		for _, r := range results {
			snippet := r.Snippet
			if len(snippet) > 100 {
				snippet = snippet[:100]
			}
			fmt.Fprintf(&b, "- %s: %s\n", r.Title, snippet)
		}
		return strings.TrimRight(b.String(), "\n"), nil
	})
}
