package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Result is one web search hit.
type Result struct {
	Title   string
	Snippet string
	URL     string
}

// Client talks to DuckDuckGo's keyless endpoints. It backs the web_search
// and get_latest_news tools and the terminal brain fallback.
type Client struct {
	httpClient *http.Client
	chatURL    string
	answerURL  string
}

// NewClient builds a client with a bounded request timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		chatURL:    "https://duckduckgo.com/duckchat/v1/chat",
		answerURL:  "https://api.duckduckgo.com/",
	}
}

// NewClientWithEndpoints is used by tests to point at a stub server.
func NewClientWithEndpoints(httpClient *http.Client, chatURL, answerURL string) *Client {
	return &Client{httpClient: httpClient, chatURL: chatURL, answerURL: answerURL}
}

// Chat sends a single-shot question to DuckDuckGo AI chat and returns the
// model's reply.
func (c *Client) Chat(ctx context.Context, query string) (string, error) {
	body, err := json.Marshal(map[string]interface{}{
		"model": "gpt-4o-mini",
		"messages": []map[string]string{
			{"role": "user", "content": query},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.chatURL, strings.NewReader(string(body)))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ddg chat status %d", resp.StatusCode)
	}

	// the chat endpoint streams SSE-style "data:" lines
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" || payload == "[DONE]" {
			continue
		}
		var chunk struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			continue
		}
		b.WriteString(chunk.Message)
	}

	reply := strings.TrimSpace(b.String())
	if reply == "" {
		return "", fmt.Errorf("ddg chat returned empty reply")
	}
	return reply, nil
}

// Text runs an instant-answer search and returns up to max results.
func (c *Client) Text(ctx context.Context, query string, max int) ([]Result, error) {
	endpoint := fmt.Sprintf("%s?q=%s&format=json&no_html=1&skip_disambig=1",
		c.answerURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ddg search status %d", resp.StatusCode)
	}

	var payload struct {
		AbstractText   string `json:"AbstractText"`
		AbstractSource string `json:"AbstractSource"`
		AbstractURL    string `json:"AbstractURL"`
		Heading        string `json:"Heading"`
		RelatedTopics  []struct {
			Text     string `json:"Text"`
			FirstURL string `json:"FirstURL"`
		} `json:"RelatedTopics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	var results []Result
	if payload.AbstractText != "" {
		results = append(results, Result{
			Title:   payload.Heading,
			Snippet: payload.AbstractText,
			URL:     payload.AbstractURL,
		})
	}
	for _, topic := range payload.RelatedTopics {
		if topic.Text == "" {
			continue
		}
		title := topic.Text
		if idx := strings.Index(title, " - "); idx > 0 {
			title = title[:idx]
		}
		results = append(results, Result{
			Title:   title,
			Snippet: topic.Text,
			URL:     topic.FirstURL,
		})
		if len(results) >= max {
			break
		}
	}

	if len(results) > max {
		results = results[:max]
	}
	return results, nil
}

// News searches for recent headlines on the topic.
func (c *Client) News(ctx context.Context, topic string, max int) ([]Result, error) {
	if topic == "" {
		topic = "latest technology news India today"
	}
	return c.Text(ctx, topic+" news", max)
}

// Summarize renders results as a spoken-friendly digest.
func Summarize(results []Result) string {
	if len(results) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Here is what I found on the web:\n")
	for _, r := range results {
		snippet := r.Snippet
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		fmt.Fprintf(&b, "- %s: %s\n", r.Title, snippet)
	}
	return strings.TrimRight(b.String(), "\n")
}
