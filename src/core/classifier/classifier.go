package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/utils"
)

const defaultModel = "facebook/bart-large-mnli"

// UnknownIntent is returned for every request until the model finishes
// warming up, and for requests the model cannot place.
const UnknownIntent = "unknown"

// Labels the classifier chooses between.
var defaultLabels = []string{
	"question",
	"command",
	"smalltalk",
	"web_navigation",
	"media_playback",
}

// Classifier tags a transcript with a coarse intent through the hosted
// zero-shot inference endpoint. The first call to a hosted model can take
// tens of seconds while it loads, so the warm-up runs in the background
// and Classify answers UnknownIntent until it completes. A turn never
// waits on the classifier.
type Classifier struct {
	endpoint string
	apiKey   string
	labels   []string
	client   *http.Client
	logger   *utils.Logger

	ready atomic.Bool
}

// New creates the classifier and starts its warm-up.
func New(model, apiKey string, logger *utils.Logger) *Classifier {
	if model == "" {
		model = defaultModel
	}
	c := &Classifier{
		endpoint: "https://api-inference.huggingface.co/models/" + model,
		apiKey:   apiKey,
		labels:   defaultLabels,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
	go c.warmUp()
	return c
}

// Ready reports whether the model answered the warm-up probe.
func (c *Classifier) Ready() bool {
	return c.ready.Load()
}

func (c *Classifier) warmUp() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := c.infer(ctx, "hello"); err != nil {
		if c.logger != nil {
			c.logger.Warn(fmt.Sprintf("intent classifier warm-up failed: %v", err))
		}
		return
	}
	c.ready.Store(true)
	if c.logger != nil {
		c.logger.Info("intent classifier ready")
	}
}

// Classify returns the intent label for the text.
func (c *Classifier) Classify(ctx context.Context, text string) string {
	if !c.ready.Load() || text == "" {
		return UnknownIntent
	}

	label, err := c.infer(ctx, text)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn(fmt.Sprintf("intent classification failed: %v", err))
		}
		return UnknownIntent
	}
	return label
}

type inferenceResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

func (c *Classifier) infer(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"inputs": text,
		"parameters": map[string]interface{}{
			"candidate_labels": c.labels,
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inference status %d", resp.StatusCode)
	}

	var parsed inferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Labels) == 0 {
		return UnknownIntent, nil
	}
	return parsed.Labels[0], nil
}
