package classifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func stubServer(t *testing.T, label string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"labels":["` + label + `","smalltalk"],"scores":[0.92,0.08]}`))
	}))
}

func waitReady(t *testing.T, c *Classifier) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !c.Ready() {
		if time.Now().After(deadline) {
			t.Fatal("classifier never became ready")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestClassifyBeforeReady(t *testing.T) {
	// No warm-up has happened; the endpoint does not even exist.
	c := &Classifier{
		endpoint: "http://127.0.0.1:1/models/none",
		labels:   defaultLabels,
		client:   &http.Client{Timeout: time.Second},
	}
	if got := c.Classify(context.Background(), "play a song"); got != UnknownIntent {
		t.Errorf("intent = %q, want %q", got, UnknownIntent)
	}
}

func TestClassifyAfterWarmUp(t *testing.T) {
	server := stubServer(t, "media_playback")
	defer server.Close()

	c := &Classifier{
		endpoint: server.URL,
		labels:   defaultLabels,
		client:   server.Client(),
	}
	go c.warmUp()
	waitReady(t, c)

	if got := c.Classify(context.Background(), "play despacito"); got != "media_playback" {
		t.Errorf("intent = %q", got)
	}
}

func TestClassifyEmptyText(t *testing.T) {
	server := stubServer(t, "question")
	defer server.Close()

	c := &Classifier{
		endpoint: server.URL,
		labels:   defaultLabels,
		client:   server.Client(),
	}
	go c.warmUp()
	waitReady(t, c)

	if got := c.Classify(context.Background(), ""); got != UnknownIntent {
		t.Errorf("intent = %q, want %q", got, UnknownIntent)
	}
}
