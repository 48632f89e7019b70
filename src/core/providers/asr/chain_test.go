package asr

import (
	"context"
	"errors"
	"testing"
)

type stubBackend struct {
	*BaseProvider
	text    string
	err     error
	calls   int
	cleaned bool
}

func newStub(text string, err error) *stubBackend {
	return &stubBackend{
		BaseProvider: NewBaseProvider(&Config{Type: "stub"}),
		text:         text,
		err:          err,
	}
}

func (s *stubBackend) Transcribe(ctx context.Context, audio []byte) (string, error) {
	s.calls++
	return s.text, s.err
}

func (s *stubBackend) Cleanup() error {
	s.cleaned = true
	return nil
}

func TestChainReturnsFirstSuccess(t *testing.T) {
	first := newStub("hello there", nil)
	second := newStub("should not run", nil)
	chain := NewChain(nil, first, second)

	got, err := chain.Transcribe(context.Background(), []byte{1, 2})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if got != "hello there" {
		t.Errorf("transcript = %q", got)
	}
	if second.calls != 0 {
		t.Errorf("lower-priority backend was called %d times", second.calls)
	}
}

func TestChainFallsThroughFailures(t *testing.T) {
	failing := newStub("", errors.New("quota exceeded"))
	empty := newStub("   ", nil)
	working := newStub("open the window", nil)
	chain := NewChain(nil, failing, empty, working)

	got, err := chain.Transcribe(context.Background(), []byte{1, 2})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if got != "open the window" {
		t.Errorf("transcript = %q", got)
	}
	if failing.calls != 1 || empty.calls != 1 {
		t.Errorf("backends skipped: failing=%d empty=%d", failing.calls, empty.calls)
	}
}

func TestChainTotalFailureIsSilence(t *testing.T) {
	chain := NewChain(nil,
		newStub("", errors.New("network down")),
		newStub("", errors.New("bad key")),
	)

	got, err := chain.Transcribe(context.Background(), []byte{1, 2})
	if err != nil {
		t.Fatalf("total failure must not surface an error, got %v", err)
	}
	if got != "" {
		t.Errorf("transcript = %q, want empty", got)
	}
}

func TestChainPropagatesLanguage(t *testing.T) {
	first := newStub("x", nil)
	second := newStub("y", nil)
	chain := NewChain(nil, first, second)

	if err := chain.SetLanguage("ta-IN"); err != nil {
		t.Fatalf("set language: %v", err)
	}
	if first.Language() != "ta-IN" || second.Language() != "ta-IN" {
		t.Errorf("languages = %q, %q", first.Language(), second.Language())
	}
}

func TestChainCleanup(t *testing.T) {
	first := newStub("x", nil)
	second := newStub("y", nil)
	chain := NewChain(nil, first, second)

	if err := chain.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if !first.cleaned || !second.cleaned {
		t.Error("cleanup did not reach every backend")
	}
}
