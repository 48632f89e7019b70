package brain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/types"
)

type stubBrain struct {
	name  string
	reply string
	err   error
	calls int
}

func (s *stubBrain) Name() string { return s.name }

func (s *stubBrain) Converse(ctx context.Context, sessionID string, messages []types.Message) (string, error) {
	s.calls++
	return s.reply, s.err
}

func TestChainUsesFirstWorkingBrain(t *testing.T) {
	primary := &stubBrain{name: "groq", reply: "from groq"}
	fallback := &stubBrain{name: "ddg", reply: "from ddg"}
	chain := NewChain(nil, primary, fallback)

	reply, source, err := chain.Invoke(context.Background(), "s1", []types.Message{
		{Role: types.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if reply != "from groq" || source != "groq" {
		t.Errorf("reply=%q source=%q", reply, source)
	}
	if fallback.calls != 0 {
		t.Errorf("fallback consulted %d times", fallback.calls)
	}
}

func TestChainFallsThroughAllThreeRungs(t *testing.T) {
	api := &stubBrain{name: "groq", err: errors.New("401 unauthorized")}
	free := &stubBrain{name: "ddg", err: errors.New("rate limited")}
	terminal := &stubBrain{name: "search", reply: "Here is what I found on the web:\n- Go: a language"}
	chain := NewChain(nil, api, free, terminal)

	reply, source, err := chain.Invoke(context.Background(), "s1", []types.Message{
		{Role: types.RoleUser, Content: "what is go"},
	})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if source != "search" {
		t.Errorf("source = %q", source)
	}
	if reply == "" {
		t.Error("terminal rung returned nothing")
	}
	if api.calls != 1 || free.calls != 1 {
		t.Errorf("rung calls: api=%d free=%d", api.calls, free.calls)
	}
}

func TestChainAllFailing(t *testing.T) {
	chain := NewChain(nil,
		&stubBrain{name: "a", err: errors.New("down")},
		&stubBrain{name: "b", err: errors.New("also down")},
	)

	_, _, err := chain.Invoke(context.Background(), "s1", nil)
	if err == nil {
		t.Fatal("expected an error when no rung answers")
	}
}

// hangingBrain never answers on its own; it only returns once its
// context is done, the way a stuck provider behaves.
type hangingBrain struct {
	name string
	err  error
}

func (h *hangingBrain) Name() string { return h.name }

func (h *hangingBrain) Converse(ctx context.Context, sessionID string, messages []types.Message) (string, error) {
	<-ctx.Done()
	h.err = ctx.Err()
	return "", ctx.Err()
}

func TestChainHungRungTimesOutAndFallsThrough(t *testing.T) {
	hung := &hangingBrain{name: "groq"}
	fallback := &stubBrain{name: "ddg", reply: "from ddg"}
	chain := NewChain(nil, hung, fallback)
	chain.SetRungTimeout(20 * time.Millisecond)

	reply, source, err := chain.Invoke(context.Background(), "s1", []types.Message{
		{Role: types.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if reply != "from ddg" || source != "ddg" {
		t.Errorf("reply=%q source=%q", reply, source)
	}
	if !errors.Is(hung.err, context.DeadlineExceeded) {
		t.Errorf("hung rung saw %v, want deadline exceeded", hung.err)
	}
}

func TestChainHonorsCancellation(t *testing.T) {
	brain := &stubBrain{name: "a", reply: "x"}
	chain := NewChain(nil, brain)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := chain.Invoke(ctx, "s1", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if brain.calls != 0 {
		t.Error("brain ran after cancellation")
	}
}

func TestSearchBrainNeverFails(t *testing.T) {
	// Unreachable endpoint: the rung must still answer.
	b := NewSearchBrain(nil)
	reply, err := b.Converse(context.Background(), "s1", nil)
	if err != nil {
		t.Fatalf("terminal rung errored: %v", err)
	}
	if reply == "" {
		t.Error("terminal rung returned nothing")
	}
}
