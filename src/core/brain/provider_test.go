package brain

import (
	"context"
	"strings"
	"testing"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/function"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/function/tools"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/types"

	"github.com/sashabaranov/go-openai"
)

// scriptedLLM replays canned response streams and records the dialogues
// it was asked to complete.
type scriptedLLM struct {
	scripts   [][]types.Response
	dialogues [][]types.Message
}

func (s *scriptedLLM) Initialize() error { return nil }
func (s *scriptedLLM) Cleanup() error    { return nil }

func (s *scriptedLLM) Response(ctx context.Context, sessionID string, messages []types.Message) (<-chan string, error) {
	ch := make(chan string)
	close(ch)
	return ch, nil
}

func (s *scriptedLLM) ResponseWithFunctions(ctx context.Context, sessionID string, messages []types.Message, tools []openai.Tool) (<-chan types.Response, error) {
	s.dialogues = append(s.dialogues, messages)

	script := s.scripts[0]
	if len(s.scripts) > 1 {
		s.scripts = s.scripts[1:]
	}

	ch := make(chan types.Response, len(script))
	for _, chunk := range script {
		ch <- chunk
	}
	close(ch)
	return ch, nil
}

func toolCallChunks(id, name, arguments string) []types.Response {
	// Arguments arrive split across chunks the way real streams send them.
	half := len(arguments) / 2
	return []types.Response{
		{ToolCalls: []types.ToolCall{{ID: id, Type: "function", Index: 0, Function: types.FunctionCall{Name: name}}}},
		{ToolCalls: []types.ToolCall{{Index: 0, Function: types.FunctionCall{Arguments: arguments[:half]}}}},
		{ToolCalls: []types.ToolCall{{Index: 0, Function: types.FunctionCall{Arguments: arguments[half:]}}}},
	}
}

func textChunks(text string) []types.Response {
	return []types.Response{{Content: text}, {StopReason: "stop"}}
}

func newCalculatorRegistry(t *testing.T) *function.Registry {
	t.Helper()
	reg := function.NewRegistry()
	if err := tools.RegisterCalculator(reg); err != nil {
		t.Fatalf("register calculator: %v", err)
	}
	return reg
}

func TestProviderBrainRunsToolLoop(t *testing.T) {
	reg := newCalculatorRegistry(t)
	llm := &scriptedLLM{scripts: [][]types.Response{
		toolCallChunks("call_1", "calculator", `{"query":"2+2"}`),
		textChunks("The answer is 4."),
	}}
	b := NewProviderBrain("groq", llm, reg)

	// The argument key must be the one the schema advertises, or the
	// handler would see an empty expression.
	schema := reg.Definitions()[0].Function.Parameters.(map[string]interface{})
	if _, ok := schema["properties"].(map[string]interface{})["query"]; !ok {
		t.Fatalf("calculator schema does not declare query: %v", schema)
	}

	reply, err := b.Converse(context.Background(), "s1", []types.Message{
		{Role: types.RoleUser, Content: "what is 2+2"},
	})
	if err != nil {
		t.Fatalf("converse: %v", err)
	}
	if reply != "The answer is 4." {
		t.Errorf("reply = %q", reply)
	}

	if len(llm.dialogues) != 2 {
		t.Fatalf("completions = %d, want 2", len(llm.dialogues))
	}
	second := llm.dialogues[1]
	last := second[len(second)-1]
	if last.Role != types.RoleTool || last.Content != "4" || last.ToolCallID != "call_1" {
		t.Errorf("tool observation = %+v", last)
	}
	assistant := second[len(second)-2]
	if assistant.Role != types.RoleAssistant || len(assistant.ToolCalls) != 1 {
		t.Errorf("assistant tool-call message = %+v", assistant)
	}
}

func TestProviderBrainToolFailureBecomesObservation(t *testing.T) {
	reg := function.NewRegistry()
	def := function.NewDefinition("flaky", "always fails")
	err := reg.Register(def, func(ctx context.Context, args map[string]interface{}) (string, error) {
		return "", context.DeadlineExceeded
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	llm := &scriptedLLM{scripts: [][]types.Response{
		toolCallChunks("call_9", "flaky", `{}`),
		textChunks("That did not work, sorry."),
	}}
	b := NewProviderBrain("groq", llm, reg)

	reply, err := b.Converse(context.Background(), "s1", []types.Message{
		{Role: types.RoleUser, Content: "do the thing"},
	})
	if err != nil {
		t.Fatalf("tool failure must not fail the turn: %v", err)
	}
	if reply != "That did not work, sorry." {
		t.Errorf("reply = %q", reply)
	}

	second := llm.dialogues[1]
	observation := second[len(second)-1].Content
	if !strings.Contains(observation, "flaky failed") && !strings.Contains(observation, "Tool flaky failed") {
		t.Errorf("observation = %q", observation)
	}
}

func TestProviderBrainSkipsUnknownTool(t *testing.T) {
	llm := &scriptedLLM{scripts: [][]types.Response{
		{
			{Content: "Sure."},
			{ToolCalls: []types.ToolCall{{ID: "call_2", Type: "function", Index: 0, Function: types.FunctionCall{Name: "no_such_tool", Arguments: "{}"}}}},
		},
	}}
	b := NewProviderBrain("groq", llm, newCalculatorRegistry(t))

	reply, err := b.Converse(context.Background(), "s1", []types.Message{
		{Role: types.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("converse: %v", err)
	}
	if reply != "Sure." {
		t.Errorf("reply = %q", reply)
	}
	if len(llm.dialogues) != 1 {
		t.Errorf("unknown call should not trigger another completion, got %d", len(llm.dialogues))
	}
}

func TestProviderBrainEmptyCompletionIsError(t *testing.T) {
	llm := &scriptedLLM{scripts: [][]types.Response{textChunks("")}}
	b := NewProviderBrain("groq", llm, newCalculatorRegistry(t))

	if _, err := b.Converse(context.Background(), "s1", nil); err == nil {
		t.Fatal("empty completion must error so the chain can fall through")
	}
}

func TestProviderBrainStreamErrorPropagates(t *testing.T) {
	llm := &scriptedLLM{scripts: [][]types.Response{
		{{Error: "401 invalid api key"}},
	}}
	b := NewProviderBrain("groq", llm, newCalculatorRegistry(t))

	if _, err := b.Converse(context.Background(), "s1", nil); err == nil {
		t.Fatal("stream error must surface to the chain")
	}
}
