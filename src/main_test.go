package main

import (
	"strings"
	"testing"

	"github.com/RSAKTHISABARISH/RubyAI/src/configs"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/function"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/search"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/utils"
)

func newBrainTestEnv(t *testing.T) (*configs.Config, *utils.Logger) {
	t.Helper()

	cfg := &configs.Config{}
	cfg.Log.LogDir = t.TempDir()
	cfg.Log.LogFile = "test.log"
	cfg.Log.LogLevel = "info"

	logger, err := utils.NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	t.Cleanup(func() { logger.Close() })

	return cfg, logger
}

func TestBuildBrainsFailsWhenEveryConfiguredRungSkips(t *testing.T) {
	cfg, logger := newBrainTestEnv(t)
	t.Setenv("RUBY_TEST_UNSET_KEY", "")
	cfg.BrainChain = []string{"groq"}
	cfg.LLM = map[string]configs.LLMConfig{
		"groq": {Type: "openai", ModelName: "llama-3.3-70b-versatile", APIKeyEnv: "RUBY_TEST_UNSET_KEY"},
	}

	_, err := buildBrains(cfg, logger, function.NewRegistry(), search.NewClient())
	if err == nil {
		t.Fatal("a chain where every rung is skipped must fail startup")
	}
	if !strings.Contains(err.Error(), "groq") {
		t.Errorf("error does not name the failed entry: %v", err)
	}
}

func TestBuildBrainsKeylessRungStarts(t *testing.T) {
	cfg, logger := newBrainTestEnv(t)
	cfg.BrainChain = []string{"ddg"}
	cfg.LLM = map[string]configs.LLMConfig{
		"ddg": {Type: "ddg", ModelName: "gpt-4o-mini"},
	}

	chain, err := buildBrains(cfg, logger, function.NewRegistry(), search.NewClient())
	if err != nil {
		t.Fatalf("keyless rung must start without credentials: %v", err)
	}
	if chain == nil {
		t.Fatal("no chain returned")
	}
}

func TestBuildBrainsUnconfiguredChainKeepsSearchRung(t *testing.T) {
	cfg, logger := newBrainTestEnv(t)

	chain, err := buildBrains(cfg, logger, function.NewRegistry(), search.NewClient())
	if err != nil {
		t.Fatalf("an empty brain_chain is not a misconfiguration: %v", err)
	}
	if chain == nil {
		t.Fatal("no chain returned")
	}
}
