package configs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsFillFreeTierStack(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Web.Port != 5001 {
		t.Errorf("Web.Port = %d, want 5001", cfg.Web.Port)
	}
	if cfg.DefaultLanguage != "en-IN" {
		t.Errorf("DefaultLanguage = %q", cfg.DefaultLanguage)
	}
	if cfg.SelectedModule["TTS"] != "edge" {
		t.Errorf("SelectedModule[TTS] = %q, want edge", cfg.SelectedModule["TTS"])
	}
	if cfg.SelectedModule["LLM"] != "ddg" {
		t.Errorf("SelectedModule[LLM] = %q, want ddg", cfg.SelectedModule["LLM"])
	}
	if _, ok := cfg.Voices["ta-IN"]; !ok {
		t.Error("default voices missing ta-IN")
	}
	if cfg.DefaultPrompt == "" {
		t.Error("default prompt is empty")
	}
	if len(cfg.CMDExit) == 0 {
		t.Error("no default exit phrases")
	}
}

func TestDefaultsKeepConfiguredValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9001
	cfg.DefaultLanguage = "ta-IN"
	cfg.SelectedModule = map[string]string{"TTS": "openai"}
	cfg.applyDefaults()

	if cfg.Server.Port != 9001 {
		t.Errorf("Server.Port = %d, want 9001", cfg.Server.Port)
	}
	if cfg.DefaultLanguage != "ta-IN" {
		t.Errorf("DefaultLanguage = %q, want ta-IN", cfg.DefaultLanguage)
	}
	if cfg.SelectedModule["TTS"] != "openai" {
		t.Errorf("SelectedModule[TTS] = %q, want openai", cfg.SelectedModule["TTS"])
	}
}

func TestLoadConfigParsesYAML(t *testing.T) {
	dir := t.TempDir()
	data := `
server:
  port: 9000
log:
  log_level: debug
brain_chain: [groq, ddg]
LLM:
  groq:
    type: openai
    model_name: llama-3.3-70b-versatile
    url: https://api.groq.com/openai/v1
    api_key_env: GROQ_API_KEY
voices:
  en-IN:
    voice: en-IN-NeerjaNeural
    rate: "+0%"
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, path, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if path != "config.yaml" {
		t.Errorf("path = %q", path)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if len(cfg.BrainChain) != 2 || cfg.BrainChain[0] != "groq" {
		t.Errorf("BrainChain = %v", cfg.BrainChain)
	}
	if got := cfg.LLM["groq"].APIKeyEnv; got != "GROQ_API_KEY" {
		t.Errorf("APIKeyEnv = %q", got)
	}
	// Defaults still fill the gaps the file leaves.
	if cfg.Web.Port != 5001 {
		t.Errorf("Web.Port = %d, want 5001", cfg.Web.Port)
	}
}

func TestLoadConfigWithoutFileUsesDefaults(t *testing.T) {
	wd, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, path, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if path != "builtin defaults" {
		t.Errorf("path = %q", path)
	}
	if cfg.SelectedModule["ASR"] != "google" {
		t.Errorf("SelectedModule[ASR] = %q, want google", cfg.SelectedModule["ASR"])
	}
}
