package configs

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the main configuration tree, loaded from .config.yaml or
// config.yaml. Secrets (API keys, DSNs) come from the environment.
type Config struct {
	Server struct {
		IP   string `yaml:"ip"`
		Port int    `yaml:"port"`
		Auth struct {
			Enabled bool   `yaml:"enabled"`
			Secret  string `yaml:"secret"`
		} `yaml:"auth"`
	} `yaml:"server"`

	Log struct {
		LogLevel string `yaml:"log_level"`
		LogDir   string `yaml:"log_dir"`
		LogFile  string `yaml:"log_file"`
	} `yaml:"log"`

	Web struct {
		Enabled   bool   `yaml:"enabled"`
		Port      int    `yaml:"port"`
		StaticDir string `yaml:"static_dir"`
		Websocket string `yaml:"websocket"`
	} `yaml:"web"`

	Tunnel struct {
		Enabled bool   `yaml:"enabled"`
		Command string `yaml:"command"` // "lt" or "ngrok"
	} `yaml:"tunnel"`

	DefaultPrompt string `yaml:"prompt"`

	// SelectedModule picks the active provider per adapter, e.g.
	// {ASR: chain, LLM: groq, TTS: edge}.
	SelectedModule map[string]string `yaml:"selected_module"`

	ASR map[string]ASRConfig `yaml:"ASR"`
	TTS map[string]TTSConfig `yaml:"TTS"`
	LLM map[string]LLMConfig `yaml:"LLM"`

	// BrainChain is the fallback order of LLM entries tried per turn.
	// The last entry must be a provider that cannot fail.
	BrainChain []string `yaml:"brain_chain"`

	// ASRChain is the transcription backend priority order.
	ASRChain []string `yaml:"asr_chain"`

	DefaultLanguage string                  `yaml:"default_language"`
	Voices          map[string]VoiceProfile `yaml:"voices"`

	Tools ToolsConfig `yaml:"tools"`

	RAG RAGConfig `yaml:"rag"`

	Classifier ClassifierConfig `yaml:"classifier"`

	MCP MCPConfig `yaml:"mcp"`

	CMDExit []string `yaml:"CMD_exit"`
}

// ASRConfig configures one transcription backend.
type ASRConfig struct {
	Type      string `yaml:"type"`
	ModelName string `yaml:"model_name,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
}

// TTSConfig configures one synthesis backend.
type TTSConfig struct {
	Type      string `yaml:"type"`
	Voice     string `yaml:"voice,omitempty"`
	ModelName string `yaml:"model_name,omitempty"`
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
	CacheDir  string `yaml:"cache_dir,omitempty"`
}

// LLMConfig configures one brain backend. OpenAI-compatible providers
// (OpenAI, Groq, OpenRouter, the HF router) differ only in BaseURL and key.
type LLMConfig struct {
	Type        string  `yaml:"type"`
	ModelName   string  `yaml:"model_name"`
	BaseURL     string  `yaml:"url,omitempty"`
	APIKeyEnv   string  `yaml:"api_key_env,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty"`
	MaxTokens   int     `yaml:"max_tokens,omitempty"`
	TimeoutSecs int     `yaml:"timeout_secs,omitempty"`
}

// VoiceProfile pairs a language tag with a synthesis voice.
type VoiceProfile struct {
	Voice string `yaml:"voice"`
	Rate  string `yaml:"rate"`
}

// ToolsConfig toggles builtin tools and carries their knobs.
type ToolsConfig struct {
	Disabled   []string `yaml:"disabled"`
	SerialPort string   `yaml:"serial_port"`
	SerialBaud int      `yaml:"serial_baud"`
}

// RAGConfig configures the document store behind query_document.
type RAGConfig struct {
	Enabled        bool   `yaml:"enabled"`
	QdrantAddr     string `yaml:"qdrant_addr"`
	Collection     string `yaml:"collection"`
	EmbeddingModel string `yaml:"embedding_model"`
	APIKeyEnv      string `yaml:"api_key_env"`
}

// ClassifierConfig configures the lazily-initialized intent classifier.
type ClassifierConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// MCPConfig lists external MCP servers whose tools join the registry.
type MCPConfig struct {
	Servers []MCPServerConfig `yaml:"servers"`
}

// MCPServerConfig describes one MCP server process.
type MCPServerConfig struct {
	Name    string   `yaml:"name"`
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	Env     []string `yaml:"env"`
}

// LoadConfig reads the config file, preferring .config.yaml over
// config.yaml, and applies defaults for anything left unset.
func LoadConfig() (*Config, string, error) {
	path := ".config.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path = "config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file: run on the built-in free-tier stack.
			config := &Config{}
			config.applyDefaults()
			return config, "builtin defaults", nil
		}
		return nil, path, err
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, path, err
	}

	config.applyDefaults()
	return config, path, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Web.Port == 0 {
		c.Web.Port = 5001
	}
	if c.Log.LogDir == "" {
		c.Log.LogDir = "logs"
	}
	if c.Log.LogFile == "" {
		c.Log.LogFile = "ruby.log"
	}
	if c.Log.LogLevel == "" {
		c.Log.LogLevel = "info"
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = "en-IN"
	}
	if len(c.SelectedModule) == 0 {
		c.SelectedModule = map[string]string{"ASR": "google", "LLM": "ddg", "TTS": "edge"}
	}
	if len(c.ASR) == 0 {
		c.ASR = map[string]ASRConfig{"google": {Type: "google"}}
	}
	if len(c.LLM) == 0 {
		c.LLM = map[string]LLMConfig{"ddg": {Type: "ddg", ModelName: "gpt-4o-mini"}}
	}
	if len(c.TTS) == 0 {
		c.TTS = map[string]TTSConfig{"edge": {Type: "edge", CacheDir: "cache/tts"}}
	}
	if len(c.Voices) == 0 {
		c.Voices = map[string]VoiceProfile{
			"en-IN": {Voice: "en-IN-NeerjaNeural", Rate: "+0%"},
			"ta-IN": {Voice: "ta-IN-PallaviNeural", Rate: "+0%"},
			"ml-IN": {Voice: "ml-IN-SobhanaNeural", Rate: "+0%"},
			"hi-IN": {Voice: "hi-IN-SwaraNeural", Rate: "+0%"},
		}
	}
	if len(c.CMDExit) == 0 {
		c.CMDExit = []string{"goodbye ruby", "shut down ruby", "exit"}
	}
	if c.Tools.SerialBaud == 0 {
		c.Tools.SerialBaud = 9600
	}
	if c.RAG.Collection == "" {
		c.RAG.Collection = "ruby_documents"
	}
	if c.RAG.EmbeddingModel == "" {
		c.RAG.EmbeddingModel = "text-embedding-3-small"
	}
	if c.DefaultPrompt == "" {
		c.DefaultPrompt = defaultSystemPrompt
	}
}
