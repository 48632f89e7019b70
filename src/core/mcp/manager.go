package mcp

import (
	"context"
	"fmt"

	"github.com/RSAKTHISABARISH/RubyAI/src/configs"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/function"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/utils"

	"github.com/sashabaranov/go-openai"
)

// Manager connects the configured MCP servers and merges their tools
// into the shared registry under an mcp_ prefix, so the brain treats
// them exactly like builtins.
type Manager struct {
	config   *configs.MCPConfig
	registry *function.Registry
	logger   *utils.Logger

	clients    []*Client
	registered []string
}

// NewManager creates the manager; nothing connects until Start.
func NewManager(config *configs.MCPConfig, registry *function.Registry, logger *utils.Logger) *Manager {
	return &Manager{
		config:   config,
		registry: registry,
		logger:   logger,
	}
}

// Start connects every configured server. One server failing does not
// stop the others.
func (m *Manager) Start(ctx context.Context) error {
	for i := range m.config.Servers {
		serverConfig := &m.config.Servers[i]

		client, err := NewClient(serverConfig, m.logger)
		if err != nil {
			m.warn(fmt.Sprintf("mcp server %s unavailable: %v", serverConfig.Name, err))
			continue
		}
		if err := client.Start(ctx); err != nil {
			m.warn(fmt.Sprintf("mcp server %s failed to start: %v", serverConfig.Name, err))
			client.Stop()
			continue
		}

		m.clients = append(m.clients, client)
		m.registerTools(client)
	}
	return nil
}

// Stop disconnects every server and removes its tools from the registry.
func (m *Manager) Stop() {
	for _, name := range m.registered {
		m.registry.Unregister(name)
	}
	m.registered = nil

	for _, client := range m.clients {
		client.Stop()
	}
	m.clients = nil
}

func (m *Manager) registerTools(client *Client) {
	for _, tool := range client.Tools() {
		tool := tool
		name := "mcp_" + tool.Name

		def := openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        name,
				Description: tool.Description,
				Parameters: map[string]interface{}{
					"type":       tool.InputSchema.Type,
					"properties": tool.InputSchema.Properties,
					"required":   tool.InputSchema.Required,
				},
			},
		}

		handler := func(ctx context.Context, args map[string]interface{}) (string, error) {
			return client.CallTool(ctx, tool.Name, args)
		}

		if err := m.registry.Register(def, handler); err != nil {
			m.warn(fmt.Sprintf("skipping mcp tool %s: %v", name, err))
			continue
		}
		m.registered = append(m.registered, name)
	}
}

func (m *Manager) warn(msg string) {
	if m.logger != nil {
		m.logger.Warn(msg)
	}
}
