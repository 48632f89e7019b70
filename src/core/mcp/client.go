package mcp

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/RSAKTHISABARISH/RubyAI/src/configs"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/utils"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool describes one tool an MCP server exposes.
type Tool struct {
	Name        string
	Description string
	InputSchema ToolInputSchema
}

// ToolInputSchema is the JSON schema of a tool's arguments.
type ToolInputSchema struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
	Required   []string       `json:"required,omitempty"`
}

// Client wraps one MCP server process spoken to over stdio.
type Client struct {
	config *configs.MCPServerConfig
	stdio  *mcpclient.Client
	logger *utils.Logger

	mu         sync.RWMutex
	serverName string
	tools      []Tool
	ready      bool
}

// NewClient spawns the stdio transport for a configured server.
func NewClient(config *configs.MCPServerConfig, logger *utils.Logger) (*Client, error) {
	if config.Command == "" {
		return nil, fmt.Errorf("mcp server %s has no command", config.Name)
	}

	stdio, err := mcpclient.NewStdioMCPClient(config.Command, config.Env, config.Args...)
	if err != nil {
		return nil, fmt.Errorf("spawn mcp server %s: %w", config.Name, err)
	}

	return &Client{
		config: config,
		stdio:  stdio,
		logger: logger,
	}, nil
}

// Start runs the protocol handshake and loads the tool list.
func (c *Client) Start(ctx context.Context) error {
	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    "ruby-assistant",
		Version: "1.0.0",
	}

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	initResult, err := c.stdio.Initialize(initCtx, initRequest)
	if err != nil {
		return fmt.Errorf("initialize mcp server %s: %w", c.config.Name, err)
	}

	c.mu.Lock()
	c.serverName = initResult.ServerInfo.Name
	c.mu.Unlock()

	if err := c.fetchTools(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.ready = true
	c.mu.Unlock()
	return nil
}

func (c *Client) fetchTools(ctx context.Context) error {
	listed, err := c.stdio.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return fmt.Errorf("list tools on %s: %w", c.config.Name, err)
	}

	tools := make([]Tool, 0, len(listed.Tools))
	names := make([]string, 0, len(listed.Tools))
	for _, tool := range listed.Tools {
		required := tool.InputSchema.Required
		if required == nil {
			required = make([]string, 0)
		}
		tools = append(tools, Tool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: ToolInputSchema{
				Type:       tool.InputSchema.Type,
				Properties: tool.InputSchema.Properties,
				Required:   required,
			},
		})
		names = append(names, tool.Name)
	}

	c.mu.Lock()
	c.tools = tools
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.FormatInfo("mcp server %s offers tools: %s", c.config.Name, strings.Join(names, ", "))
	}
	return nil
}

// Stop closes the transport.
func (c *Client) Stop() {
	if c.stdio != nil {
		c.stdio.Close()
	}
	c.mu.Lock()
	c.ready = false
	c.mu.Unlock()
}

// Ready reports whether the handshake completed.
func (c *Client) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Tools returns the server's tool list.
func (c *Client) Tools() []Tool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Tool, len(c.tools))
	copy(out, c.tools)
	return out
}

// CallTool invokes a tool and flattens its content to text.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	callRequest := mcp.CallToolRequest{}
	callRequest.Params.Name = name
	callRequest.Params.Arguments = args

	result, err := c.stdio.CallTool(ctx, callRequest)
	if err != nil {
		return "", fmt.Errorf("call tool %s on %s: %w", name, c.config.Name, err)
	}
	if result == nil || len(result.Content) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(result.Content))
	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			parts = append(parts, textContent.Text)
		} else {
			parts = append(parts, fmt.Sprintf("%v", content))
		}
	}
	return strings.Join(parts, "\n"), nil
}
