package function

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sashabaranov/go-openai"
)

// ErrToolNotFound is returned by Dispatch when the requested name is not
// registered. The brain skips such calls instead of failing the turn.
var ErrToolNotFound = fmt.Errorf("tool not found")

// HandlerFunc executes a tool with parsed arguments and returns a textual
// observation. Handlers may have arbitrary side effects but must keep
// failures inside their returned error.
type HandlerFunc func(ctx context.Context, args map[string]interface{}) (string, error)

// Tool couples a function-calling schema with its local executable.
type Tool struct {
	Definition openai.Tool
	Handler    HandlerFunc
}

// Param describes one tool parameter for schema construction.
type Param struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

// NewDefinition builds an OpenAI function schema from a flat parameter list.
func NewDefinition(name, description string, params ...Param) openai.Tool {
	properties := make(map[string]interface{}, len(params))
	required := make([]string, 0, len(params))
	for _, p := range params {
		typ := p.Type
		if typ == "" {
			typ = "string"
		}
		properties[p.Name] = map[string]interface{}{
			"type":        typ,
			"description": p.Description,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}

	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters: map[string]interface{}{
				"type":       "object",
				"properties": properties,
				"required":   required,
			},
		},
	}
}

// Registry is the fixed set of named tools the brain may invoke. Built at
// startup; registration after that point is only done by the MCP manager
// when an external server connects.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool under its schema name. Duplicate names are an error.
func (r *Registry) Register(def openai.Tool, handler HandlerFunc) error {
	if def.Function == nil || def.Function.Name == "" {
		return fmt.Errorf("tool definition missing name")
	}
	if handler == nil {
		return fmt.Errorf("tool %s has no handler", def.Function.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := def.Function.Name
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool already registered: %s", name)
	}
	r.tools[name] = Tool{Definition: def, Handler: handler}
	return nil
}

// Unregister removes a tool by name.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; !exists {
		return fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	delete(r.tools, name)
	return nil
}

// Lookup returns the tool registered under the exact name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// Exists reports whether a tool name is registered.
func (r *Registry) Exists(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Definitions returns all schemas, sorted by name so completion requests
// are deterministic.
func (r *Registry) Definitions() []openai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]openai.Tool, 0, len(names))
	for _, name := range names {
		defs = append(defs, r.tools[name].Definition)
	}
	return defs
}

// Dispatch executes the named tool. Handler errors and panics become the
// textual observation so a tool failure never terminates the turn; the only
// error return is ErrToolNotFound for unknown names.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]interface{}) (observation string, err error) {
	tool, ok := r.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	defer func() {
		if rec := recover(); rec != nil {
			observation = fmt.Sprintf("Tool %s failed: %v", name, rec)
			err = nil
		}
	}()

	result, herr := tool.Handler(ctx, args)
	if herr != nil {
		return fmt.Sprintf("Tool %s failed: %v", name, herr), nil
	}
	return result, nil
}
