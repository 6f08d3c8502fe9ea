package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"market-analyst/internal/charts"
	apperrors "market-analyst/internal/errors"
)

// ToolResult is the unified result record of every tool: display text
// fed back to the reasoning engine, plus an optional chart artifact
// delivered out-of-band.
type ToolResult struct {
	Text     string
	Artifact *charts.Artifact
}

// Handler executes one tool invocation. Provider faults are caught
// inside the handler and returned as result text; an error return
// signals a malformed input (a dispatch fault).
type Handler func(ctx context.Context, args json.RawMessage) (*ToolResult, error)

// ToolSpec describes one registered tool: its name, the description
// the reasoning engine uses to decide relevance, and its input
// schema. Handlers are never exposed through specs.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

type registeredTool struct {
	spec    ToolSpec
	handler Handler
}

// Registry maps tool names to their specs and handlers. It is
// populated once at startup and never mutated afterwards, so no
// locking is needed during turn execution.
type Registry struct {
	order []string
	tools map[string]*registeredTool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*registeredTool)}
}

// Register adds a tool to the registry. Registering a name twice is
// an error.
func (r *Registry) Register(name, description string, parameters json.RawMessage, h Handler) error {
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicateTool, name)
	}
	r.tools[name] = &registeredTool{
		spec: ToolSpec{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
		handler: h,
	}
	r.order = append(r.order, name)
	return nil
}

// MustRegister registers a tool and panics on a duplicate name. Used
// only during startup wiring, where a duplicate is a programming error.
func (r *Registry) MustRegister(name, description string, parameters json.RawMessage, h Handler) {
	if err := r.Register(name, description, parameters, h); err != nil {
		panic(err)
	}
}

// Resolve returns the handler for a tool name.
func (r *Registry) Resolve(name string) (Handler, error) {
	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownTool, name)
	}
	return tool.handler, nil
}

// Specs returns the registered tool specs in registration order.
func (r *Registry) Specs() []ToolSpec {
	specs := make([]ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.tools[name].spec)
	}
	return specs
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Definitions serializes the tool specs for the reasoning engine.
func (r *Registry) Definitions() []openai.Tool {
	defs := make([]openai.Tool, 0, len(r.order))
	for _, name := range r.order {
		spec := r.tools[name].spec
		defs = append(defs, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  spec.Parameters,
			},
		})
	}
	return defs
}
