package tools

import (
	"context"
	"fmt"

	"github.com/anirudha4/bud.oneapp.studio/internal/core/model"
)

// Registry is the static tool catalogue. Execute never panics and never
// returns an error: every failure becomes a ToolResult with Success false.
type Registry struct {
	order []string
	tools map[string]*Tool
}

func NewRegistry() *Registry {
	r := &Registry{tools: make(map[string]*Tool)}
	r.register(searchItemsTool())
	r.register(summarizeItemsTool())
	r.register(addItemsTool())
	r.register(updateItemsTool())
	r.register(questionItemsTool())
	return r
}

func (r *Registry) register(t *Tool) {
	r.order = append(r.order, t.Name)
	r.tools[t.Name] = t
}

// List returns the tools in registration order.
func (r *Registry) List() []*Tool {
	out := make([]*Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

func (r *Registry) Execute(ctx context.Context, name string, params map[string]any, tc *Context) model.ToolResult {
	tool, ok := r.tools[name]
	if !ok {
		return model.ToolResult{
			ToolName: name,
			Success:  false,
			Error:    fmt.Sprintf("tool %q not found", name),
			Summary:  fmt.Sprintf("<p>Unknown tool: <em>%s</em></p>", name),
		}
	}

	if params == nil {
		params = map[string]any{}
	}
	normalized, err := validateParams(tool.Params, params)
	if err != nil {
		return model.ToolResult{
			ToolName: name,
			Success:  false,
			Error:    err.Error(),
			Summary:  fmt.Sprintf("<p>Invalid parameters for <em>%s</em></p>", name),
		}
	}

	result, err := tool.Run(ctx, normalized, tc)
	if err != nil {
		return model.ToolResult{
			ToolName: name,
			Success:  false,
			Error:    err.Error(),
			Summary:  fmt.Sprintf("<p>Tool <em>%s</em> failed</p>", name),
		}
	}
	if result == nil {
		return model.ToolResult{
			ToolName: name,
			Success:  false,
			Error:    "tool returned no result",
			Summary:  fmt.Sprintf("<p>Tool <em>%s</em> failed</p>", name),
		}
	}
	return *result
}
