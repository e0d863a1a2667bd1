// Package tools holds the fixed catalogue of operations the agent may invoke
// against the item collection, plus the dispatcher that executes one by name.
package tools

import (
	"context"
	"fmt"

	"github.com/anirudha4/bud.oneapp.studio/internal/core/index"
	"github.com/anirudha4/bud.oneapp.studio/internal/core/model"
	"github.com/anirudha4/bud.oneapp.studio/internal/core/summary"
)

// ParamKind tags a parameter schema variant.
type ParamKind string

const (
	ParamString  ParamKind = "string"
	ParamNumber  ParamKind = "number"
	ParamBoolean ParamKind = "boolean"
	ParamArray   ParamKind = "array"
	ParamObject  ParamKind = "object"
)

// ParamSpec declares one parameter: its kind, whether it is required, an
// optional default, and recursive element/field schemas for arrays/objects.
type ParamSpec struct {
	Kind        ParamKind
	Description string
	Required    bool
	Default     any
	Elem        *ParamSpec           // array element schema
	Fields      map[string]ParamSpec // object field schemas
}

// Context is the collection snapshot and collaborators a tool runs against.
type Context struct {
	Items    []model.Item
	Index    *index.Index
	Narrator *summary.Narrator
}

// Tool is an immutable descriptor: unique name, description, parameter
// schema, and behavior. Run reports rich failures as failed ToolResults; a
// returned error is converted to a failed result at the dispatch boundary.
type Tool struct {
	Name        string
	Description string
	Params      map[string]ParamSpec
	Run         func(ctx context.Context, params map[string]any, tc *Context) (*model.ToolResult, error)
}

// validateParams checks declared parameters against the provided values and
// returns a normalized copy with schema defaults applied.
func validateParams(specs map[string]ParamSpec, params map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}

	for name, spec := range specs {
		value, present := out[name]
		if !present || value == nil {
			if spec.Required {
				return nil, fmt.Errorf("missing required parameter %q", name)
			}
			if spec.Default != nil {
				out[name] = spec.Default
			}
			continue
		}
		if err := checkKind(name, spec, value); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func checkKind(name string, spec ParamSpec, value any) error {
	switch spec.Kind {
	case ParamString:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("parameter %q must be a string", name)
		}
	case ParamNumber:
		switch value.(type) {
		case float64, int:
		default:
			return fmt.Errorf("parameter %q must be a number", name)
		}
	case ParamBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("parameter %q must be a boolean", name)
		}
	case ParamArray:
		arr, ok := value.([]any)
		if !ok {
			return fmt.Errorf("parameter %q must be an array", name)
		}
		if spec.Elem != nil {
			for i, elem := range arr {
				if err := checkKind(fmt.Sprintf("%s[%d]", name, i), *spec.Elem, elem); err != nil {
					return err
				}
			}
		}
	case ParamObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("parameter %q must be an object", name)
		}
		for field, fieldSpec := range spec.Fields {
			fv, present := obj[field]
			if !present || fv == nil {
				if fieldSpec.Required {
					return fmt.Errorf("parameter %q is missing required field %q", name, field)
				}
				continue
			}
			if err := checkKind(name+"."+field, fieldSpec, fv); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("parameter %q has unknown kind %q", name, spec.Kind)
	}
	return nil
}

// Schema renders the parameter specs as a JSON-schema-shaped map, used to
// describe the tool in the system instructions.
func Schema(specs map[string]ParamSpec) map[string]any {
	properties := make(map[string]any, len(specs))
	var required []string
	for name, spec := range specs {
		properties[name] = specSchema(spec)
		if spec.Required {
			required = append(required, name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func specSchema(spec ParamSpec) map[string]any {
	out := map[string]any{"type": string(spec.Kind)}
	if spec.Description != "" {
		out["description"] = spec.Description
	}
	if spec.Default != nil {
		out["default"] = spec.Default
	}
	if spec.Elem != nil {
		out["items"] = specSchema(*spec.Elem)
	}
	if len(spec.Fields) > 0 {
		properties := make(map[string]any, len(spec.Fields))
		var required []string
		for name, field := range spec.Fields {
			properties[name] = specSchema(field)
			if field.Required {
				required = append(required, name)
			}
		}
		out["properties"] = properties
		if len(required) > 0 {
			out["required"] = required
		}
	}
	return out
}

// intParam reads an optional numeric parameter, tolerating JSON's float64.
func intParam(params map[string]any, name string, fallback int) int {
	switch v := params[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

func stringParam(params map[string]any, name string) string {
	s, _ := params[name].(string)
	return s
}
