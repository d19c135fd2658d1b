package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Handler executes a tool against raw JSON arguments.
type Handler func(ctx context.Context, args map[string]any) (*Result, error)

// Tool bundles a tool's name, description, derived input schema and handler.
type Tool struct {
	Name        string
	Description string
	Schema      *jsonschema.Schema
	Handler     Handler
}

// Toolset is a named group of related tools.
type Toolset interface {
	Name() string
	Tools() []Tool
}

// NewTool derives the input schema from In and wraps a typed handler so the
// registry can dispatch it against raw arguments. Schemas come from static
// types, so a derivation failure is a programming error and panics at startup.
func NewTool[In any](name, description string, fn func(ctx context.Context, in In) (*Result, error)) Tool {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		panic(fmt.Sprintf("tools: deriving schema for %s: %v", name, err))
	}

	return Tool{
		Name:        name,
		Description: description,
		Schema:      schema,
		Handler: func(ctx context.Context, args map[string]any) (*Result, error) {
			var in In
			if err := decodeArgs(name, args, &in); err != nil {
				return nil, err
			}
			return fn(ctx, in)
		},
	}
}

// decodeArgs converts the raw argument map into the tool's input struct,
// translating type mismatches into InvalidArgumentError.
func decodeArgs(tool string, args map[string]any, in any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return &InvalidArgumentError{Tool: tool, Reason: err.Error()}
	}
	if err := json.Unmarshal(raw, in); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &InvalidArgumentError{
				Tool:   tool,
				Field:  typeErr.Field,
				Reason: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
			}
		}
		return &InvalidArgumentError{Tool: tool, Reason: err.Error()}
	}
	return nil
}
