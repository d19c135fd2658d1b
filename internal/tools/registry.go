package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ErrDuplicateTool is returned when two toolsets claim the same tool name.
var ErrDuplicateTool = fmt.Errorf("duplicate tool name")

// Registry holds every registered tool and dispatches calls by name.
// Registration happens once at startup; after that the registry is
// read-only and safe for concurrent dispatch.
type Registry struct {
	logger *slog.Logger
	tools  map[string]Tool
	order  []string
}

// NewRegistry creates an empty registry. A nil logger discards logs.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		logger: logger,
		tools:  make(map[string]Tool),
	}
}

// Register adds every tool of the given toolsets. Tool names are global,
// so a name collision across toolsets is a configuration bug.
func (r *Registry) Register(toolsets ...Toolset) error {
	for _, ts := range toolsets {
		for _, tool := range ts.Tools() {
			if _, exists := r.tools[tool.Name]; exists {
				return fmt.Errorf("%w: %s (toolset %s)", ErrDuplicateTool, tool.Name, ts.Name())
			}
			r.tools[tool.Name] = tool
			r.order = append(r.order, tool.Name)
		}
		r.logger.Debug("toolset registered",
			slog.String("toolset", ts.Name()),
			slog.Int("tools", len(ts.Tools())))
	}
	return nil
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// All returns every tool in registration order.
func (r *Registry) All() []Tool {
	all := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		all = append(all, r.tools[name])
	}
	return all
}

// Dispatch validates the arguments against the tool's schema and runs the
// handler. Every failure comes back as an error result, never a Go error,
// so the transport layer has a single path to serialize.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) *Result {
	requestID := uuid.NewString()
	logger := r.logger.With(
		slog.String("tool", name),
		slog.String("request_id", requestID))

	tool, ok := r.tools[name]
	if !ok {
		logger.Warn("dispatch for unregistered tool")
		return Failure(&UnknownToolError{Name: name})
	}

	if err := checkRequired(tool, args); err != nil {
		logger.Warn("argument validation failed", slog.String("error", err.Error()))
		return Failure(err)
	}

	start := time.Now()
	result, err := tool.Handler(ctx, args)

	if err != nil {
		result = Failure(err)
	}
	if result == nil {
		result = Failure(fmt.Errorf("tool %s returned no result", name))
	}

	logger.Info("tool dispatched",
		slog.String("status", string(result.Status)),
		slog.Duration("duration", time.Since(start)))
	return result
}

// checkRequired rejects calls missing a required argument before the
// handler runs, so handlers never see half-formed input.
func checkRequired(tool Tool, args map[string]any) error {
	if tool.Schema == nil {
		return nil
	}
	for _, field := range tool.Schema.Required {
		if _, present := args[field]; !present {
			return &InvalidArgumentError{
				Tool:   tool.Name,
				Field:  field,
				Reason: "required argument missing",
			}
		}
	}
	return nil
}
