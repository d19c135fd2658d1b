package mcp

import (
	"context"
	"testing"

	"github.com/Seif-Sameh/Kaggle-mcp/internal/tools"
)

type staticToolset struct {
	name  string
	tools []tools.Tool
}

func (s *staticToolset) Name() string        { return s.name }
func (s *staticToolset) Tools() []tools.Tool { return s.tools }

type pingInput struct {
	Message string `json:"message,omitempty" jsonschema:"Message to echo back"`
}

func TestNewServerRequiresRegistry(t *testing.T) {
	_, err := NewServer(Config{Name: "kaggle-mcp", Version: "test"})
	if err == nil {
		t.Fatal("NewServer() with nil registry should fail")
	}
}

func TestNewServerRegistersTools(t *testing.T) {
	registry := tools.NewRegistry(discardLogger())
	err := registry.Register(&staticToolset{
		name: "ping",
		tools: []tools.Tool{
			tools.NewTool("ping", "Echo a message.",
				func(_ context.Context, in pingInput) (*tools.Result, error) {
					return tools.Success("pong: "+in.Message, nil), nil
				}),
		},
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	srv, err := NewServer(Config{
		Name:     "kaggle-mcp",
		Version:  "test",
		Logger:   discardLogger(),
		Registry: registry,
	})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	if srv == nil {
		t.Fatal("NewServer() returned nil server")
	}

	// The registry stays the dispatch path behind the MCP handlers.
	res := registry.Dispatch(context.Background(), "ping", map[string]any{"message": "hi"})
	if res.Status != tools.StatusSuccess || res.Message != "pong: hi" {
		t.Errorf("Dispatch() = %+v", res)
	}
}
