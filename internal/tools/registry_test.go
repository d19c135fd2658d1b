package tools

import (
	"context"
	"errors"
	"testing"
)

type fakeToolset struct {
	name  string
	tools []Tool
}

func (f fakeToolset) Name() string  { return f.name }
func (f fakeToolset) Tools() []Tool { return f.tools }

type echoInput struct {
	Text string `json:"text" jsonschema:"Text to echo back"`
	Loud bool   `json:"loud,omitempty" jsonschema:"Uppercase the result"`
}

func newEchoRegistry(t *testing.T, called *bool) *Registry {
	t.Helper()
	reg := NewRegistry(nil)
	err := reg.Register(fakeToolset{
		name: "test",
		tools: []Tool{
			NewTool("echo", "Echo the input text.", func(_ context.Context, in echoInput) (*Result, error) {
				if called != nil {
					*called = true
				}
				return Success(in.Text, nil), nil
			}),
		},
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return reg
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	reg := newEchoRegistry(t, nil)
	err := reg.Register(fakeToolset{
		name: "other",
		tools: []Tool{
			NewTool("echo", "Colliding echo.", func(_ context.Context, in echoInput) (*Result, error) {
				return Success("", nil), nil
			}),
		},
	})
	if !errors.Is(err, ErrDuplicateTool) {
		t.Errorf("Register() error = %v, want ErrDuplicateTool", err)
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	reg := newEchoRegistry(t, nil)
	res := reg.Dispatch(context.Background(), "no_such_tool", nil)
	if res.Status != StatusError {
		t.Fatalf("Status = %s, want error", res.Status)
	}
	if res.Error == nil || res.Error.Code != ErrCodeUnknownTool {
		t.Errorf("Error = %+v, want code %s", res.Error, ErrCodeUnknownTool)
	}
}

func TestDispatchMissingRequiredArgument(t *testing.T) {
	var called bool
	reg := newEchoRegistry(t, &called)

	res := reg.Dispatch(context.Background(), "echo", map[string]any{"loud": true})
	if res.Status != StatusError {
		t.Fatalf("Status = %s, want error", res.Status)
	}
	if res.Error == nil || res.Error.Code != ErrCodeInvalidArgument {
		t.Errorf("Error = %+v, want code %s", res.Error, ErrCodeInvalidArgument)
	}
	if called {
		t.Error("handler ran despite missing required argument")
	}
}

func TestDispatchMistypedArgument(t *testing.T) {
	var called bool
	reg := newEchoRegistry(t, &called)

	res := reg.Dispatch(context.Background(), "echo", map[string]any{"text": 42})
	if res.Status != StatusError {
		t.Fatalf("Status = %s, want error", res.Status)
	}
	if res.Error == nil || res.Error.Code != ErrCodeInvalidArgument {
		t.Errorf("Error = %+v, want code %s", res.Error, ErrCodeInvalidArgument)
	}
	if res.Error != nil && res.Error.Details["field"] != "text" {
		t.Errorf("Details = %v, want field=text", res.Error.Details)
	}
	if called {
		t.Error("handler ran despite mistyped argument")
	}
}

func TestDispatchSuccess(t *testing.T) {
	reg := newEchoRegistry(t, nil)
	res := reg.Dispatch(context.Background(), "echo", map[string]any{"text": "hello"})
	if res.Status != StatusSuccess {
		t.Fatalf("Status = %s, want success (result %+v)", res.Status, res)
	}
	if res.Message != "hello" {
		t.Errorf("Message = %q, want hello", res.Message)
	}
}

func TestRegistryAllKeepsRegistrationOrder(t *testing.T) {
	reg := NewRegistry(nil)
	mk := func(name string) Tool {
		return NewTool(name, name, func(_ context.Context, in echoInput) (*Result, error) {
			return Success("", nil), nil
		})
	}
	if err := reg.Register(fakeToolset{name: "a", tools: []Tool{mk("b_tool"), mk("a_tool")}}); err != nil {
		t.Fatal(err)
	}

	all := reg.All()
	if len(all) != 2 || all[0].Name != "b_tool" || all[1].Name != "a_tool" {
		t.Errorf("All() order = %v", []string{all[0].Name, all[1].Name})
	}
}

func TestToolSchemaMarksRequiredFields(t *testing.T) {
	tool := NewTool("echo", "Echo.", func(_ context.Context, in echoInput) (*Result, error) {
		return Success("", nil), nil
	})
	required := map[string]bool{}
	for _, f := range tool.Schema.Required {
		required[f] = true
	}
	if !required["text"] {
		t.Errorf("Required = %v, want text listed", tool.Schema.Required)
	}
	if required["loud"] {
		t.Errorf("Required = %v, optional field loud must not be listed", tool.Schema.Required)
	}
}
