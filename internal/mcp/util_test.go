package mcp

import (
	"encoding/json"
	"log/slog"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Seif-Sameh/Kaggle-mcp/internal/tools"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func textOf(t *testing.T, res *sdk.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("content length = %d, want 1", len(res.Content))
	}
	tc, ok := res.Content[0].(*sdk.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want *sdk.TextContent", res.Content[0])
	}
	return tc.Text
}

func TestResultToMCPSuccess(t *testing.T) {
	res := resultToMCP(tools.Success("Retrieved 3 competitions.", map[string]any{
		"competitions": []string{"titanic"},
	}), discardLogger())

	if res.IsError {
		t.Error("IsError = true for a success result")
	}

	var payload struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(textOf(t, res)), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Status != "success" || payload.Message != "Retrieved 3 competitions." {
		t.Errorf("payload = %+v", payload)
	}
}

func TestResultToMCPErrorSetsFlag(t *testing.T) {
	res := resultToMCP(tools.Failure(&tools.ValidationError{Reason: "bad ref"}), discardLogger())

	if !res.IsError {
		t.Error("IsError = false for an error result")
	}

	var payload struct {
		Status string `json:"status"`
		Error  struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(textOf(t, res)), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Status != "error" || payload.Error.Code != tools.ErrCodeValidation {
		t.Errorf("payload = %+v", payload)
	}
}

func TestResultToMCPNilResult(t *testing.T) {
	res := resultToMCP(nil, discardLogger())

	if !res.IsError {
		t.Error("IsError = false for a nil result")
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(textOf(t, res)), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Message != "internal error: empty result" {
		t.Errorf("message = %q", payload.Message)
	}
}

func TestSanitizeErrorDetails(t *testing.T) {
	clean := sanitizeErrorDetails(map[string]any{
		"tool":        "competition_submit",
		"field":       "file_name",
		"status_code": 404,
		"path":        "/home/user/secret.csv",
		"op":          "open",
	})

	if len(clean) != 3 {
		t.Fatalf("clean = %v, want 3 whitelisted keys", clean)
	}
	if _, leaked := clean["path"]; leaked {
		t.Error("path detail leaked through sanitization")
	}

	if got := sanitizeErrorDetails(map[string]any{"path": "/tmp/x"}); got != nil {
		t.Errorf("all-dropped details = %v, want nil", got)
	}
	if got := sanitizeErrorDetails(nil); got != nil {
		t.Errorf("nil details = %v, want nil", got)
	}
}
