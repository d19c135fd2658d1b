package mcp

import (
	"encoding/json"
	"log/slog"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Seif-Sameh/Kaggle-mcp/internal/tools"
)

// detailKeys lists the error detail fields safe to send to clients.
// Anything else may carry internals (paths, credentials in messages from
// lower layers) and is dropped.
var detailKeys = map[string]bool{
	"tool":        true,
	"field":       true,
	"status_code": true,
}

// resultToMCP serializes a tool result as the single JSON text content of
// an MCP call result. Error results set IsError so clients can branch
// without parsing the payload.
func resultToMCP(result *tools.Result, logger *slog.Logger) *sdk.CallToolResult {
	if result == nil {
		result = &tools.Result{
			Status:  tools.StatusError,
			Message: "internal error: empty result",
		}
	}
	if result.Error != nil {
		result.Error.Details = sanitizeErrorDetails(result.Error.Details)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		logger.Error("marshaling tool result", slog.String("error", err.Error()))
		return &sdk.CallToolResult{
			Content: []sdk.Content{&sdk.TextContent{Text: `{"status":"error","message":"internal error: unserializable result"}`}},
			IsError: true,
		}
	}

	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: string(raw)}},
		IsError: result.Status == tools.StatusError,
	}
}

// sanitizeErrorDetails keeps only the whitelisted detail keys.
func sanitizeErrorDetails(details map[string]any) map[string]any {
	if len(details) == 0 {
		return nil
	}
	clean := make(map[string]any, len(details))
	for k, v := range details {
		if detailKeys[k] {
			clean[k] = v
		}
	}
	if len(clean) == 0 {
		return nil
	}
	return clean
}
