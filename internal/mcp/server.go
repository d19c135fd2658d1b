// Package mcp exposes the tool registry over the Model Context Protocol.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Seif-Sameh/Kaggle-mcp/internal/tools"
)

// Config carries the server identity and its collaborators.
type Config struct {
	Name     string
	Version  string
	Logger   *slog.Logger
	Registry *tools.Registry
}

// Server bridges the tool registry to an MCP transport.
type Server struct {
	server   *sdk.Server
	registry *tools.Registry
	logger   *slog.Logger
}

// NewServer builds the MCP server and registers every tool of the registry.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("mcp: registry is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		server: sdk.NewServer(&sdk.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		registry: cfg.Registry,
		logger:   logger,
	}
	s.registerAll()
	return s, nil
}

// registerAll exposes each registry tool over MCP. The handlers take the
// raw argument map so the registry keeps a single validation and dispatch
// path for every tool.
func (s *Server) registerAll() {
	for _, tool := range s.registry.All() {
		name := tool.Name
		sdk.AddTool(s.server,
			&sdk.Tool{
				Name:        tool.Name,
				Description: tool.Description,
				InputSchema: tool.Schema,
			},
			func(ctx context.Context, _ *sdk.CallToolRequest, args map[string]any) (*sdk.CallToolResult, any, error) {
				result := s.registry.Dispatch(ctx, name, args)
				return resultToMCP(result, s.logger), nil, nil
			})
	}
	s.logger.Info("tools registered", slog.Int("count", len(s.registry.All())))
}

// Run serves MCP over the given transport until the context is canceled.
func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	s.logger.Info("mcp server starting")
	if err := s.server.Run(ctx, transport); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
