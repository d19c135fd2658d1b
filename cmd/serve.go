package cmd

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/Seif-Sameh/Kaggle-mcp/internal/config"
	"github.com/Seif-Sameh/Kaggle-mcp/internal/kaggle"
	"github.com/Seif-Sameh/Kaggle-mcp/internal/log"
	"github.com/Seif-Sameh/Kaggle-mcp/internal/mcp"
	"github.com/Seif-Sameh/Kaggle-mcp/internal/security"
	"github.com/Seif-Sameh/Kaggle-mcp/internal/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrMissingUsername) || errors.Is(err, config.ErrMissingKey) {
			return fmt.Errorf("%w (set KAGGLE_USERNAME and KAGGLE_KEY, or create ~/.kaggle/kaggle.json)", err)
		}
		return err
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := log.New(log.Config{Level: level, JSON: cfg.LogJSON})

	paths, err := security.NewPath(cfg.DownloadDirs)
	if err != nil {
		return err
	}

	client, err := kaggle.New(cfg.Username, cfg.Key,
		kaggle.WithLogger(logger.With("component", "kaggle")))
	if err != nil {
		return err
	}

	registry := tools.NewRegistry(logger.With("component", "registry"))
	if err := registry.Register(
		tools.NewCompetitions(client, paths),
		tools.NewDatasets(client, paths),
		tools.NewKernels(client, paths),
		tools.NewModels(client, paths),
	); err != nil {
		return err
	}

	server, err := mcp.NewServer(mcp.Config{
		Name:     "kaggle-mcp",
		Version:  AppVersion,
		Logger:   logger.With("component", "mcp"),
		Registry: registry,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx, &sdk.StdioTransport{})
}
