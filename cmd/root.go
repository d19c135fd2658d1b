// Package cmd implements the command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kaggle-mcp",
	Short: "MCP server for the Kaggle API",
	Long: `kaggle-mcp is a Model Context Protocol server that exposes the
Kaggle API as tools: competitions, datasets, kernels and models.

The server speaks MCP over stdio. Credentials come from the
KAGGLE_USERNAME and KAGGLE_KEY environment variables or from the
standard ~/.kaggle/kaggle.json credentials file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	// Running without a subcommand starts the server, which is what MCP
	// clients expect from a stdio command.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
