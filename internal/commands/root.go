// Package commands defines the toolsmith CLI. Every MCP tool has a CLI
// verb, so the pipeline can be driven and inspected without a connected
// assistant.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/toolsmith-mcp/toolsmith"
	"github.com/toolsmith-mcp/toolsmith/internal/output"
)

// RootCmd creates and returns the root command for the toolsmith CLI.
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "toolsmith",
		Short: "Remember shell commands and generate MCP tools from templates",
		Long: `Toolsmith gives a coding assistant persistent, reusable capabilities:

• Save shell commands under short names and surface them in the
  project's rules file, so the assistant stops rediscovering them.
• Generate small, self-contained MCP tool servers from a curated
  template catalog, validated before anything touches disk.

Run 'toolsmith serve' to expose everything over MCP, or use the verbs
below directly.`,
		Version: toolsmith.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	cmd.PersistentFlags().String("root", ".", "Project root directory")

	return cmd
}
