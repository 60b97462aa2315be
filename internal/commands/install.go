package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/toolsmith-mcp/toolsmith/internal/hostcfg"
	"github.com/toolsmith-mcp/toolsmith/internal/output"
)

// InstallCmd creates the 'install' command: register a generated tool in
// the host assistant's MCP configuration.
func InstallCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "install <tool>",
		Short: "Register a generated tool in the assistant's MCP configuration",
		Long: `Add an mcpServers entry for a generated tool to the assistant's MCP
configuration file (~/.cursor/mcp.json by default), so the assistant can
launch it. The rest of the file is left untouched.

The assistant must be restarted to pick up the new entry.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			e, err := loadEnv(cmd)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			dir := filepath.Join(e.Cfg.Output, args[0])
			exists, err := afero.DirExists(e.Fs, dir)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}
			if !exists {
				output.Error(fmt.Sprintf("no generated tool at %s; run 'toolsmith generate' first", dir))
				os.Exit(1)
			}

			abs, err := filepath.Abs(dir)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			target := e.Cfg.HostConfig
			if configPath != "" {
				target = configPath
			}

			if err := hostcfg.Install(e.Fs, target, args[0], hostcfg.EntryFor(abs)); err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			output.Success(fmt.Sprintf("Registered %q in %s", args[0], target))
			output.Step("Restart the assistant to load the new tool")
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Override the MCP configuration file to update")

	return cmd
}
