package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toolsmith-mcp/toolsmith/internal/output"
	"github.com/toolsmith-mcp/toolsmith/internal/registry"
	"github.com/toolsmith-mcp/toolsmith/internal/rules"
)

// RememberCmd creates the 'remember' command: save one shell command.
func RememberCmd() *cobra.Command {
	var description string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "remember <name> <command>",
		Short: "Save a reusable shell command under a short name",
		Long: `Save a shell command in the project registry and surface it in the
rules file's managed block.

Quote the command so the shell passes it through as one argument:

  toolsmith remember test-all "go test ./... -count=1" --description "Run the full test suite"`,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			e, err := loadEnv(cmd)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			entry, reg, err := e.store().Register(args[0], args[1], description, registry.SourceManual, overwrite)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			if err := rules.Sync(e.Fs, e.Cfg.Rules, reg); err != nil {
				output.Error(fmt.Sprintf("command saved, but updating %s failed: %v", e.Cfg.Rules, err))
				os.Exit(1)
			}

			output.Success(fmt.Sprintf("Remembered %q", entry.Name))
			output.Step(entry.Command)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "What the command does")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing command with the same name")

	return cmd
}
