package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toolsmith-mcp/toolsmith/internal/output"
)

// CommandsCmd creates the 'commands' command: show every saved command.
func CommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "commands",
		Aliases: []string{"list"},
		Short:   "List all saved commands",
		Run: func(cmd *cobra.Command, args []string) {
			e, err := loadEnv(cmd)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			store := e.store()
			reg, err := store.Load()
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			if reg.Corrupted {
				output.Error(fmt.Sprintf("registry document %s could not be parsed; starting from an empty registry", store.Path()))
				output.Step("the original file is left untouched until the next successful save")
			}

			entries := reg.List()
			if len(entries) == 0 {
				output.Info("No commands saved yet")
				output.Step(`toolsmith remember <name> "<command>"`)
				return
			}

			for _, c := range entries {
				line := fmt.Sprintf("%s — %s", c.Name, c.Command)
				if c.Description != "" {
					line += fmt.Sprintf(" (%s)", c.Description)
				}
				output.Info(line)
			}
		},
	}
}
