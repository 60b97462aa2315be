package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toolsmith-mcp/toolsmith/internal/output"
	"github.com/toolsmith-mcp/toolsmith/internal/rules"
)

// ForgetCmd creates the 'forget' command: remove one saved command.
func ForgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget <name>",
		Short: "Remove a saved command",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			e, err := loadEnv(cmd)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			reg, err := e.store().Forget(args[0])
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			if err := rules.Sync(e.Fs, e.Cfg.Rules, reg); err != nil {
				output.Error(fmt.Sprintf("command removed, but updating %s failed: %v", e.Cfg.Rules, err))
				os.Exit(1)
			}

			output.Success(fmt.Sprintf("Forgot %q", args[0]))
		},
	}
}
