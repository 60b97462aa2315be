package main

import (
	"os"

	"github.com/toolsmith-mcp/toolsmith/internal/commands"
)

func main() {
	rootCmd := commands.RootCmd()

	rootCmd.AddCommand(commands.ServeCmd())
	rootCmd.AddCommand(commands.TemplatesCmd())
	rootCmd.AddCommand(commands.GenerateCmd())
	rootCmd.AddCommand(commands.ValidateCmd())
	rootCmd.AddCommand(commands.InstallCmd())
	rootCmd.AddCommand(commands.RememberCmd())
	rootCmd.AddCommand(commands.CommandsCmd())
	rootCmd.AddCommand(commands.ForgetCmd())
	rootCmd.AddCommand(commands.DiscoverCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
