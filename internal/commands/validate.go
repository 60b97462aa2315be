package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/toolsmith-mcp/toolsmith/internal/catalog"
	"github.com/toolsmith-mcp/toolsmith/internal/engine"
	"github.com/toolsmith-mcp/toolsmith/internal/output"
	"github.com/toolsmith-mcp/toolsmith/internal/tools"
)

// ValidateCmd creates the 'validate' command: re-check a generated tool
// directory against its template's contract.
func ValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <dir>",
		Short: "Re-run the static validator over a generated tool directory",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			e, err := loadEnv(cmd)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			cat, err := catalog.Load()
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			dir := args[0]
			if !filepath.IsAbs(dir) {
				if _, statErr := os.Stat(dir); os.IsNotExist(statErr) {
					dir = filepath.Join(e.Cfg.Output, args[0])
				}
			}

			files, def, err := tools.LoadTool(e.Fs, cat, dir)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			result := engine.Check(files, def)
			if result.Valid {
				output.Success(fmt.Sprintf("%s is a valid %s tool (%d files)", dir, def.ID, len(files)))
				return
			}

			output.Error(fmt.Sprintf("%s failed validation:", dir))
			for _, p := range result.Problems {
				output.Step(p.String())
			}
			os.Exit(1)
		},
	}
}
