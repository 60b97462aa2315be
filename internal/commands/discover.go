package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toolsmith-mcp/toolsmith/internal/discover"
	"github.com/toolsmith-mcp/toolsmith/internal/output"
	"github.com/toolsmith-mcp/toolsmith/internal/registry"
	"github.com/toolsmith-mcp/toolsmith/internal/rules"
)

// DiscoverCmd creates the 'discover' command: scan build files for
// commands worth saving.
func DiscoverCmd() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Scan package.json and Makefile for commands worth saving",
		Run: func(cmd *cobra.Command, args []string) {
			e, err := loadEnv(cmd)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			candidates, err := discover.Scan(e.Fs, e.Root)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}
			if len(candidates) == 0 {
				output.Info("Nothing to discover: no package.json scripts or Makefile targets found")
				return
			}

			if !save {
				for _, c := range candidates {
					output.Info(fmt.Sprintf("%s — %s (%s)", c.Name, c.Command, c.Origin))
				}
				output.Step("re-run with --save to register these")
				return
			}

			store := e.store()
			var reg registry.Registry
			saved := 0
			for _, c := range candidates {
				_, next, err := store.Register(c.Name, c.Command, c.Description, registry.SourceDiscovered, false)
				if err != nil {
					var conflict *registry.ConflictError
					if errors.As(err, &conflict) {
						output.Verbose(fmt.Sprintf("skipping %s: already registered", c.Name))
						continue
					}
					output.Error(err.Error())
					os.Exit(1)
				}
				reg = next
				saved++
			}

			if saved > 0 {
				if err := rules.Sync(e.Fs, e.Cfg.Rules, reg); err != nil {
					output.Error(fmt.Sprintf("commands saved, but updating %s failed: %v", e.Cfg.Rules, err))
					os.Exit(1)
				}
			}
			output.Success(fmt.Sprintf("Saved %d of %d discovered commands", saved, len(candidates)))
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Register the discovered commands")

	return cmd
}
