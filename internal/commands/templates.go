package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toolsmith-mcp/toolsmith/internal/catalog"
	"github.com/toolsmith-mcp/toolsmith/internal/output"
)

// TemplatesCmd creates the 'templates' command, listing the catalog.
func TemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the available tool templates",
		Run: func(cmd *cobra.Command, args []string) {
			cat, err := catalog.Load()
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			for _, def := range cat.List() {
				output.Info(fmt.Sprintf("%s (v%s) — %s", def.ID, def.Version, def.Description))
				for _, p := range def.Params {
					output.Step(describeParam(p))
				}
			}
		},
	}
}

func describeParam(p catalog.ParamSpec) string {
	s := fmt.Sprintf("--param %s=<%s>", p.Name, p.Kind)
	if p.Kind == catalog.KindEnum {
		s = fmt.Sprintf("--param %s=%v", p.Name, p.Enum)
	}
	if p.Required {
		s += " (required)"
	} else if p.Default != "" {
		s += fmt.Sprintf(" (default %q)", p.Default)
	}
	if p.Description != "" {
		s += " — " + p.Description
	}
	return s
}
