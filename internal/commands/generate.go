package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/toolsmith-mcp/toolsmith/internal/catalog"
	"github.com/toolsmith-mcp/toolsmith/internal/engine"
	"github.com/toolsmith-mcp/toolsmith/internal/output"
	"github.com/toolsmith-mcp/toolsmith/internal/persist"
)

// GenerateCmd creates the 'generate' command: render one tool module from
// a template and write it under the output directory.
func GenerateCmd() *cobra.Command {
	var params []string
	var outputDir string
	var dryRun, force, skip bool

	cmd := &cobra.Command{
		Use:   "generate <template-id>",
		Short: "Generate an MCP tool module from a template",
		Long: `Generate a tool module from the template catalog.

Parameters are passed as repeated --param name=value flags. The rendered
files are statically validated before anything is written; a validation
failure writes nothing.

Examples:
  toolsmith generate http-api-wrapper --param name=weather --param endpoint=https://api.example.com/v1
  toolsmith generate cli-tool-wrapper --param name=lint --param binary=golangci-lint --dry-run`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			e, err := loadEnv(cmd)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			values, err := parseParams(params)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			cat, err := catalog.Load()
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			ws, err := engine.New(cat).Generate(args[0], values)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			resolver, err := persist.NewResolver(force, skip)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			root := e.Cfg.Output
			if outputDir != "" {
				root = outputDir
			}
			dir := filepath.Join(root, ws.Tool)

			ops := persist.Ops(e.Fs, dir, ws)
			err = persist.Execute(cmd.Context(), ops, persist.ExecuteOptions{
				DryRun:   dryRun,
				Force:    force,
				Resolver: resolver,
				Fs:       e.Fs,
			})
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			if dryRun {
				output.Info(fmt.Sprintf("Dry run: tool %q would be written to %s", ws.Tool, dir))
				return
			}

			output.Success(fmt.Sprintf("Generated tool %q from %s", ws.Tool, ws.Template))
			output.Step("cd " + dir)
			output.Step("go mod tidy")
			output.Step("go run .")
		},
	}

	cmd.Flags().StringArrayVar(&params, "param", nil, "Template parameter as name=value (repeatable)")
	cmd.Flags().StringVar(&outputDir, "output", "", "Override the output directory")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be written without writing")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files without prompting")
	cmd.Flags().BoolVar(&skip, "skip", false, "Keep existing files without prompting")

	return cmd
}
