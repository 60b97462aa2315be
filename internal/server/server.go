// Package server assembles the MCP server from its tool handlers.
package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/afero"

	"github.com/toolsmith-mcp/toolsmith/internal/catalog"
	"github.com/toolsmith-mcp/toolsmith/internal/config"
	"github.com/toolsmith-mcp/toolsmith/internal/engine"
	"github.com/toolsmith-mcp/toolsmith/internal/registry"
	"github.com/toolsmith-mcp/toolsmith/internal/tools"
)

// New creates a fully configured MCP server with all tools registered.
// root is the project directory the server operates on.
func New(fs afero.Fs, root string, cfg config.Config, cat *catalog.Catalog, version string) *mcp.Server {
	gt := &tools.GeneratorTools{
		Engine:     engine.New(cat),
		Catalog:    cat,
		Fs:         fs,
		OutputRoot: cfg.Output,
		HostConfig: cfg.HostConfig,
	}
	ct := &tools.CommandTools{
		Store:     registry.NewStore(fs, cfg.Registry),
		Fs:        fs,
		RulesPath: cfg.Rules,
		Root:      root,
	}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "toolsmith",
		Version: version,
	}, nil)

	// Template generation tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_templates",
		Description: "List the tool templates available for generation, with their parameter schemas",
	}, gt.ListTemplates)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "generate_tool",
		Description: "Generate a new MCP tool module from a template; fails without writing anything if validation fails",
	}, gt.GenerateTool)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "validate_tool",
		Description: "Re-run the static validator over a previously generated tool directory",
	}, gt.ValidateTool)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "install_tool",
		Description: "Register a generated tool in the host assistant's MCP configuration (takes effect after a restart)",
	}, gt.InstallTool)

	// Saved-command tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "remember_command",
		Description: "Save a reusable shell command under a short name",
	}, ct.RememberCommand)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_commands",
		Description: "List all saved commands sorted by name",
	}, ct.ListCommands)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "forget_command",
		Description: "Remove a saved command by name",
	}, ct.ForgetCommand)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "discover_commands",
		Description: "Scan package.json scripts and Makefile targets for commands worth saving",
	}, ct.DiscoverCommands)

	return srv
}
