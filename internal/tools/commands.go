package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/afero"

	"github.com/toolsmith-mcp/toolsmith/internal/discover"
	"github.com/toolsmith-mcp/toolsmith/internal/registry"
	"github.com/toolsmith-mcp/toolsmith/internal/rules"
)

// CommandTools holds the dependencies of the saved-command tool handlers.
type CommandTools struct {
	Store *registry.Store
	Fs    afero.Fs

	// RulesPath is the assistant rules file carrying the managed block.
	RulesPath string

	// Root is the project directory scanned by discover_commands.
	Root string
}

// --- Input types ---

type RememberCommandInput struct {
	Name        string `json:"name" jsonschema:"Short name for the command (letters, digits, '.', '_', '-')"`
	Command     string `json:"command" jsonschema:"The shell command to save"`
	Description string `json:"description,omitempty" jsonschema:"What the command does"`
	Overwrite   bool   `json:"overwrite,omitempty" jsonschema:"Replace an existing command with the same name"`
}

type ListCommandsInput struct{}

type ForgetCommandInput struct {
	Name string `json:"name" jsonschema:"Name of the command to remove"`
}

type DiscoverCommandsInput struct {
	Save bool `json:"save,omitempty" jsonschema:"Register the discovered commands instead of just listing them"`
}

// --- Outputs ---

type commandView struct {
	Name        string          `json:"name"`
	Command     string          `json:"command"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	Source      registry.Source `json:"source"`
}

type listResult struct {
	Version   string        `json:"version"`
	Corrupted bool          `json:"corrupted,omitempty"`
	Commands  []commandView `json:"commands"`
}

type discoverResult struct {
	Candidates []discover.Candidate `json:"candidates"`
	Saved      []string             `json:"saved,omitempty"`
	Skipped    []string             `json:"skipped,omitempty"`
}

// --- Handlers ---

// RememberCommand validates and persists one command, then refreshes the
// managed block in the rules file so the assistant can see it.
func (t *CommandTools) RememberCommand(_ context.Context, _ *mcp.CallToolRequest, input RememberCommandInput) (*mcp.CallToolResult, any, error) {
	entry, reg, err := t.Store.Register(input.Name, input.Command, input.Description, registry.SourceManual, input.Overwrite)
	if err != nil {
		return toolError("%v", err), nil, nil
	}

	if err := rules.Sync(t.Fs, t.RulesPath, reg); err != nil {
		return toolError("command saved, but updating %s failed: %v", t.RulesPath, err), nil, nil
	}
	return toolJSON(viewOf(entry))
}

// ListCommands reports every saved command sorted by name. A corrupted
// registry document is reported, not hidden: the result carries the flag
// and an empty command list.
func (t *CommandTools) ListCommands(_ context.Context, _ *mcp.CallToolRequest, _ ListCommandsInput) (*mcp.CallToolResult, any, error) {
	reg, err := t.Store.Load()
	if err != nil {
		return toolError("%v", err), nil, nil
	}

	result := listResult{
		Version:   reg.Version,
		Corrupted: reg.Corrupted,
		Commands:  make([]commandView, 0, len(reg.Commands)),
	}
	for _, cmd := range reg.List() {
		result.Commands = append(result.Commands, viewOf(cmd))
	}
	return toolJSON(result)
}

// ForgetCommand removes one command and refreshes the rules file.
func (t *CommandTools) ForgetCommand(_ context.Context, _ *mcp.CallToolRequest, input ForgetCommandInput) (*mcp.CallToolResult, any, error) {
	reg, err := t.Store.Forget(input.Name)
	if err != nil {
		return toolError("%v", err), nil, nil
	}

	if err := rules.Sync(t.Fs, t.RulesPath, reg); err != nil {
		return toolError("command removed, but updating %s failed: %v", t.RulesPath, err), nil, nil
	}
	return toolText(fmt.Sprintf("Forgot command %q", input.Name)), nil, nil
}

// DiscoverCommands scans the project's build files for command candidates.
// With save set, each candidate is registered; names already in the
// registry are skipped rather than overwritten.
func (t *CommandTools) DiscoverCommands(_ context.Context, _ *mcp.CallToolRequest, input DiscoverCommandsInput) (*mcp.CallToolResult, any, error) {
	candidates, err := discover.Scan(t.Fs, t.Root)
	if err != nil {
		return toolError("%v", err), nil, nil
	}

	result := discoverResult{Candidates: candidates}
	if !input.Save {
		return toolJSON(result)
	}

	var reg registry.Registry
	for _, c := range candidates {
		entry, next, err := t.Store.Register(c.Name, c.Command, c.Description, registry.SourceDiscovered, false)
		if err != nil {
			var conflict *registry.ConflictError
			if errors.As(err, &conflict) {
				result.Skipped = append(result.Skipped, c.Name)
				continue
			}
			return toolError("saving %q: %v", c.Name, err), nil, nil
		}
		result.Saved = append(result.Saved, entry.Name)
		reg = next
	}

	if len(result.Saved) > 0 {
		if err := rules.Sync(t.Fs, t.RulesPath, reg); err != nil {
			return toolError("commands saved, but updating %s failed: %v", t.RulesPath, err), nil, nil
		}
	}
	return toolJSON(result)
}

func viewOf(cmd registry.Command) commandView {
	return commandView{
		Name:        cmd.Name,
		Command:     cmd.Command,
		Description: cmd.Description,
		CreatedAt:   cmd.CreatedAt,
		Source:      cmd.Source,
	}
}
