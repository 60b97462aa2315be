// Package tools implements the MCP tool handlers. Handlers translate tool
// inputs into engine, registry and persistence calls; all policy lives in
// those packages.
package tools

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/toolsmith-mcp/toolsmith/internal/catalog"
	"github.com/toolsmith-mcp/toolsmith/internal/engine"
	"github.com/toolsmith-mcp/toolsmith/internal/hostcfg"
	"github.com/toolsmith-mcp/toolsmith/internal/persist"
)

// GeneratorTools holds the dependencies of the template tool handlers.
type GeneratorTools struct {
	Engine  *engine.Engine
	Catalog *catalog.Catalog
	Fs      afero.Fs

	// OutputRoot is the directory generated tool modules are written under,
	// one subdirectory per tool.
	OutputRoot string

	// HostConfig is the host assistant's MCP configuration file, where
	// install_tool registers generated tools.
	HostConfig string
}

// --- Input types ---

type ListTemplatesInput struct{}

type GenerateToolInput struct {
	Template  string            `json:"template" jsonschema:"Template id from list_templates"`
	Params    map[string]string `json:"params,omitempty" jsonschema:"Template parameters as name/value pairs"`
	Overwrite bool              `json:"overwrite,omitempty" jsonschema:"Replace files of a previously generated tool with the same name"`
}

type ValidateToolInput struct {
	Path string `json:"path" jsonschema:"Directory of a generated tool, relative to the output root or absolute"`
}

type InstallToolInput struct {
	Name string `json:"name" jsonschema:"Name of a previously generated tool (its directory under the output root)"`
}

// --- Outputs ---

type templateSummary struct {
	ID          string              `json:"id"`
	Version     string              `json:"version"`
	Description string              `json:"description"`
	Params      []catalog.ParamSpec `json:"params"`
}

type generateResult struct {
	Tool     string   `json:"tool"`
	Template string   `json:"template"`
	Dir      string   `json:"dir"`
	Files    []string `json:"files"`
}

type installResult struct {
	Tool       string        `json:"tool"`
	ConfigPath string        `json:"configPath"`
	Entry      hostcfg.Entry `json:"entry"`
	Note       string        `json:"note"`
}

// --- Handlers ---

// ListTemplates reports every template in the catalog with its parameter
// schema, so the caller can construct a generate_tool request.
func (t *GeneratorTools) ListTemplates(_ context.Context, _ *mcp.CallToolRequest, _ ListTemplatesInput) (*mcp.CallToolResult, any, error) {
	defs := t.Catalog.List()
	out := make([]templateSummary, 0, len(defs))
	for _, def := range defs {
		out = append(out, templateSummary{
			ID:          def.ID,
			Version:     def.Version,
			Description: def.Description,
			Params:      def.Params,
		})
	}
	return toolJSON(out)
}

// GenerateTool runs the full pipeline: validate parameters, render,
// statically check, and persist the tool module. Nothing is written when
// any stage fails.
func (t *GeneratorTools) GenerateTool(ctx context.Context, _ *mcp.CallToolRequest, input GenerateToolInput) (*mcp.CallToolResult, any, error) {
	if input.Template == "" {
		return toolError("template is required; call list_templates for the catalog"), nil, nil
	}

	ws, err := t.Engine.Generate(input.Template, input.Params)
	if err != nil {
		return toolError("%v", err), nil, nil
	}

	dir := filepath.Join(t.OutputRoot, ws.Tool)
	ops := persist.Ops(t.Fs, dir, ws)
	err = persist.Execute(ctx, ops, persist.ExecuteOptions{
		Force:  input.Overwrite,
		Writer: io.Discard,
		Fs:     t.Fs,
	})
	if err != nil {
		return toolError("%v", err), nil, nil
	}

	result := generateResult{
		Tool:     ws.Tool,
		Template: ws.Template,
		Dir:      dir,
	}
	for _, f := range ws.Files {
		result.Files = append(result.Files, f.Path)
	}
	return toolJSON(result)
}

// InstallTool registers a generated tool in the host assistant's MCP
// configuration so it can be launched after a restart. The tool must have
// been generated first.
func (t *GeneratorTools) InstallTool(_ context.Context, _ *mcp.CallToolRequest, input InstallToolInput) (*mcp.CallToolResult, any, error) {
	if input.Name == "" {
		return toolError("name is required"), nil, nil
	}

	dir := filepath.Join(t.OutputRoot, input.Name)
	exists, err := afero.DirExists(t.Fs, dir)
	if err != nil {
		return toolError("%v", err), nil, nil
	}
	if !exists {
		return toolError("no generated tool at %s; run generate_tool first", dir), nil, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return toolError("%v", err), nil, nil
	}

	entry := hostcfg.EntryFor(abs)
	if err := hostcfg.Install(t.Fs, t.HostConfig, input.Name, entry); err != nil {
		return toolError("%v", err), nil, nil
	}

	return toolJSON(installResult{
		Tool:       input.Name,
		ConfigPath: t.HostConfig,
		Entry:      entry,
		Note:       "Restart the assistant to load the new tool",
	})
}

// ValidateTool re-runs the static validator over a previously generated
// tool directory, using the manifest to recover which template's contract
// applies.
func (t *GeneratorTools) ValidateTool(_ context.Context, _ *mcp.CallToolRequest, input ValidateToolInput) (*mcp.CallToolResult, any, error) {
	if input.Path == "" {
		return toolError("path is required"), nil, nil
	}

	dir := input.Path
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(t.OutputRoot, dir)
	}

	files, def, err := LoadTool(t.Fs, t.Catalog, dir)
	if err != nil {
		return toolError("%v", err), nil, nil
	}

	return toolJSON(engine.Check(files, def))
}

// LoadTool reads a generated tool directory back into memory and resolves
// its template definition from the manifest. The CLI validate command uses
// it too.
func LoadTool(fsys afero.Fs, cat *catalog.Catalog, dir string) ([]engine.File, *catalog.Definition, error) {
	var files []engine.File
	err := afero.Walk(fsys, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		content, err := afero.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, engine.File{Path: rel, Content: content})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	def, err := manifestTemplate(cat, files)
	if err != nil {
		return nil, nil, err
	}
	return files, def, nil
}

func manifestTemplate(cat *catalog.Catalog, files []engine.File) (*catalog.Definition, error) {
	for _, f := range files {
		if f.Path != "toolsmith.yaml" {
			continue
		}
		var manifest struct {
			Template string `yaml:"template"`
		}
		if err := yaml.Unmarshal(f.Content, &manifest); err != nil {
			return nil, &manifestError{reason: "manifest is not valid YAML"}
		}
		if manifest.Template == "" {
			return nil, &manifestError{reason: "manifest has no template id"}
		}
		return cat.Get(manifest.Template)
	}
	return nil, &manifestError{reason: "no toolsmith.yaml manifest found"}
}

type manifestError struct {
	reason string
}

func (e *manifestError) Error() string {
	return "cannot validate tool: " + e.reason
}
