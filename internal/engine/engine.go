// Package engine is the template generation pipeline: parameter validation,
// deterministic rendering, and static validation of the rendered output.
// The engine never touches the filesystem; it produces a write-set that the
// caller hands to the persistence boundary.
package engine

import (
	"fmt"
	"sort"

	"github.com/toolsmith-mcp/toolsmith/internal/catalog"
	"github.com/toolsmith-mcp/toolsmith/internal/validation"
)

// File is one rendered output: a path relative to the tool directory and
// its content.
type File struct {
	Path    string
	Content []byte
}

// WriteSet is the product of one generation request. It is only handed to
// a caller once every file in it has passed the static validator.
type WriteSet struct {
	Tool       string
	Template   string
	Files      []File
	Validation validation.Result
}

// ParamValue is a name/value pair, used to render parameter lists in a
// stable order.
type ParamValue struct {
	Name  string
	Value string
}

// renderContext is the data handed to every template.
type renderContext struct {
	Template *catalog.Definition
	Values   map[string]string
	Params   []ParamValue
}

// Engine generates tools from the catalog.
type Engine struct {
	catalog  *catalog.Catalog
	renderer *Renderer
}

// New creates an engine over a loaded catalog.
func New(c *catalog.Catalog) *Engine {
	return &Engine{
		catalog:  c,
		renderer: NewRenderer(),
	}
}

// Generate runs the full pipeline for one request. It returns a
// *catalog.NotFoundError for an unknown template and a *validation.Error
// when parameters or the rendered output violate their contracts. No
// write-set is ever returned with a failed validation.
func (e *Engine) Generate(templateID string, raw map[string]string) (*WriteSet, error) {
	def, err := e.catalog.Get(templateID)
	if err != nil {
		return nil, err
	}

	values, err := ValidateParams(def, raw)
	if err != nil {
		return nil, err
	}

	files, err := e.render(def, values)
	if err != nil {
		return nil, err
	}

	result := Check(files, def)
	if !result.Valid {
		return nil, &validation.Error{Problems: result.Problems}
	}

	return &WriteSet{
		Tool:       values["name"],
		Template:   def.ID,
		Files:      files,
		Validation: result,
	}, nil
}

// render fills each of the template's outputs with the validated values.
func (e *Engine) render(def *catalog.Definition, values map[string]string) ([]File, error) {
	params := make([]ParamValue, 0, len(values))
	for name, value := range values {
		params = append(params, ParamValue{Name: name, Value: value})
	}
	sort.Slice(params, func(i, j int) bool { return params[i].Name < params[j].Name })

	data := renderContext{
		Template: def,
		Values:   values,
		Params:   params,
	}

	files := make([]File, 0, len(def.Outputs))
	for _, out := range def.Outputs {
		src, err := e.catalog.TemplateSource(out.Template)
		if err != nil {
			return nil, fmt.Errorf("loading template %s: %w", out.Template, err)
		}
		content, err := e.renderer.Render(out.Template, src, data)
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", out.Path, err)
		}
		files = append(files, File{Path: out.Path, Content: content})
	}
	return files, nil
}
