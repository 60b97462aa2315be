// Package catalog holds the closed set of tool templates toolsmith can
// generate from. Definitions live in embedded catalog data, so adding a
// template is a data change, not an engine change.
package catalog

import (
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml templates
var catalogFS embed.FS

// Kind is the type of a template parameter.
type Kind string

const (
	KindString     Kind = "string"
	KindEnum       Kind = "enum"
	KindURL        Kind = "url"
	KindIdentifier Kind = "identifier"
)

// ParamSpec describes one parameter a template accepts.
type ParamSpec struct {
	Name        string   `yaml:"name" json:"name"`
	Kind        Kind     `yaml:"kind" json:"kind"`
	Required    bool     `yaml:"required" json:"required"`
	Default     string   `yaml:"default" json:"default,omitempty"`
	Enum        []string `yaml:"enum" json:"enum,omitempty"`
	Description string   `yaml:"description" json:"description,omitempty"`
}

// Output maps a relative path in the generated tool directory to the
// template file that produces it.
type Output struct {
	Path     string `yaml:"path"`
	Template string `yaml:"template"`
}

// Dep is a module the generated code depends on, declared in the
// generated go.mod.
type Dep struct {
	Path    string `yaml:"path"`
	Version string `yaml:"version"`
}

// Contract lists the constructs a rendered tool must contain to be
// considered valid output of its template.
type Contract struct {
	EntryPoint string   `yaml:"entrypoint"`
	Functions  []string `yaml:"functions"`
	Imports    []string `yaml:"imports"`
	Deps       []Dep    `yaml:"deps"`
}

// Definition is one template: id, parameter schema, output file set, and
// structural contract. Immutable once loaded.
type Definition struct {
	ID          string      `yaml:"id"`
	Version     string      `yaml:"version"`
	Description string      `yaml:"description"`
	Params      []ParamSpec `yaml:"params"`
	Outputs     []Output    `yaml:"outputs"`
	Contract    Contract    `yaml:"contract"`
}

// NotFoundError is returned when a template id is not in the catalog.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %q is not in the catalog", e.ID)
}

// Catalog is the loaded template registry.
type Catalog struct {
	defs []Definition
	byID map[string]*Definition
}

type catalogFile struct {
	Version   string       `yaml:"version"`
	Templates []Definition `yaml:"templates"`
}

// Load parses the embedded catalog data. Called once per process by the
// CLI and server; tests may call it freely.
func Load() (*Catalog, error) {
	data, err := catalogFS.ReadFile("catalog.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog.yaml: %w", err)
	}

	c := &Catalog{
		defs: file.Templates,
		byID: make(map[string]*Definition, len(file.Templates)),
	}
	for i := range c.defs {
		def := &c.defs[i]
		if _, dup := c.byID[def.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %q in catalog", def.ID)
		}
		for _, out := range def.Outputs {
			if _, err := catalogFS.ReadFile("templates/" + out.Template); err != nil {
				return nil, fmt.Errorf("template %s: missing source %s: %w", def.ID, out.Template, err)
			}
		}
		c.byID[def.ID] = def
	}

	sort.Slice(c.defs, func(i, j int) bool { return c.defs[i].ID < c.defs[j].ID })
	return c, nil
}

// List returns all template definitions ordered by id. Never fails.
func (c *Catalog) List() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Get returns the definition for id, or a NotFoundError.
func (c *Catalog) Get(id string) (*Definition, error) {
	def, ok := c.byID[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return def, nil
}

// TemplateSource returns the raw bytes of a template file referenced by an
// Output entry.
func (c *Catalog) TemplateSource(name string) ([]byte, error) {
	return catalogFS.ReadFile("templates/" + name)
}
