// Package registry is the persistent store of remembered shell commands.
// A Registry is an explicit value: operations return a new Registry rather
// than mutating shared state, and the Store reloads the backing document on
// every call, so there is no ambient cached registry to go stale.
package registry

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"mvdan.cc/sh/v3/syntax"

	"github.com/toolsmith-mcp/toolsmith/internal/validation"
)

// SchemaVersion is written into every persisted document so future formats
// can be migrated.
const SchemaVersion = "1"

// Source records how a command entered the registry.
type Source string

const (
	SourceManual     Source = "manual"
	SourceDiscovered Source = "discovered"
)

// Command is one remembered shell command.
type Command struct {
	Name        string    `json:"-"`
	Command     string    `json:"command"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	Source      Source    `json:"source"`
}

// Registry is an ordered mapping of name to Command. The zero value is not
// usable; construct with New or Store.Load.
type Registry struct {
	Version  string
	Commands map[string]Command

	// Corrupted is set when the backing document existed but could not be
	// parsed. Raw preserves the original bytes for inspection; the registry
	// itself starts empty in that case.
	Corrupted bool
	Raw       []byte
}

// New returns an empty registry at the current schema version.
func New() Registry {
	return Registry{
		Version:  SchemaVersion,
		Commands: make(map[string]Command),
	}
}

// ConflictError is returned by Upsert when the name already exists and the
// caller did not pass the overwrite flag.
type ConflictError struct {
	Name string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("command %q already exists (pass overwrite to replace it)", e.Name)
}

// NotFoundError is returned by Remove for an unknown command name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("command %q is not in the registry", e.Name)
}

// List returns all commands sorted by name, with Name populated.
func (r Registry) List() []Command {
	out := make([]Command, 0, len(r.Commands))
	for name, cmd := range r.Commands {
		cmd.Name = name
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get looks up a command by name.
func (r Registry) Get(name string) (Command, bool) {
	cmd, ok := r.Commands[name]
	if ok {
		cmd.Name = name
	}
	return cmd, ok
}

// Upsert returns a new Registry containing cmd under name. Without
// overwrite, an existing name yields a ConflictError. The name and command
// string are validated before anything is stored.
func (r Registry) Upsert(name string, cmd Command, overwrite bool) (Registry, error) {
	if err := ValidateEntry(name, cmd.Command); err != nil {
		return r, err
	}
	if _, exists := r.Commands[name]; exists && !overwrite {
		return r, &ConflictError{Name: name}
	}

	next := r.clone()
	cmd.Name = name
	next.Commands[name] = cmd
	return next, nil
}

// Remove returns a new Registry without name, or a NotFoundError.
func (r Registry) Remove(name string) (Registry, error) {
	if _, exists := r.Commands[name]; !exists {
		return r, &NotFoundError{Name: name}
	}

	next := r.clone()
	delete(next.Commands, name)
	return next, nil
}

func (r Registry) clone() Registry {
	next := Registry{
		Version:   r.Version,
		Commands:  make(map[string]Command, len(r.Commands)+1),
		Corrupted: r.Corrupted,
		Raw:       r.Raw,
	}
	if next.Version == "" {
		next.Version = SchemaVersion
	}
	for k, v := range r.Commands {
		next.Commands[k] = v
	}
	return next
}

// namePattern constrains command names: no path separators, no shell
// metacharacters, so a name is always safe to echo into docs and configs.
var namePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9._-]*$`)

// ValidateEntry checks a command name and its shell command string,
// returning a *validation.Error listing every violation.
func ValidateEntry(name, command string) error {
	var problems []validation.Problem

	if !namePattern.MatchString(name) {
		problems = append(problems, validation.Problem{
			Field:   "name",
			Message: "must start with a letter and contain only letters, digits, '.', '_' or '-'",
		})
	}

	if strings.TrimSpace(command) == "" {
		problems = append(problems, validation.Problem{
			Field:   "command",
			Message: "command string is empty",
		})
	} else if err := parseShell(command); err != nil {
		problems = append(problems, validation.Problem{
			Field:   "command",
			Message: fmt.Sprintf("not valid shell: %v", err),
		})
	}

	if len(problems) > 0 {
		return &validation.Error{Problems: problems}
	}
	return nil
}

// parseShell runs the command string through a bash-grammar parser. The
// string is stored opaque and never executed here; parsing just catches
// quoting mistakes before they are persisted.
func parseShell(command string) error {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	_, err := parser.Parse(strings.NewReader(command), "")
	return err
}
