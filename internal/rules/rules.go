// Package rules maintains a managed block inside an otherwise user-owned
// rules file (AGENTS.md by default). The block tells the host assistant
// that saved commands exist; everything outside the markers belongs to the
// user and is never modified.
package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/toolsmith-mcp/toolsmith/internal/registry"
)

// Marker token "saved-commands" identifies this block, so unrelated managed
// blocks added later cannot collide with it.
const (
	BeginMarker = "<!-- toolsmith:begin saved-commands -->"
	EndMarker   = "<!-- toolsmith:end saved-commands -->"
)

// MalformedMarkersError reports a begin marker without an end (or the
// reverse), or markers in the wrong order. The file is left untouched.
type MalformedMarkersError struct {
	Reason string
}

func (e *MalformedMarkersError) Error() string {
	return fmt.Sprintf("malformed managed-block markers: %s", e.Reason)
}

// Update returns existing with the managed span replaced by block. When no
// markers are present the block (with markers) is appended. Applying the
// same block twice is a no-op; content outside the markers is never
// modified.
func Update(existing, block string) (string, error) {
	begin := strings.Index(existing, BeginMarker)
	end := strings.Index(existing, EndMarker)

	switch {
	case begin == -1 && end == -1:
		sep := ""
		if existing != "" {
			sep = "\n"
			if !strings.HasSuffix(existing, "\n") {
				sep = "\n\n"
			}
		}
		return existing + sep + BeginMarker + "\n" + block + "\n" + EndMarker + "\n", nil

	case begin == -1:
		return "", &MalformedMarkersError{Reason: "end marker present without begin marker"}

	case end == -1:
		return "", &MalformedMarkersError{Reason: "begin marker present without end marker"}

	case end < begin:
		return "", &MalformedMarkersError{Reason: "end marker precedes begin marker"}
	}

	head := existing[:begin+len(BeginMarker)]
	tail := existing[end:]
	return head + "\n" + block + "\n" + tail, nil
}

// Block renders the managed span content for a registry. The output is
// deterministic: entries are listed sorted by name.
func Block(reg registry.Registry) string {
	var sb strings.Builder
	sb.WriteString("## Saved commands\n\n")
	sb.WriteString("This project stores reusable commands in a registry managed by toolsmith.\n")
	sb.WriteString("When asked to run, build, test, or deploy, check these first:\n")

	entries := reg.List()
	if len(entries) == 0 {
		sb.WriteString("\n(no commands saved yet)")
		return sb.String()
	}

	sb.WriteString("\n")
	for _, cmd := range entries {
		sb.WriteString(fmt.Sprintf("- `%s`: `%s`", cmd.Name, cmd.Command))
		if cmd.Description != "" {
			sb.WriteString(" — " + cmd.Description)
		}
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// Sync rewrites the managed block in the rules file at path to reflect
// reg, using the same write-temp-then-rename pattern as the registry
// document. A missing rules file is created.
func Sync(fs afero.Fs, path string, reg registry.Registry) error {
	existing := ""
	data, err := afero.ReadFile(fs, path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err == nil {
		existing = string(data)
	}

	updated, err := Update(existing, Block(reg))
	if err != nil {
		return err
	}
	if updated == existing {
		return nil
	}

	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp := fmt.Sprintf("%s.tmp.%s", path, uuid.NewString())
	if err := afero.WriteFile(fs, tmp, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		fs.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
