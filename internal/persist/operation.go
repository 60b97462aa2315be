// Package persist is the injected persistence boundary. The engine
// computes write-sets as pure values; this package turns them into file
// operations against an afero.Fs, so the whole pipeline runs against an
// in-memory filesystem in tests.
package persist

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/toolsmith-mcp/toolsmith/internal/engine"
)

// Operation represents a file system operation that can be validated and
// executed.
//
// Validate checks if the operation would succeed without executing it.
// Creating parent directories during validation is an accepted side effect.
// force=true skips conflict checks.
//
// Execute performs the actual operation, and should only be called after
// Validate succeeds.
//
// Description returns a human-readable description for output,
// e.g. "Create weather/tool.go (1204 bytes)".
type Operation interface {
	Validate(ctx context.Context, force bool) error
	Execute(ctx context.Context) error
	Description() string
}

// ConflictError reports that a target file already exists. The executor
// hands it to a conflict resolver when one is configured.
type ConflictError struct {
	Path string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("file already exists: %s", e.Path)
}

// WriteFileOp creates a file with content on an injected filesystem.
type WriteFileOp struct {
	Fs      afero.Fs
	Path    string      // File path to create
	Content []byte      // File content (can be empty, must not be nil)
	Mode    fs.FileMode // File permissions (e.g., 0644)
}

func (op *WriteFileOp) Validate(ctx context.Context, force bool) error {
	dir := filepath.Dir(op.Path)

	// Create parent directory (side effect, but idempotent)
	if err := op.Fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", dir, err)
	}

	if !force {
		exists, err := afero.Exists(op.Fs, op.Path)
		if err != nil {
			return fmt.Errorf("cannot stat %s: %w", op.Path, err)
		}
		if exists {
			return &ConflictError{Path: op.Path}
		}
	}

	// Reject nil content (empty is OK)
	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}

	return nil
}

func (op *WriteFileOp) Execute(ctx context.Context) error {
	dir := filepath.Dir(op.Path)
	if err := op.Fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return afero.WriteFile(op.Fs, op.Path, op.Content, op.Mode)
}

func (op *WriteFileOp) Description() string {
	return fmt.Sprintf("Create %s (%d bytes)", op.Path, len(op.Content))
}

// Ops builds the write operations for a validated write-set rooted at dir.
func Ops(fsys afero.Fs, dir string, ws *engine.WriteSet) []Operation {
	ops := make([]Operation, 0, len(ws.Files))
	for _, f := range ws.Files {
		ops = append(ops, &WriteFileOp{
			Fs:      fsys,
			Path:    filepath.Join(dir, f.Path),
			Content: f.Content,
			Mode:    0o644,
		})
	}
	return ops
}
