package persist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

// ExecuteOptions configures execution behavior.
type ExecuteOptions struct {
	DryRun   bool
	Force    bool
	Writer   io.Writer // Where to write output (defaults to os.Stdout)
	Resolver *Resolver // Conflict handling; nil means conflicts fail
	Fs       afero.Fs  // Used to read existing files for conflict previews
}

// Execute runs operations with validation. All operations are validated
// before any executes; conflicts are routed through the resolver when one
// is configured.
func Execute(ctx context.Context, ops []Operation, opts ExecuteOptions) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	// Phase 1: validate all operations, resolving conflicts as they appear.
	runnable := make([]Operation, 0, len(ops))
	for _, op := range ops {
		err := op.Validate(ctx, opts.Force)
		if err == nil {
			runnable = append(runnable, op)
			continue
		}

		var conflict *ConflictError
		if !errors.As(err, &conflict) || opts.Resolver == nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		resolution, err := resolve(opts, conflict.Path, op)
		if err != nil {
			return err
		}
		switch resolution {
		case Overwrite:
			runnable = append(runnable, op)
		case Skip:
			fmt.Fprintf(opts.Writer, "– Skipped %s (kept existing file)\n", conflict.Path)
		case Cancel:
			return fmt.Errorf("cancelled: %s already exists", conflict.Path)
		}
	}

	// Phase 2: execute or report.
	for _, op := range runnable {
		if opts.DryRun {
			fmt.Fprintf(opts.Writer, "✓ [DRY RUN] %s\n", op.Description())
			continue
		}
		if err := op.Execute(ctx); err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
		fmt.Fprintf(opts.Writer, "✓ %s\n", op.Description())
	}

	return nil
}

// resolve reads the existing file and asks the resolver what to do with
// the conflicting write.
func resolve(opts ExecuteOptions, path string, op Operation) (Resolution, error) {
	var existing, newer []byte
	if w, ok := op.(*WriteFileOp); ok {
		newer = w.Content
		if opts.Fs != nil {
			if data, err := afero.ReadFile(opts.Fs, path); err == nil {
				existing = data
			}
		}
	}
	return opts.Resolver.Resolve(path, existing, newer)
}
