// Package validation holds the shared violation-list types used by both the
// generation engine and the command registry. A failed validation always
// carries every detected problem, never a single opaque message.
package validation

import (
	"fmt"
	"strings"
)

// Problem describes one violation. Field is set for parameter problems,
// File for problems found in a rendered artifact.
type Problem struct {
	File    string `json:"file,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (p Problem) String() string {
	switch {
	case p.Field != "":
		return fmt.Sprintf("%s: %s", p.Field, p.Message)
	case p.File != "":
		return fmt.Sprintf("%s: %s", p.File, p.Message)
	default:
		return p.Message
	}
}

// Error is returned when input parameters or a generated artifact violate
// their contract. It aggregates all problems found in one pass.
type Error struct {
	Problems []Problem
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("validation failed with %d problem(s)", len(e.Problems)))
	for _, p := range e.Problems {
		sb.WriteString("\n  ✗ " + p.String())
	}
	return sb.String()
}

// Result is the outcome of checking a write-set. Valid is false whenever
// Problems is non-empty.
type Result struct {
	Valid    bool      `json:"valid"`
	Problems []Problem `json:"problems,omitempty"`
}

// ResultFor builds a Result from a list of problems.
func ResultFor(problems []Problem) Result {
	return Result{Valid: len(problems) == 0, Problems: problems}
}
