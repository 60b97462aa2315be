package persist

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolsmith-mcp/toolsmith/internal/engine"
)

func testWriteSet() *engine.WriteSet {
	return &engine.WriteSet{
		Tool:     "weather",
		Template: "http-api-wrapper",
		Files: []engine.File{
			{Path: "tool.go", Content: []byte("package main\n")},
			{Path: "go.mod", Content: []byte("module toolsmith.local/weather\n")},
		},
	}
}

func TestExecuteWritesAllFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	ops := Ops(fs, "out/weather", testWriteSet())

	var buf bytes.Buffer
	err := Execute(context.Background(), ops, ExecuteOptions{Writer: &buf, Fs: fs})
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "out/weather/tool.go")
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(data))

	exists, err := afero.Exists(fs, "out/weather/go.mod")
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Contains(t, buf.String(), "tool.go")
}

func TestExecuteDryRunWritesNothing(t *testing.T) {
	fs := afero.NewMemMapFs()
	ops := Ops(fs, "out/weather", testWriteSet())

	var buf bytes.Buffer
	err := Execute(context.Background(), ops, ExecuteOptions{DryRun: true, Writer: &buf, Fs: fs})
	require.NoError(t, err)

	exists, err := afero.Exists(fs, "out/weather/tool.go")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Contains(t, buf.String(), "[DRY RUN]")
}

func TestExecuteConflictWithoutResolverFails(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "out/weather/tool.go", []byte("old"), 0o644))

	ops := Ops(fs, "out/weather", testWriteSet())
	err := Execute(context.Background(), ops, ExecuteOptions{Writer: &bytes.Buffer{}, Fs: fs})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// The conflicting file is untouched.
	data, readErr := afero.ReadFile(fs, "out/weather/tool.go")
	require.NoError(t, readErr)
	assert.Equal(t, "old", string(data))
}

func TestExecuteForceOverwrites(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "out/weather/tool.go", []byte("old"), 0o644))

	ops := Ops(fs, "out/weather", testWriteSet())
	err := Execute(context.Background(), ops, ExecuteOptions{Force: true, Writer: &bytes.Buffer{}, Fs: fs})
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "out/weather/tool.go")
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(data))
}

func TestExecuteSkipStrategyKeepsExisting(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "out/weather/tool.go", []byte("old"), 0o644))

	resolver, err := NewResolver(false, true)
	require.NoError(t, err)

	ops := Ops(fs, "out/weather", testWriteSet())
	var buf bytes.Buffer
	err = Execute(context.Background(), ops, ExecuteOptions{Resolver: resolver, Writer: &buf, Fs: fs})
	require.NoError(t, err)

	// Existing file kept, missing file still written.
	data, err := afero.ReadFile(fs, "out/weather/tool.go")
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	exists, err := afero.Exists(fs, "out/weather/go.mod")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Contains(t, buf.String(), "Skipped")
}

func TestExecuteForceResolverOverwrites(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "out/weather/tool.go", []byte("old"), 0o644))

	resolver, err := NewResolver(true, false)
	require.NoError(t, err)

	ops := Ops(fs, "out/weather", testWriteSet())
	err = Execute(context.Background(), ops, ExecuteOptions{Resolver: resolver, Writer: &bytes.Buffer{}, Fs: fs})
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "out/weather/tool.go")
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(data))
}

func TestNewResolverRejectsForceAndSkip(t *testing.T) {
	_, err := NewResolver(true, true)
	require.Error(t, err)
}

func TestWriteFileOpRejectsNilContent(t *testing.T) {
	op := &WriteFileOp{
		Fs:   afero.NewMemMapFs(),
		Path: "tool.go",
		Mode: 0o644,
	}
	err := op.Validate(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content is nil")
}

func TestRenderDiffMarksChanges(t *testing.T) {
	diff := renderDiff([]byte("a\nb\nc\n"), []byte("a\nB\nc\n"))
	assert.Contains(t, diff, "b")
	assert.Contains(t, diff, "B")
	assert.Contains(t, diff, "-")
	assert.Contains(t, diff, "+")
}
