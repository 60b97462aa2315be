package discover

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const packageJSON = `{
  "name": "frontend",
  "scripts": {
    "test": "jest",
    "build": "webpack --mode production",
    "test:e2e": "playwright test"
  }
}`

const makefile = `# build tooling
BINARY = app

build:
	go build -o $(BINARY) ./...

test: build
	go test ./...

.PHONY: build test

%.o: %.c
	cc -c $<
`

func TestScanPackageJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "package.json", []byte(packageJSON), 0o644))

	got, err := Scan(fs, ".")
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Sorted by name within the origin.
	assert.Equal(t, "build", got[0].Name)
	assert.Equal(t, "npm run build", got[0].Command)
	assert.Contains(t, got[0].Description, "webpack")

	assert.Equal(t, "test", got[1].Name)

	// "test:e2e" is sanitized to a registry-safe name.
	assert.Equal(t, "test-e2e", got[2].Name)
	assert.Equal(t, "npm run test:e2e", got[2].Command)
}

func TestScanMakefile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "Makefile", []byte(makefile), 0o644))

	got, err := Scan(fs, ".")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "build", got[0].Name)
	assert.Equal(t, "make build", got[0].Command)
	assert.Equal(t, "Makefile", got[0].Origin)
	assert.Equal(t, "test", got[1].Name)
}

func TestScanBothSources(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "package.json", []byte(packageJSON), 0o644))
	require.NoError(t, afero.WriteFile(fs, "Makefile", []byte(makefile), 0o644))

	got, err := Scan(fs, ".")
	require.NoError(t, err)
	assert.Len(t, got, 5)

	// Makefile sorts before package.json, names sorted within each.
	assert.Equal(t, "Makefile", got[0].Origin)
	assert.Equal(t, "package.json", got[2].Origin)
}

func TestScanEmptyProject(t *testing.T) {
	got, err := Scan(afero.NewMemMapFs(), ".")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestScanUnparsablePackageJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "package.json", []byte("{ broken"), 0o644))

	got, err := Scan(fs, ".")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMakeTarget(t *testing.T) {
	tests := []struct {
		line   string
		target string
		ok     bool
	}{
		{"build:", "build", true},
		{"test: build", "test", true},
		{"\tgo build ./...", "", false},
		{"# comment:", "", false},
		{".PHONY: build test", "", false},
		{"BINARY = app", "", false},
		{"BINARY := app", "", false},
		{"%.o: %.c", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		target, ok := makeTarget(tt.line)
		assert.Equal(t, tt.ok, ok, "line %q", tt.line)
		assert.Equal(t, tt.target, target, "line %q", tt.line)
	}
}
