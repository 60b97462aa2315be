package registry

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(afero.NewMemMapFs(), filepath.Join(".toolsmith", "commands.json"))
}

func TestLoadMissingDocument(t *testing.T) {
	store := newTestStore(t)

	reg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, reg.Version)
	assert.Empty(t, reg.Commands)
	assert.False(t, reg.Corrupted)
}

func TestLoadCorruptDocument(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "commands.json"
	garbage := []byte("{ not json")
	require.NoError(t, afero.WriteFile(fs, path, garbage, 0o644))

	store := NewStore(fs, path)
	reg, err := store.Load()
	require.NoError(t, err)

	assert.True(t, reg.Corrupted)
	assert.Equal(t, garbage, reg.Raw)
	assert.Empty(t, reg.Commands)

	// The broken file stays on disk untouched until the next save.
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, garbage, data)
}

func TestLoadDocumentWithoutCommandsKey(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "commands.json"
	require.NoError(t, afero.WriteFile(fs, path, []byte(`{"version":"1"}`), 0o644))

	store := NewStore(fs, path)
	reg, err := store.Load()
	require.NoError(t, err)

	// Well-formed but empty is not corruption.
	assert.False(t, reg.Corrupted)
	assert.Empty(t, reg.Commands)
	assert.Equal(t, "1", reg.Version)

	// The registry is usable: commands can be registered into it.
	_, _, err = store.Register("build", "go build ./...", "", SourceManual, false)
	require.NoError(t, err)
}

func TestRegisterRoundTrip(t *testing.T) {
	store := newTestStore(t)

	entry, _, err := store.Register("test-all", "go test ./...", "Run all tests", SourceManual, false)
	require.NoError(t, err)
	assert.Equal(t, "test-all", entry.Name)
	assert.False(t, entry.CreatedAt.IsZero())

	reg, err := store.Load()
	require.NoError(t, err)
	cmd, ok := reg.Get("test-all")
	require.True(t, ok)
	assert.Equal(t, "go test ./...", cmd.Command)
	assert.Equal(t, "Run all tests", cmd.Description)
	assert.Equal(t, SourceManual, cmd.Source)
	assert.Equal(t, entry.CreatedAt, cmd.CreatedAt)
}

func TestRegisterConflictAndOverwrite(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Register("deploy", "make deploy", "", SourceManual, false)
	require.NoError(t, err)

	_, _, err = store.Register("deploy", "kubectl apply -f .", "", SourceManual, false)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)

	_, _, err = store.Register("deploy", "kubectl apply -f .", "", SourceManual, true)
	require.NoError(t, err)

	reg, err := store.Load()
	require.NoError(t, err)
	cmd, _ := reg.Get("deploy")
	assert.Equal(t, "kubectl apply -f .", cmd.Command)
}

func TestRegisterSequentialWritesBothSurvive(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Register("build", "go build ./...", "", SourceManual, false)
	require.NoError(t, err)
	_, _, err = store.Register("lint", "golangci-lint run", "", SourceManual, false)
	require.NoError(t, err)

	reg, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, reg.Commands, 2)
}

func TestRegisterInvalidEntryWritesNothing(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Register("bad name!", "echo hi", "", SourceManual, false)
	require.Error(t, err)

	exists, err := afero.Exists(store.fs, store.path)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestForget(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Register("lint", "golangci-lint run", "", SourceManual, false)
	require.NoError(t, err)

	_, err = store.Forget("lint")
	require.NoError(t, err)

	reg, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, reg.Commands)

	_, err = store.Forget("lint")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestPersistLeavesNoTempFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "commands.json")

	_, _, err := store.Register("build", "go build ./...", "", SourceManual, false)
	require.NoError(t, err)

	infos, err := afero.ReadDir(fs, ".")
	require.NoError(t, err)
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	assert.Equal(t, []string{"commands.json"}, names)
}
