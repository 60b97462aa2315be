package rules

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolsmith-mcp/toolsmith/internal/registry"
)

func testRegistry(t *testing.T, names ...string) registry.Registry {
	t.Helper()
	reg := registry.New()
	for _, name := range names {
		var err error
		reg, err = reg.Upsert(name, registry.Command{
			Command:     "make " + name,
			Description: "Runs " + name,
		}, false)
		require.NoError(t, err)
	}
	return reg
}

func TestUpdateAppendsWhenMarkersAbsent(t *testing.T) {
	updated, err := Update("# My project\n\nSome notes.\n", "BLOCK")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(updated, "# My project\n\nSome notes.\n"))
	assert.Contains(t, updated, BeginMarker+"\nBLOCK\n"+EndMarker)
}

func TestUpdateReplacesExistingBlock(t *testing.T) {
	first, err := Update("intro\n", "OLD")
	require.NoError(t, err)

	second, err := Update(first, "NEW")
	require.NoError(t, err)

	assert.Contains(t, second, "NEW")
	assert.NotContains(t, second, "OLD")
	assert.True(t, strings.HasPrefix(second, "intro\n"))
}

func TestUpdateIsIdempotent(t *testing.T) {
	first, err := Update("user text above\n", "BLOCK")
	require.NoError(t, err)

	second, err := Update(first, "BLOCK")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestUpdatePreservesTextAroundBlock(t *testing.T) {
	doc := "above\n" + BeginMarker + "\nstale\n" + EndMarker + "\nbelow\n"

	updated, err := Update(doc, "fresh")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(updated, "above\n"))
	assert.True(t, strings.HasSuffix(updated, "below\n"))
	assert.NotContains(t, updated, "stale")
}

func TestUpdateMalformedMarkers(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"begin without end", BeginMarker + "\ncontent\n"},
		{"end without begin", "content\n" + EndMarker + "\n"},
		{"end before begin", EndMarker + "\n" + BeginMarker + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Update(tt.doc, "BLOCK")
			var merr *MalformedMarkersError
			require.ErrorAs(t, err, &merr)
		})
	}
}

func TestBlockListsCommandsSorted(t *testing.T) {
	block := Block(testRegistry(t, "zeta", "alpha"))

	assert.Contains(t, block, "## Saved commands")
	alphaAt := strings.Index(block, "`alpha`")
	zetaAt := strings.Index(block, "`zeta`")
	require.Positive(t, alphaAt)
	require.Positive(t, zetaAt)
	assert.Less(t, alphaAt, zetaAt)
	assert.Contains(t, block, "`make alpha` — Runs alpha")
}

func TestBlockEmptyRegistry(t *testing.T) {
	block := Block(registry.New())
	assert.Contains(t, block, "(no commands saved yet)")
}

func TestSyncCreatesMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	require.NoError(t, Sync(fs, "AGENTS.md", testRegistry(t, "build")))

	data, err := afero.ReadFile(fs, "AGENTS.md")
	require.NoError(t, err)
	assert.Contains(t, string(data), "`build`: `make build`")
}

func TestSyncPreservesUserContent(t *testing.T) {
	fs := afero.NewMemMapFs()
	original := "# Project rules\n\nAlways use tabs.\n"
	require.NoError(t, afero.WriteFile(fs, "AGENTS.md", []byte(original), 0o644))

	require.NoError(t, Sync(fs, "AGENTS.md", testRegistry(t, "build")))
	require.NoError(t, Sync(fs, "AGENTS.md", testRegistry(t, "build", "test")))

	data, err := afero.ReadFile(fs, "AGENTS.md")
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, original))
	assert.Contains(t, content, "`test`")
	assert.Equal(t, 1, strings.Count(content, BeginMarker))
	assert.Equal(t, 1, strings.Count(content, EndMarker))
}

func TestSyncLeavesMalformedFileUntouched(t *testing.T) {
	fs := afero.NewMemMapFs()
	broken := "notes\n" + BeginMarker + "\nno end marker\n"
	require.NoError(t, afero.WriteFile(fs, "AGENTS.md", []byte(broken), 0o644))

	err := Sync(fs, "AGENTS.md", testRegistry(t, "build"))
	var merr *MalformedMarkersError
	require.ErrorAs(t, err, &merr)

	data, readErr := afero.ReadFile(fs, "AGENTS.md")
	require.NoError(t, readErr)
	assert.Equal(t, broken, string(data))
}
