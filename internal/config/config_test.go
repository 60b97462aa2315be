package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, ".toolsmith", "commands.json"), cfg.Registry)
	assert.Equal(t, filepath.Join(root, "AGENTS.md"), cfg.Rules)
	assert.Equal(t, filepath.Join(root, ".toolsmith", "tools"), cfg.Output)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".cursor", "mcp.json"), cfg.HostConfig)
}

func TestLoadConfigFile(t *testing.T) {
	root := t.TempDir()
	content := "rules: CONVENTIONS.md\noutput: generated\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".toolsmith.yaml"), []byte(content), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "CONVENTIONS.md"), cfg.Rules)
	assert.Equal(t, filepath.Join(root, "generated"), cfg.Output)
	// Unset keys keep their defaults.
	assert.Equal(t, filepath.Join(root, ".toolsmith", "commands.json"), cfg.Registry)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	content := "rules: CONVENTIONS.md\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".toolsmith.yaml"), []byte(content), 0o644))
	t.Setenv("TOOLSMITH_RULES", "RULES.md")

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "RULES.md"), cfg.Rules)
}

func TestLoadAbsolutePathsKept(t *testing.T) {
	root := t.TempDir()
	abs := filepath.Join(t.TempDir(), "commands.json")
	t.Setenv("TOOLSMITH_REGISTRY", abs)

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.Registry)
}

func TestLoadBrokenConfigFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".toolsmith.yaml"), []byte(":\tnot yaml"), 0o644))

	_, err := Load(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}
