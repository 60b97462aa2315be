// Package hostcfg registers generated tools in the host assistant's MCP
// configuration file (mcp.json), so a generated tool becomes usable without
// hand-editing config. The file is user-owned: only the one mcpServers
// entry being installed is touched, everything else is preserved.
package hostcfg

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Entry is one mcpServers server definition.
type Entry struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// EntryFor builds the server definition that launches a generated tool.
// go run takes the absolute tool directory, so the entry works regardless
// of where the assistant starts the process.
func EntryFor(toolDir string) Entry {
	return Entry{Command: "go", Args: []string{"run", toolDir}}
}

// Install upserts the mcpServers entry for name into the config document
// at path, creating the document when missing. Unrelated top-level keys
// and other server entries pass through untouched; the write uses the same
// temp-file-then-rename pattern as the registry document. An unparsable
// existing config is an error, never overwritten.
func Install(fs afero.Fs, path, name string, entry Entry) error {
	config := map[string]json.RawMessage{}

	data, err := afero.ReadFile(fs, path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err == nil {
		if err := json.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("%s is not valid JSON; fix or remove it first: %w", path, err)
		}
	}

	servers := map[string]json.RawMessage{}
	if raw, ok := config["mcpServers"]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &servers); err != nil {
			return fmt.Errorf("%s: mcpServers is not an object: %w", path, err)
		}
	}

	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding server entry: %w", err)
	}
	servers[name] = entryJSON

	serversJSON, err := json.Marshal(servers)
	if err != nil {
		return fmt.Errorf("encoding mcpServers: %w", err)
	}
	config["mcpServers"] = serversJSON

	out, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	out = append(out, '\n')

	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp := fmt.Sprintf("%s.tmp.%s", path, uuid.NewString())
	if err := afero.WriteFile(fs, tmp, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		fs.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
