package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Store reads and writes the registry document on an injected filesystem.
//
// Persist writes to a temporary file and renames it into place, so a crash
// or concurrent reader never observes a half-written document. Two
// concurrent writers still race on the final rename; last writer wins, and
// that is the accepted semantics. There is no cross-process lock.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore creates a store for the document at path.
func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Path returns the document location.
func (s *Store) Path() string {
	return s.path
}

// document is the on-disk shape of the registry.
type document struct {
	Version  string             `json:"version"`
	Commands map[string]Command `json:"commands"`
}

// Load reads the registry document. A missing document yields an empty
// registry. An unparsable document yields an empty registry with Corrupted
// set and the original bytes preserved in Raw; the file is never silently
// discarded. A well-formed document without a commands key is simply empty,
// not corrupted.
func (s *Store) Load() (Registry, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return Registry{}, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		reg := New()
		reg.Corrupted = true
		reg.Raw = data
		return reg, nil
	}

	reg := New()
	reg.Version = doc.Version
	if reg.Version == "" {
		reg.Version = SchemaVersion
	}
	for name, cmd := range doc.Commands {
		cmd.Name = name
		reg.Commands[name] = cmd
	}
	return reg, nil
}

// Persist writes the registry document atomically: marshal, write a
// temporary sibling file, rename into place. The rename is the only
// state-changing step; if anything fails before it, the prior document is
// left intact.
func (s *Store) Persist(reg Registry) error {
	doc := document{
		Version:  reg.Version,
		Commands: reg.Commands,
	}
	if doc.Version == "" {
		doc.Version = SchemaVersion
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp := fmt.Sprintf("%s.tmp.%s", s.path, uuid.NewString())
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		s.fs.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

// Register loads the current on-disk document, merges one upsert, and
// persists it. Reloading immediately before the merge narrows (but cannot
// eliminate) lost updates under concurrent writers.
func (s *Store) Register(name, command, description string, source Source, overwrite bool) (Command, Registry, error) {
	reg, err := s.Load()
	if err != nil {
		return Command{}, Registry{}, err
	}

	entry := Command{
		Command:     command,
		Description: description,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
		Source:      source,
	}
	next, err := reg.Upsert(name, entry, overwrite)
	if err != nil {
		return Command{}, reg, err
	}

	if err := s.Persist(next); err != nil {
		return Command{}, reg, err
	}
	entry.Name = name
	return entry, next, nil
}

// Forget loads the current on-disk document, removes one entry, and
// persists the result.
func (s *Store) Forget(name string) (Registry, error) {
	reg, err := s.Load()
	if err != nil {
		return Registry{}, err
	}

	next, err := reg.Remove(name)
	if err != nil {
		return reg, err
	}

	if err := s.Persist(next); err != nil {
		return reg, err
	}
	return next, nil
}
