// Package discover scans a project's build files for commands worth saving:
// package.json scripts and Makefile targets. Candidates are suggestions
// only; nothing is written to the registry until the caller registers them.
package discover

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Candidate is one discovered command, named after the script or target
// that defines it.
type Candidate struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Origin      string `json:"origin"`
}

// Scan inspects root for known build files and returns candidates sorted
// by origin then name. Missing build files are skipped, not errors.
func Scan(fs afero.Fs, root string) ([]Candidate, error) {
	var out []Candidate

	pkg, err := scanPackageJSON(fs, filepath.Join(root, "package.json"))
	if err != nil {
		return nil, err
	}
	out = append(out, pkg...)

	mk, err := scanMakefile(fs, filepath.Join(root, "Makefile"))
	if err != nil {
		return nil, err
	}
	out = append(out, mk...)

	sort.Slice(out, func(i, j int) bool {
		if out[i].Origin != out[j].Origin {
			return out[i].Origin < out[j].Origin
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func scanPackageJSON(fs afero.Fs, path string) ([]Candidate, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var pkg struct {
		Scripts map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		// An unparsable package.json is the project's problem, not ours;
		// discovery just has nothing to report from it.
		return nil, nil
	}

	names := make([]string, 0, len(pkg.Scripts))
	for name := range pkg.Scripts {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Candidate, 0, len(names))
	for _, name := range names {
		out = append(out, Candidate{
			Name:        sanitizeName(name),
			Command:     "npm run " + name,
			Description: fmt.Sprintf("package.json script: %s", pkg.Scripts[name]),
			Origin:      "package.json",
		})
	}
	return out, nil
}

func scanMakefile(fs afero.Fs, path string) ([]Candidate, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var out []Candidate
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		target, ok := makeTarget(line)
		if !ok || seen[target] {
			continue
		}
		seen[target] = true
		out = append(out, Candidate{
			Name:        sanitizeName(target),
			Command:     "make " + target,
			Description: "Makefile target",
			Origin:      "Makefile",
		})
	}
	return out, scanner.Err()
}

// makeTarget extracts a plain rule target from a Makefile line. Pattern
// rules, special targets, variable assignments and indented recipe lines
// are skipped.
func makeTarget(line string) (string, bool) {
	if line == "" || line[0] == '\t' || line[0] == '#' {
		return "", false
	}

	colon := strings.IndexByte(line, ':')
	if colon <= 0 {
		return "", false
	}
	// "NAME := value" is an assignment, not a rule.
	if colon+1 < len(line) && line[colon+1] == '=' {
		return "", false
	}
	if strings.ContainsAny(line[:colon], "=$%") {
		return "", false
	}

	target := strings.TrimSpace(line[:colon])
	if target == "" || strings.HasPrefix(target, ".") || strings.ContainsAny(target, " \t") {
		return "", false
	}
	return target, true
}

// sanitizeName maps a script/target name onto the registry's name pattern
// (package.json scripts like "test:e2e" are common).
func sanitizeName(name string) string {
	var sb strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			sb.WriteRune(r)
		case i > 0 && (r >= '0' && r <= '9' || r == '.' || r == '_' || r == '-'):
			sb.WriteRune(r)
		default:
			if i > 0 {
				sb.WriteRune('-')
			}
		}
	}
	return sb.String()
}
