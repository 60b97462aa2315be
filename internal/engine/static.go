package engine

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"

	"github.com/toolsmith-mcp/toolsmith/internal/catalog"
	"github.com/toolsmith-mcp/toolsmith/internal/validation"
)

// secretPatterns match credentials that must never appear as literals in
// generated output.
var secretPatterns = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"AWS access key", regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{"private key block", regexp.MustCompile(`-----BEGIN (?:RSA |EC |OPENSSH |PGP )?PRIVATE KEY`)},
	{"hardcoded credential", regexp.MustCompile(`(?i)(?:api[_-]?key|secret|token|password)\s*[:=]\s*"[A-Za-z0-9+/_\-]{16,}"`)},
}

// disallowedImports may not appear in generated Go code. plugin is Go's
// closest analog to evaluating strings as code; unsafe defeats every other
// check.
var disallowedImports = map[string]bool{
	"plugin": true,
	"unsafe": true,
}

// Check parses each file in a write-set and verifies the template's
// structural contract. Every detected problem is reported; the result is
// pure, so re-checking an already-valid write-set is always valid.
func Check(files []File, def *catalog.Definition) validation.Result {
	var problems []validation.Problem

	for _, f := range files {
		switch {
		case strings.HasSuffix(f.Path, ".go"):
			problems = append(problems, checkGoFile(f, def.Contract)...)
		case filepath.Base(f.Path) == "go.mod":
			problems = append(problems, checkGoMod(f, def.Contract)...)
		case strings.HasSuffix(f.Path, ".yaml") || strings.HasSuffix(f.Path, ".yml"):
			problems = append(problems, checkManifest(f, def)...)
		}
		problems = append(problems, scanSecrets(f)...)
	}

	return validation.ResultFor(problems)
}

// checkGoFile parses f as Go source and verifies the structural contract:
// exactly one entry-point function, all required functions, all required
// imports, and none of the disallowed constructs.
func checkGoFile(f File, contract catalog.Contract) []validation.Problem {
	var problems []validation.Problem

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, f.Path, f.Content, parser.AllErrors)
	if err != nil {
		return []validation.Problem{{
			File:    f.Path,
			Message: fmt.Sprintf("syntax error: %v", err),
		}}
	}

	// Collect top-level functions and imports.
	funcs := make(map[string]int)
	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Recv == nil {
			funcs[fn.Name.Name]++
		}
	}
	imports := make(map[string]bool)
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		imports[path] = true
		if disallowedImports[path] {
			problems = append(problems, validation.Problem{
				File:    f.Path,
				Message: fmt.Sprintf("security: disallowed import %q", path),
			})
		}
	}

	if n := funcs[contract.EntryPoint]; n != 1 {
		problems = append(problems, validation.Problem{
			File:    f.Path,
			Message: fmt.Sprintf("expected exactly one entry-point function %q, found %d", contract.EntryPoint, n),
		})
	}
	for _, name := range contract.Functions {
		if funcs[name] == 0 {
			problems = append(problems, validation.Problem{
				File:    f.Path,
				Message: fmt.Sprintf("required function %q is missing", name),
			})
		}
	}
	for _, path := range contract.Imports {
		if !imports[path] {
			problems = append(problems, validation.Problem{
				File:    f.Path,
				Message: fmt.Sprintf("required import %q is missing", path),
			})
		}
	}

	problems = append(problems, checkExecCalls(fset, file, f.Path)...)
	return problems
}

// checkExecCalls flags exec.Command / exec.CommandContext calls whose
// command argument is assembled at runtime (concatenation or a function
// call). The command must be a literal or a reference to one.
func checkExecCalls(fset *token.FileSet, file *ast.File, path string) []validation.Problem {
	var problems []validation.Problem

	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		pkg, ok := sel.X.(*ast.Ident)
		if !ok || pkg.Name != "exec" {
			return true
		}

		var cmdArg ast.Expr
		switch sel.Sel.Name {
		case "Command":
			if len(call.Args) > 0 {
				cmdArg = call.Args[0]
			}
		case "CommandContext":
			if len(call.Args) > 1 {
				cmdArg = call.Args[1]
			}
		default:
			return true
		}

		switch cmdArg.(type) {
		case *ast.BinaryExpr, *ast.CallExpr:
			pos := fset.Position(cmdArg.Pos())
			problems = append(problems, validation.Problem{
				File:    path,
				Message: fmt.Sprintf("security: exec command built from unsanitized interpolation at line %d", pos.Line),
			})
		}
		return true
	})

	return problems
}

// checkGoMod parses the dependency descriptor and verifies the contract's
// modules are declared.
func checkGoMod(f File, contract catalog.Contract) []validation.Problem {
	mf, err := modfile.Parse(f.Path, f.Content, nil)
	if err != nil {
		return []validation.Problem{{
			File:    f.Path,
			Message: fmt.Sprintf("invalid go.mod: %v", err),
		}}
	}

	var problems []validation.Problem
	if mf.Module == nil || mf.Module.Mod.Path == "" {
		problems = append(problems, validation.Problem{
			File:    f.Path,
			Message: "missing module directive",
		})
	}

	declared := make(map[string]bool, len(mf.Require))
	for _, req := range mf.Require {
		declared[req.Mod.Path] = true
	}
	for _, dep := range contract.Deps {
		if !declared[dep.Path] {
			problems = append(problems, validation.Problem{
				File:    f.Path,
				Message: fmt.Sprintf("required dependency %q is not declared", dep.Path),
			})
		}
	}
	return problems
}

// manifest mirrors the generated toolsmith.yaml.
type manifest struct {
	Template        string            `yaml:"template"`
	TemplateVersion string            `yaml:"templateVersion"`
	Tool            string            `yaml:"tool"`
	Parameters      map[string]string `yaml:"parameters"`
}

func checkManifest(f File, def *catalog.Definition) []validation.Problem {
	var m manifest
	if err := yaml.Unmarshal(f.Content, &m); err != nil {
		return []validation.Problem{{
			File:    f.Path,
			Message: fmt.Sprintf("invalid manifest: %v", err),
		}}
	}

	var problems []validation.Problem
	if m.Template != def.ID {
		problems = append(problems, validation.Problem{
			File:    f.Path,
			Message: fmt.Sprintf("manifest references template %q, expected %q", m.Template, def.ID),
		})
	}
	if m.TemplateVersion != def.Version {
		problems = append(problems, validation.Problem{
			File:    f.Path,
			Message: fmt.Sprintf("manifest references template version %q, expected %q", m.TemplateVersion, def.Version),
		})
	}
	return problems
}

func scanSecrets(f File) []validation.Problem {
	var problems []validation.Problem
	for _, sp := range secretPatterns {
		if sp.pattern.Match(f.Content) {
			problems = append(problems, validation.Problem{
				File:    f.Path,
				Message: fmt.Sprintf("security: embedded %s detected", sp.name),
			})
		}
	}
	return problems
}
