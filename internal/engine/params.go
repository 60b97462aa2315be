package engine

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/toolsmith-mcp/toolsmith/internal/catalog"
	"github.com/toolsmith-mcp/toolsmith/internal/validation"
)

// identifierPattern constrains identifier-kind parameters: letters, digits,
// underscore and hyphen, starting with a letter.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// shellMetacharacters are rejected in identifier-kind values. Identifiers
// end up in file names, symbol names, and config entries; none of these may
// carry anything the shell could interpret.
const shellMetacharacters = "|&;<>()$`\"'!*?#~[]{} \t\n"

// ValidateParams checks raw parameters against a template's schema and
// returns the normalized parameter map with defaults applied. All
// violations are collected before returning; rendering never runs on
// partially-validated input.
func ValidateParams(def *catalog.Definition, raw map[string]string) (map[string]string, error) {
	var problems []validation.Problem
	values := make(map[string]string, len(def.Params))
	known := make(map[string]bool, len(def.Params))

	for _, spec := range def.Params {
		known[spec.Name] = true

		val, present := raw[spec.Name]
		if !present {
			if spec.Required {
				problems = append(problems, validation.Problem{
					Field:   spec.Name,
					Message: "required parameter is missing",
				})
				continue
			}
			val = spec.Default
		}

		if p := checkKind(spec, val); p != nil {
			problems = append(problems, *p)
			continue
		}
		values[spec.Name] = val
	}

	// Unknown keys, reported in deterministic order.
	var unknown []string
	for key := range raw {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		problems = append(problems, validation.Problem{
			Field:   key,
			Message: fmt.Sprintf("unknown parameter (template %s does not accept it)", def.ID),
		})
	}

	if len(problems) > 0 {
		return nil, &validation.Error{Problems: problems}
	}
	return values, nil
}

func checkKind(spec catalog.ParamSpec, val string) *validation.Problem {
	switch spec.Kind {
	case catalog.KindString:
		return nil

	case catalog.KindURL:
		u, err := url.Parse(val)
		if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
			return &validation.Problem{
				Field:   spec.Name,
				Message: fmt.Sprintf("must be an absolute http(s) URL, got %q", val),
			}
		}
		return nil

	case catalog.KindIdentifier:
		if strings.Contains(val, "..") || strings.ContainsAny(val, `/\`) {
			return &validation.Problem{
				Field:   spec.Name,
				Message: "security: path traversal sequences are not allowed in identifiers",
			}
		}
		if strings.ContainsAny(val, shellMetacharacters) {
			return &validation.Problem{
				Field:   spec.Name,
				Message: "security: shell metacharacters are not allowed in identifiers",
			}
		}
		if !identifierPattern.MatchString(val) {
			return &validation.Problem{
				Field:   spec.Name,
				Message: fmt.Sprintf("must match %s, got %q", identifierPattern, val),
			}
		}
		return nil

	case catalog.KindEnum:
		for _, allowed := range spec.Enum {
			if val == allowed {
				return nil
			}
		}
		return &validation.Problem{
			Field:   spec.Name,
			Message: fmt.Sprintf("must be one of [%s], got %q", strings.Join(spec.Enum, ", "), val),
		}

	default:
		return &validation.Problem{
			Field:   spec.Name,
			Message: fmt.Sprintf("unsupported parameter kind %q in catalog", spec.Kind),
		}
	}
}
