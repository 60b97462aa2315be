package engine

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"text/template"
	"unicode"
)

// Renderer handles template parsing and rendering with caching. Rendering
// is pure text substitution: parameters appear only in literal positions,
// so identical input always produces byte-identical output.
type Renderer struct {
	funcMap template.FuncMap
	cache   map[string]*template.Template
	mu      sync.RWMutex // Protect cache for concurrent access
}

// NewRenderer creates a renderer with the literal-safe helper functions.
func NewRenderer() *Renderer {
	return &Renderer{
		funcMap: defaultFuncMap(),
		cache:   make(map[string]*template.Template),
	}
}

// Render renders template source identified by name. The name is used for
// caching and error messages.
func (r *Renderer) Render(name string, src []byte, data any) ([]byte, error) {
	r.mu.RLock()
	tmpl, ok := r.cache[name]
	r.mu.RUnlock()

	if !ok {
		var err error
		tmpl, err = template.New(name).Funcs(r.funcMap).Option("missingkey=error").Parse(string(src))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template '%s': %w", name, err)
		}

		r.mu.Lock()
		r.cache[name] = tmpl
		r.mu.Unlock()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template '%s': %w", name, err)
	}
	return buf.Bytes(), nil
}

// defaultFuncMap returns the template function map. Only functions that
// transform a value into another literal are exposed; nothing here can
// alter a template's control structure.
func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"pascalCase": PascalCase,
		"snakeCase":  SnakeCase,
		"quote":      Quote,
		"upper":      strings.ToUpper,
		"lower":      strings.ToLower,
		"trim":       strings.TrimSpace,
		"join":       strings.Join,
	}
}

// PascalCase converts snake_case, kebab-case or camelCase to PascalCase.
// Examples: weather-api → WeatherApi, user_name → UserName.
func PascalCase(s string) string {
	if s == "" {
		return ""
	}

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-'
	})
	for i, part := range parts {
		if part != "" {
			parts[i] = strings.ToUpper(string(part[0])) + part[1:]
		}
	}
	return strings.Join(parts, "")
}

// SnakeCase converts PascalCase, camelCase or kebab-case to snake_case.
func SnakeCase(s string) string {
	if s == "" {
		return ""
	}

	var result strings.Builder
	for i, r := range s {
		switch {
		case r == '-':
			result.WriteRune('_')
		case unicode.IsUpper(r):
			if i > 0 && unicode.IsLower(rune(s[i-1])) {
				result.WriteRune('_')
			}
			result.WriteRune(unicode.ToLower(r))
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Quote wraps a string in double quotes, escaping as a Go string literal.
func Quote(s string) string {
	return fmt.Sprintf("%q", s)
}
