package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDeterministic(t *testing.T) {
	src := []byte("name: {{ .Values.name }}\nurl: {{ quote .Values.endpoint }}\n")
	data := renderContext{
		Values: map[string]string{
			"name":     "weather",
			"endpoint": "https://api.example.com",
		},
	}

	r := NewRenderer()
	first, err := r.Render("t", src, data)
	require.NoError(t, err)

	// Same input must produce byte-identical output, cached or not.
	second, err := r.Render("t", src, data)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	third, err := NewRenderer().Render("t", src, data)
	require.NoError(t, err)
	assert.Equal(t, first, third)

	assert.Equal(t, "name: weather\nurl: \"https://api.example.com\"\n", string(first))
}

func TestRenderMissingKeyFails(t *testing.T) {
	r := NewRenderer()
	_, err := r.Render("missing", []byte("{{ .Values.nope }}"), renderContext{Values: map[string]string{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to render template")
}

func TestRenderParseError(t *testing.T) {
	r := NewRenderer()
	_, err := r.Render("broken", []byte("{{ .Name }"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse template")
}

func TestPascalCase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"weather-api", "WeatherApi"},
		{"user_name", "UserName"},
		{"already", "Already"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PascalCase(tt.in), "input %q", tt.in)
	}
}

func TestSnakeCase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"WeatherApi", "weather_api"},
		{"weather-api", "weather_api"},
		{"simple", "simple"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SnakeCase(tt.in), "input %q", tt.in)
	}
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"plain"`, Quote("plain"))
	assert.Equal(t, `"with \"quotes\""`, Quote(`with "quotes"`))
	assert.Equal(t, `"line\nbreak"`, Quote("line\nbreak"))
}
