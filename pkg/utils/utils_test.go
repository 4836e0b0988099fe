package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeProjectName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "calculator", "calculator"},
		{"spaces", "temperature converter cli", "temperature_converter_cli"},
		{"quotes stripped", `"My Project"`, "My_Project"},
		{"single quotes", "'todo app'", "todo_app"},
		{"path separators dropped", "../etc/passwd", "etcpasswd"},
		{"windows separators", `a\b:c`, "abc"},
		{"surrounding whitespace", "  web scraper  ", "web_scraper"},
		{"empty", "", "project"},
		{"only junk", `"/:"`, "project"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeProjectName(tt.in))
		})
	}
}

func TestSanitizeProjectNameCapsLength(t *testing.T) {
	long := strings.Repeat("abcde ", 30)
	got := SanitizeProjectName(long)
	assert.LessOrEqual(t, len(got), 60)
	assert.NotEmpty(t, got)
	assert.False(t, strings.HasSuffix(got, "_"))
}

func TestLanguageForFile(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"main.py", "Python"},
		{"static/app.JS", "JavaScript"},
		{"index.html", "HTML"},
		{"style.css", "CSS"},
		{"config.yaml", "YAML"},
		{"README.md", "Markdown"},
		{"Makefile", "Text"},
		{"notes.txt", "Text"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, LanguageForFile(tt.path))
		})
	}
}

func TestTokenCounterCount(t *testing.T) {
	tc := NewTokenCounter()

	assert.Equal(t, 0, tc.Count(""))

	n := tc.Count("The quick brown fox jumps over the lazy dog.")
	assert.Greater(t, n, 0)
	assert.Less(t, n, 45, "token count should be well below character count")
}

func TestTokenCounterFallback(t *testing.T) {
	tc := &TokenCounter{} // no codec
	assert.Equal(t, 10, tc.Count(strings.Repeat("x", 40)))
}

func TestTokenCounterTruncate(t *testing.T) {
	tc := NewTokenCounter()
	text := strings.Repeat("hello world ", 200)

	short := tc.Truncate(text, 50)
	assert.Less(t, len(short), len(text))
	assert.LessOrEqual(t, tc.Count(short), 50)
	assert.True(t, strings.HasPrefix(text, short))

	assert.Equal(t, text, tc.Truncate(text, 1<<20), "under-budget text passes through")
	assert.Equal(t, "", tc.Truncate(text, 0))
}
