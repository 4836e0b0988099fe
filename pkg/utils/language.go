package utils

import (
	"path/filepath"
	"strings"
)

//nolint:gochecknoglobals // static extension table
var languageByExt = map[string]string{
	".py":   "Python",
	".go":   "Go",
	".js":   "JavaScript",
	".ts":   "TypeScript",
	".html": "HTML",
	".htm":  "HTML",
	".css":  "CSS",
	".json": "JSON",
	".yaml": "YAML",
	".yml":  "YAML",
	".md":   "Markdown",
	".sh":   "Shell",
	".sql":  "SQL",
}

// LanguageForFile infers a display language from a filename extension.
// Unknown extensions report as Text.
func LanguageForFile(path string) string {
	if lang, ok := languageByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return "Text"
}
