package utils

import (
	"strings"
)

const maxProjectNameLen = 60

// SanitizeProjectName turns an arbitrary model- or user-supplied title into a
// filesystem-safe name: quotes stripped, whitespace collapsed to underscores,
// path separators and control characters dropped, length capped. Returns
// "project" when nothing usable remains.
func SanitizeProjectName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == '"' || r == '\'' || r == '`':
			// drop quotes entirely
		case r == ' ' || r == '\t':
			b.WriteByte('_')
		case r == '/' || r == '\\' || r == ':' || r < 0x20:
			// drop path separators and control characters
		default:
			b.WriteRune(r)
		}
	}

	out := strings.Trim(b.String(), "._")
	if runes := []rune(out); len(runes) > maxProjectNameLen {
		out = strings.TrimRight(string(runes[:maxProjectNameLen]), "._")
	}
	if out == "" {
		return "project"
	}
	return out
}
