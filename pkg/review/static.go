// Package review provides the static half of the two-stage code review gate:
// cheap per-file structural checks that run before any model is consulted.
// A finding here rejects the iteration without spending tokens.
package review

import (
	"encoding/json"
	"fmt"
	"go/parser"
	"go/token"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Finding is a single static-check failure for one file.
type Finding struct {
	Path    string
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s", f.Path, f.Message)
}

// CheckFiles runs the static checks over every generated file and returns all
// findings, sorted by path. An empty slice means the batch passes stage one.
func CheckFiles(files map[string]string) []Finding {
	var findings []Finding
	for path, content := range files {
		if msg := checkFile(path, content); msg != "" {
			findings = append(findings, Finding{Path: path, Message: msg})
		}
	}
	sort.Slice(findings, func(i, j int) bool { return findings[i].Path < findings[j].Path })
	return findings
}

// checkFile returns an empty string when the file passes, or a description of
// the first structural problem found. Unknown extensions always pass; the
// model stage is the arbiter of anything we cannot check mechanically.
func checkFile(path, content string) string {
	if strings.TrimSpace(content) == "" {
		return "file is empty"
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return checkGo(path, content)
	case ".json":
		if !json.Valid([]byte(content)) {
			return "invalid JSON"
		}
	case ".js":
		return checkJavaScript(content)
	case ".html", ".htm":
		return checkHTML(content)
	case ".css":
		return checkCSS(content)
	case ".py":
		return checkPython(content)
	}
	return ""
}

func checkGo(path, content string) string {
	fset := token.NewFileSet()
	if _, err := parser.ParseFile(fset, path, content, 0); err != nil {
		return fmt.Sprintf("does not parse: %v", err)
	}
	return ""
}

var legacyVarRe = regexp.MustCompile(`(?m)^\s*var\s+[A-Za-z_$]`)

func checkJavaScript(content string) string {
	if !balancedBrackets(content) {
		return "unbalanced brackets"
	}
	if legacyVarRe.MatchString(content) {
		return "uses legacy var declaration, prefer const or let"
	}
	return ""
}

func checkHTML(content string) string {
	lower := strings.ToLower(content)
	if !strings.Contains(lower, "<html") && !strings.Contains(lower, "<!doctype html") {
		return "missing <html> or doctype declaration"
	}
	if strings.Contains(lower, "<body") && !strings.Contains(lower, "</body>") {
		return "unclosed <body> element"
	}
	return ""
}

func checkCSS(content string) string {
	if strings.Count(content, "{") != strings.Count(content, "}") {
		return "unbalanced braces"
	}
	if !strings.Contains(content, "{") {
		return "no rule blocks"
	}
	return ""
}

func checkPython(content string) string {
	if !balancedBrackets(content) {
		return "unbalanced brackets"
	}
	return ""
}

// balancedBrackets verifies (), [], and {} nest correctly outside of string
// literals and line comments. Heuristic only: it does not understand every
// escape form, but it catches the truncated-output case reliably.
func balancedBrackets(content string) bool {
	var stack []byte
	var inString byte
	escaped := false
	inComment := false

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if inComment {
			if ch == '\n' {
				inComment = false
			}
			continue
		}
		if inString != 0 {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == inString:
				inString = 0
			case ch == '\n' && inString != '`':
				inString = 0
			}
			continue
		}

		switch ch {
		case '"', '\'', '`':
			inString = ch
		case '#':
			inComment = true
		case '/':
			if i+1 < len(content) && content[i+1] == '/' {
				inComment = true
			}
		case '(', '[', '{':
			stack = append(stack, ch)
		case ')', ']', '}':
			if len(stack) == 0 {
				return false
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if (ch == ')' && open != '(') || (ch == ']' && open != '[') || (ch == '}' && open != '{') {
				return false
			}
		}
	}
	return len(stack) == 0
}
