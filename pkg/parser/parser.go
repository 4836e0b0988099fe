// Package parser recovers structured data from free-form model output.
//
// Model responses carry no format guarantee, so extraction runs as an ordered
// cascade of independent strategies in decreasing order of format
// reliability. The first strategy yielding at least one result wins; results
// are never merged across strategies, since mismatched pattern boundaries
// would risk duplicate or partial files. All functions are pure.
package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Strategy identifies which extraction rule produced a parse result.
type Strategy string

const (
	// StrategyDelimiter matches "--- filename ---" followed by a fenced block.
	StrategyDelimiter Strategy = "delimiter"
	// StrategyHeading matches "## filename" or "### filename" headings.
	StrategyHeading Strategy = "heading"
	// StrategyBold matches stand-alone "**filename**" lines.
	StrategyBold Strategy = "bold"
	// StrategyColon matches "filename.ext:" lines.
	StrategyColon Strategy = "colon"
	// StrategyFallback collects every fenced block and guesses filenames.
	StrategyFallback Strategy = "fallback"
	// StrategyNone means no fenced block exists in the input at all.
	StrategyNone Strategy = "none"
)

var (
	// Fenced JSON array block, e.g. ```json\n["a.py", "b.py"]\n```.
	jsonListRe = regexp.MustCompile("(?s)```json\\s*(\\[.*?\\])\\s*```")
	// Bare bracketed array substring, the degraded form.
	bareListRe = regexp.MustCompile(`\[[^\[\]]*\]`)

	delimiterRe = regexp.MustCompile("(?s)---+\\s*([^\\n]+?)\\s*---+\\s*```[\\w.+-]*\\n(.*?)```")
	headingRe   = regexp.MustCompile("(?s)#{2,3}\\s+([^\\n]+?)\\s*\\n+```[\\w.+-]*\\n(.*?)```")
	boldRe      = regexp.MustCompile("(?s)\\*\\*([^*\\n]+?)\\*\\*\\s*\\n+```[\\w.+-]*\\n(.*?)```")
	colonRe     = regexp.MustCompile("(?si)([a-zA-Z0-9_\\-./]+\\.[a-zA-Z]{2,5}):\\s*\\n+```[\\w.+-]*\\n(.*?)```")
	anyBlockRe  = regexp.MustCompile("(?s)```[\\w.+-]*\\n(.*?)```")

	// Loose filename pattern used when scanning prose near a fenced block.
	filenameRe = regexp.MustCompile(`[a-zA-Z0-9_\-./]+\.[a-zA-Z]{2,5}\b`)
)

// ExtractFileList extracts the architect's file list from a plan.
//
// It takes the last fenced JSON block containing an array: the plan places
// the list after the prose description, so with multiple fenced blocks the
// final one is the authoritative list. If no such block parses, any bare
// bracketed array substring is tried. Returns nil when nothing parses;
// absence of a list is a normal outcome callers must handle.
func ExtractFileList(plan string) []string {
	if m := jsonListRe.FindAllStringSubmatch(plan, -1); len(m) > 0 {
		if files := parseFileArray(m[len(m)-1][1]); len(files) > 0 {
			return files
		}
	}

	candidates := bareListRe.FindAllString(plan, -1)
	for i := len(candidates) - 1; i >= 0; i-- {
		if files := parseFileArray(candidates[i]); len(files) > 0 {
			return files
		}
	}

	return nil
}

// parseFileArray decodes a JSON array of strings, collapsing duplicates while
// preserving first-seen order. Non-string elements poison the whole array.
func parseFileArray(raw string) []string {
	var entries []string
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil
	}

	seen := make(map[string]bool, len(entries))
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		files = append(files, e)
	}
	return files
}

// ParseCodeBlocks extracts a filename-to-content mapping from a raw model
// response. An empty map means no fenced block exists anywhere in the input;
// callers must treat that as a distinguishable failure, not "zero files".
func ParseCodeBlocks(raw string) map[string]string {
	files, _ := ParseCodeBlocksDetail(raw)
	return files
}

// ParseCodeBlocksDetail is ParseCodeBlocks plus the strategy that produced
// the result, so callers can observe how degraded the response format was.
func ParseCodeBlocksDetail(raw string) (map[string]string, Strategy) {
	for _, s := range []struct {
		re       *regexp.Regexp
		strategy Strategy
	}{
		{delimiterRe, StrategyDelimiter},
		{headingRe, StrategyHeading},
		{boldRe, StrategyBold},
		{colonRe, StrategyColon},
	} {
		if files := collectPairs(s.re, raw); len(files) > 0 {
			return files, s.strategy
		}
	}

	if files := collectFallback(raw); len(files) > 0 {
		return files, StrategyFallback
	}

	return map[string]string{}, StrategyNone
}

// collectPairs applies a filename+block pattern over the whole input,
// discarding entries with an empty filename or empty code.
func collectPairs(re *regexp.Regexp, raw string) map[string]string {
	files := make(map[string]string)
	for _, m := range re.FindAllStringSubmatch(raw, -1) {
		name := strings.TrimSpace(m[1])
		code := strings.TrimSpace(m[2])
		if name == "" || code == "" {
			continue
		}
		files[name] = code
	}
	return files
}

// collectFallback gathers every fenced block regardless of markers. For each
// block the 5 lines immediately preceding it are scanned backward for a
// filename; blocks with no nearby filename get a synthesized name with an
// extension guessed from content.
func collectFallback(raw string) map[string]string {
	matches := anyBlockRe.FindAllStringSubmatchIndex(raw, -1)
	if len(matches) == 0 {
		return nil
	}

	files := make(map[string]string)
	for i, m := range matches {
		code := strings.TrimSpace(raw[m[2]:m[3]])
		if code == "" {
			continue
		}

		name := findNearbyFilename(raw[:m[0]])
		if name == "" {
			name = fmt.Sprintf("file_%d%s", i+1, guessExtension(code))
		}
		files[name] = code
	}
	return files
}

// findNearbyFilename scans the last 5 lines of the text preceding a block,
// nearest line first, for something that looks like a filename.
func findNearbyFilename(before string) string {
	lines := strings.Split(before, "\n")
	start := len(lines) - 5
	if start < 0 {
		start = 0
	}
	for i := len(lines) - 1; i >= start; i-- {
		if m := filenameRe.FindString(lines[i]); m != "" {
			return m
		}
	}
	return ""
}

// guessExtension infers a best-guess extension from block content. A
// definition or import keyword suggests source code; anything else is
// treated as plain text.
func guessExtension(code string) string {
	if strings.Contains(code, "def ") || strings.Contains(code, "import ") {
		return ".py"
	}
	return ".txt"
}
