package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fence(lang, body string) string {
	return "```" + lang + "\n" + body + "\n```"
}

func TestExtractFileList(t *testing.T) {
	tests := []struct {
		name string
		plan string
		want []string
	}{
		{
			name: "single json block",
			plan: "A small web app.\n\n" + fence("json", `["app.py", "index.html"]`),
			want: []string{"app.py", "index.html"},
		},
		{
			name: "last of multiple json blocks wins",
			plan: fence("json", `["draft.py"]`) + "\n\nRevised plan:\n\n" + fence("json", `["final.py", "README.md"]`),
			want: []string{"final.py", "README.md"},
		},
		{
			name: "bare bracket fallback",
			plan: `The files are ["main.py", "util.py"] as discussed.`,
			want: []string{"main.py", "util.py"},
		},
		{
			name: "malformed json falls back to nothing",
			plan: fence("json", `["unterminated`),
			want: nil,
		},
		{
			name: "no list at all",
			plan: "Just prose, no structure here.",
			want: nil,
		},
		{
			name: "non-string elements rejected",
			plan: fence("json", `[1, 2, 3]`),
			want: nil,
		},
		{
			name: "duplicates collapsed first-seen order",
			plan: fence("json", `["a.py", "b.py", "a.py"]`),
			want: []string{"a.py", "b.py"},
		},
		{
			name: "empty input",
			plan: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFileList(tt.plan))
		})
	}
}

func TestParseCodeBlocksDelimiterForm(t *testing.T) {
	raw := "Here you go:\n\n--- main.py ---\n" + fence("python", `print("hi")`) +
		"\n\n--- util/helpers.py ---\n" + fence("python", "def helper():\n    return 1")

	files, strategy := ParseCodeBlocksDetail(raw)
	assert.Equal(t, StrategyDelimiter, strategy)
	require.Len(t, files, 2)
	assert.Equal(t, `print("hi")`, files["main.py"])
	assert.Equal(t, "def helper():\n    return 1", files["util/helpers.py"])
}

func TestParseCodeBlocksHeadingForm(t *testing.T) {
	raw := "## app.py\n" + fence("python", "x = 1") +
		"\n\n### templates/index.html\n" + fence("html", "<html></html>")

	files, strategy := ParseCodeBlocksDetail(raw)
	assert.Equal(t, StrategyHeading, strategy)
	require.Len(t, files, 2)
	assert.Equal(t, "x = 1", files["app.py"])
	assert.Equal(t, "<html></html>", files["templates/index.html"])
}

func TestParseCodeBlocksBoldForm(t *testing.T) {
	raw := "**convert.py**\n" + fence("python", "c = f(x)")

	files, strategy := ParseCodeBlocksDetail(raw)
	assert.Equal(t, StrategyBold, strategy)
	require.Len(t, files, 1)
	assert.Equal(t, "c = f(x)", files["convert.py"])
}

func TestParseCodeBlocksColonForm(t *testing.T) {
	raw := "style.css:\n" + fence("css", "body { margin: 0; }")

	files, strategy := ParseCodeBlocksDetail(raw)
	assert.Equal(t, StrategyColon, strategy)
	require.Len(t, files, 1)
	assert.Equal(t, "body { margin: 0; }", files["style.css"])
}

func TestParseCodeBlocksFallbackNamedNearby(t *testing.T) {
	raw := "The entry point lives in run.sh which just calls python.\n" +
		"Some more prose on another line.\n" + fence("bash", "python main.py")

	files, strategy := ParseCodeBlocksDetail(raw)
	assert.Equal(t, StrategyFallback, strategy)
	require.Len(t, files, 1)
	assert.Equal(t, "python main.py", files["run.sh"])
}

func TestParseCodeBlocksFallbackNearestLineWins(t *testing.T) {
	raw := "old.py was the previous name.\nUse new.py instead.\n" + fence("python", "pass")

	files, _ := ParseCodeBlocksDetail(raw)
	require.Len(t, files, 1)
	_, ok := files["new.py"]
	assert.True(t, ok, "nearest preceding line must win, got %v", files)
}

func TestParseCodeBlocksFallbackSynthesizedNames(t *testing.T) {
	raw := "Two anonymous blocks follow.\n\n" +
		fence("python", "import os\nprint(os.getcwd())") + "\n\n" +
		fence("", "just some notes")

	files, strategy := ParseCodeBlocksDetail(raw)
	assert.Equal(t, StrategyFallback, strategy)
	require.Len(t, files, 2)
	assert.Contains(t, files, "file_1.py", "import keyword implies source extension")
	assert.Contains(t, files, "file_2.txt")
}

func TestParseCodeBlocksStrategyPriority(t *testing.T) {
	// Document matches strategy 1; the colon line would match strategy 4 if
	// the delimiter matches were removed. Result must be strategy 1 only.
	raw := "--- first.py ---\n" + fence("python", "a = 1") +
		"\n\nother.py:\n" + fence("python", "b = 2")

	files, strategy := ParseCodeBlocksDetail(raw)
	assert.Equal(t, StrategyDelimiter, strategy)
	require.Len(t, files, 1)
	assert.Equal(t, "a = 1", files["first.py"])
	assert.NotContains(t, files, "other.py", "no cross-strategy contamination")
}

func TestParseCodeBlocksNoFences(t *testing.T) {
	files, strategy := ParseCodeBlocksDetail("no code anywhere, sorry")
	assert.Equal(t, StrategyNone, strategy)
	assert.Empty(t, files)
	assert.NotNil(t, files)
}

func TestParseCodeBlocksEmptyEntriesDiscarded(t *testing.T) {
	raw := "--- blank.py ---\n" + fence("python", "   ")

	// The delimiter match has empty code, so the cascade moves on; the
	// fallback also drops the empty block, leaving nothing.
	files, strategy := ParseCodeBlocksDetail(raw)
	assert.Empty(t, files)
	assert.Equal(t, StrategyNone, strategy)
}

func TestParseCodeBlocksDeterministic(t *testing.T) {
	raw := "### a.py\n" + fence("python", "x = 1")
	first := ParseCodeBlocks(raw)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ParseCodeBlocks(raw))
	}
}
