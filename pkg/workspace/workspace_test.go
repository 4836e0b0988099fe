package workspace

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkspace(t *testing.T) *Workspace {
	t.Helper()
	w, err := New(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	return w
}

func TestSaveAndRead(t *testing.T) {
	w := newTestWorkspace(t)

	require.True(t, w.Save("main.py", "print('hi')"))
	got, ok := w.Read("main.py")
	require.True(t, ok)
	assert.Equal(t, "print('hi')", got)
}

func TestSaveCreatesSubdirectories(t *testing.T) {
	w := newTestWorkspace(t)

	require.True(t, w.Save("static/css/style.css", "body {}"))
	got, ok := w.Read("static/css/style.css")
	require.True(t, ok)
	assert.Equal(t, "body {}", got)
}

func TestSaveReplacesExisting(t *testing.T) {
	w := newTestWorkspace(t)

	require.True(t, w.Save("a.txt", "first"))
	require.True(t, w.Save("a.txt", "second"))
	got, _ := w.Read("a.txt")
	assert.Equal(t, "second", got)
}

func TestSaveRejectsTraversal(t *testing.T) {
	w := newTestWorkspace(t)

	tests := []string{
		"../../etc/passwd",
		"..",
		"../sibling.txt",
		"sub/../../escape.txt",
		"/etc/passwd",
		"",
	}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			assert.False(t, w.Save(name, "x"))
		})
	}

	// Nothing escaped the root.
	parent := filepath.Dir(w.Root())
	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, "sibling.txt", e.Name())
		assert.NotEqual(t, "escape.txt", e.Name())
	}
}

func TestSaveRejectsSymlinkEscape(t *testing.T) {
	w := newTestWorkspace(t)
	outside := t.TempDir()

	require.NoError(t, os.Symlink(outside, filepath.Join(w.Root(), "link")))
	assert.False(t, w.Save("link/evil.txt", "x"))

	_, err := os.Stat(filepath.Join(outside, "evil.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveAllPartialSuccess(t *testing.T) {
	w := newTestWorkspace(t)

	results := w.SaveAll(map[string]string{
		"ok1.py":           "a",
		"ok2.py":           "b",
		"../../etc/passwd": "evil",
	})

	require.Len(t, results, 3)
	assert.True(t, results["ok1.py"])
	assert.True(t, results["ok2.py"])
	assert.False(t, results["../../etc/passwd"])
}

func TestList(t *testing.T) {
	w := newTestWorkspace(t)
	w.Save("b.txt", "b")
	w.Save("a/a.txt", "a")

	assert.Equal(t, []string{filepath.Join("a", "a.txt"), "b.txt"}, w.List())
}

func TestClear(t *testing.T) {
	w := newTestWorkspace(t)
	w.Save("stale.txt", "old")
	w.Save("nested/stale.txt", "old")

	require.NoError(t, w.Clear())
	assert.Empty(t, w.List())

	// Root itself survives and stays writable.
	assert.True(t, w.Save("fresh.txt", "new"))

	// Idempotent, even after the root disappears entirely.
	require.NoError(t, os.RemoveAll(w.Root()))
	require.NoError(t, w.Clear())
}

func TestArchive(t *testing.T) {
	w := newTestWorkspace(t)
	w.Save("main.py", "print('hi')")
	w.Save("docs/README.md", "# readme")

	dest := filepath.Join(t.TempDir(), "project.zip")
	require.NoError(t, w.Archive(dest))

	r, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer r.Close()

	names := make(map[string]bool)
	for _, f := range r.File {
		names[f.Name] = true
	}
	assert.True(t, names["main.py"])
	assert.True(t, names["docs/README.md"])
}
