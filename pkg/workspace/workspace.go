// Package workspace provides path-confined file operations under a fixed
// output root. Every write resolves and canonicalizes its target path and
// fails closed when the result escapes the root: escaping paths are a
// security boundary, not a user error, and surface only as a failure flag.
package workspace

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"devcrew/pkg/logx"
)

// Workspace confines file operations to a single root directory.
type Workspace struct {
	root   string
	logger *logx.Logger
}

// New creates a workspace rooted at dir, creating it if missing.
func New(dir string) (*Workspace, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	// Resolve symlinks in the root itself so containment checks compare
	// canonical paths on both sides.
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}
	return &Workspace{
		root:   resolved,
		logger: logx.NewLogger("workspace"),
	}, nil
}

// Root returns the canonical root directory.
func (w *Workspace) Root() string {
	return w.root
}

// resolve validates a relative filename against the root. Returns the full
// path and whether it is safe to use.
func (w *Workspace) resolve(filename string) (string, bool) {
	if filename == "" || filepath.IsAbs(filename) {
		return "", false
	}

	full := filepath.Join(w.root, filepath.Clean(filename))
	if full != w.root && !strings.HasPrefix(full, w.root+string(filepath.Separator)) {
		return "", false
	}

	// Join already collapsed "..", but a symlinked intermediate directory
	// could still point outside the root. Canonicalize the deepest existing
	// ancestor and re-check.
	ancestor := full
	for {
		if _, err := os.Lstat(ancestor); err == nil {
			break
		}
		parent := filepath.Dir(ancestor)
		if parent == ancestor {
			break
		}
		ancestor = parent
	}
	resolved, err := filepath.EvalSymlinks(ancestor)
	if err != nil {
		return "", false
	}
	if resolved != w.root && !strings.HasPrefix(resolved, w.root+string(filepath.Separator)) {
		return "", false
	}

	return full, true
}

// Save writes a file under the root, fully replacing any prior content.
// Missing parent directories are created. Returns false on any failure,
// including paths that escape the root.
func (w *Workspace) Save(filename, content string) bool {
	full, ok := w.resolve(filename)
	if !ok {
		w.logger.Error("refused write outside output root: %s", filename)
		return false
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		w.logger.Error("failed to create parent dirs for %s: %v", filename, err)
		return false
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		w.logger.Error("failed to write %s: %v", filename, err)
		return false
	}

	w.logger.Debug("saved %s (%d bytes)", filename, len(content))
	return true
}

// SaveAll writes every file independently; one failure does not prevent
// attempts on the others. The result maps each filename to its outcome.
func (w *Workspace) SaveAll(files map[string]string) map[string]bool {
	results := make(map[string]bool, len(files))
	for name, content := range files {
		results[name] = w.Save(name, content)
	}

	saved := 0
	for _, ok := range results {
		if ok {
			saved++
		}
	}
	w.logger.Info("saved %d/%d files", saved, len(files))
	return results
}

// Read returns a file's content, or false when it does not exist or its
// path is invalid.
func (w *Workspace) Read(filename string) (string, bool) {
	full, ok := w.resolve(filename)
	if !ok {
		return "", false
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// List returns the relative paths of all files under the root, sorted.
func (w *Workspace) List() []string {
	var files []string
	_ = filepath.Walk(w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil //nolint:nilerr // best-effort listing
		}
		rel, relErr := filepath.Rel(w.root, path)
		if relErr == nil {
			files = append(files, rel)
		}
		return nil
	})
	sort.Strings(files)
	return files
}

// Clear removes all contents of the root without removing the root itself,
// so a new request never sees stale files from a prior run. Idempotent; a
// missing root is recreated.
func (w *Workspace) Clear() error {
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(w.root, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
