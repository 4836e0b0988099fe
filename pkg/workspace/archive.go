package workspace

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Archive packages every file under the root into a single zip artifact at
// dest. Entries use forward-slash relative paths.
func (w *Workspace) Archive(dest string) error {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create archive %s: %w", dest, err)
	}
	defer func() { _ = out.Close() }()

	zw := zip.NewWriter(out)
	for _, rel := range w.List() {
		if err := w.addEntry(zw, rel); err != nil {
			_ = zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}

	w.logger.Info("archived output to %s", dest)
	return nil
}

func (w *Workspace) addEntry(zw *zip.Writer, rel string) error {
	src, err := os.Open(filepath.Join(w.root, rel))
	if err != nil {
		return fmt.Errorf("failed to open %s for archiving: %w", rel, err)
	}
	defer func() { _ = src.Close() }()

	entry, err := zw.Create(filepath.ToSlash(rel))
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", rel, err)
	}
	if _, err := io.Copy(entry, src); err != nil {
		return fmt.Errorf("failed to copy %s into archive: %w", rel, err)
	}
	return nil
}
