package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/odtreader/internal/fileid"
)

// TextWriter writes extracted text into one flat directory, one .txt file per
// source document. File names carry a hash of the source path, so sources with
// the same base name in different directories get separate files.
type TextWriter struct {
	dir string
}

// NewTextWriter returns a writer rooted at dir. The directory is created on first write.
func NewTextWriter(dir string) *TextWriter {
	return &TextWriter{dir: dir}
}

// Dir returns the output directory.
func (w *TextWriter) Dir() string {
	return w.dir
}

// TextPath returns the output path for sourcePath: its base name without the
// extension, a dash, the short hash of its absolute path and .txt.
func (w *TextWriter) TextPath(sourcePath string) string {
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		abs = filepath.Clean(sourcePath)
	}
	base := filepath.Base(abs)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(w.dir, base+"-"+fileid.ShortHash(abs)+".txt")
}

// Write stores text for sourcePath, replacing any previous file atomically.
// The text is written as-is; terminators were chosen at extraction time.
func (w *TextWriter) Write(sourcePath, text string) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	dest := w.TextPath(sourcePath)
	tmp, err := os.CreateTemp(w.dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close %s: %w", dest, err)
	}
	_ = os.Chmod(tmpPath, 0644)
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to replace %s: %w", dest, err)
	}
	return dest, nil
}

// Remove deletes the text file for sourcePath. A missing file is not an error.
func (w *TextWriter) Remove(sourcePath string) error {
	err := os.Remove(w.TextPath(sourcePath))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
