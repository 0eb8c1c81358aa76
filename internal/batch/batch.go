// Package batch extracts many documents: single files, whole directory trees
// with a pool of workers, and removals for files that disappeared.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/odtreader/internal/extract"
	"github.com/hyperjump/odtreader/internal/fileid"
	"github.com/hyperjump/odtreader/internal/models"
	"github.com/hyperjump/odtreader/internal/storage"
)

const defaultWorkers = 4

// Runner extracts documents and hands the text to the configured sinks.
// Documents are independent, so a Runner may be used from several goroutines.
type Runner struct {
	extractor *extract.Extractor
	store     storage.Storage     // optional
	writer    *storage.TextWriter // optional
	workers   int
	logger    *zap.Logger // optional; when set, logs debug events
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets a logger for debug output (file extracted, file removed, etc.).
func WithLogger(l *zap.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithStorage saves every extraction to s.
func WithStorage(s storage.Storage) RunnerOption {
	return func(r *Runner) { r.store = s }
}

// WithTextWriter writes every extraction to a .txt file through w.
func WithTextWriter(w *storage.TextWriter) RunnerOption {
	return func(r *Runner) { r.writer = w }
}

// WithWorkers sets how many documents ExtractDirectory processes at once.
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// NewRunner creates a runner around extractor.
func NewRunner(extractor *extract.Extractor, opts ...RunnerOption) *Runner {
	r := &Runner{extractor: extractor, workers: defaultWorkers}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Failure records a document that could not be extracted.
type Failure struct {
	Path string `json:"path"`
	Err  string `json:"error"`
}

// Summary is the outcome of a directory run.
type Summary struct {
	Extracted int           `json:"extracted"`
	Failed    []Failure     `json:"failed,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
}

// ExtractFile extracts one document, stores it and writes its text file when
// those sinks are configured. The ID is derived from the absolute path.
func (r *Runner) ExtractFile(ctx context.Context, path string) (*models.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	absPath, err := filepath.Abs(extract.NormalizePath(path))
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	res, err := r.extractor.Parse(absPath)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", absPath, err)
	}
	ex := &models.Extraction{
		ID:       fileid.FromPath(absPath),
		Path:     absPath,
		Text:     res.Text,
		Controls: res.Controls,
	}
	if r.store != nil {
		if err := r.store.SaveExtraction(ctx, ex); err != nil {
			return nil, fmt.Errorf("failed to store extraction: %w", err)
		}
	}
	if r.writer != nil {
		dest, err := r.writer.Write(absPath, ex.Text)
		if err != nil {
			return nil, err
		}
		if r.logger != nil {
			r.logger.Debug("batch text written", zap.String("path", absPath), zap.String("dest", dest))
		}
	}
	if r.logger != nil {
		r.logger.Debug("batch file extracted", zap.String("path", absPath), zap.String("id", ex.ID))
	}
	return ex, nil
}

// ExtractDirectory walks root and extracts every regular file whose extension
// is in exts (all files when exts is empty). Per-file failures are collected
// in the summary; the returned error is set only when the walk itself fails or
// ctx is cancelled.
func (r *Runner) ExtractDirectory(ctx context.Context, root string, exts []string, recursive bool) (Summary, error) {
	start := time.Now()
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Summary{}, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return Summary{}, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return Summary{}, fmt.Errorf("not a directory: %s", absRoot)
	}

	paths := make(chan string)
	var (
		mu  sync.Mutex
		sum Summary
		wg  sync.WaitGroup
	)
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range paths {
				_, err := r.ExtractFile(ctx, p)
				mu.Lock()
				if err != nil {
					sum.Failed = append(sum.Failed, Failure{Path: p, Err: err.Error()})
				} else {
					sum.Extracted++
				}
				mu.Unlock()
				if err != nil && r.logger != nil {
					r.logger.Warn("batch extraction failed", zap.String("path", p), zap.Error(err))
				}
			}
		}()
	}

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != absRoot && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !MatchExtension(path, exts) {
			return nil
		}
		// Resolve symlinks so only regular files are extracted
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		select {
		case paths <- path:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	close(paths)
	wg.Wait()

	sum.Duration = time.Since(start)
	if walkErr != nil {
		return sum, walkErr
	}
	if err := ctx.Err(); err != nil {
		return sum, err
	}
	if r.logger != nil {
		r.logger.Info("batch directory done",
			zap.String("root", absRoot),
			zap.Int("extracted", sum.Extracted),
			zap.Int("failed", len(sum.Failed)),
			zap.Duration("duration", sum.Duration),
		)
	}
	return sum, nil
}

// Remove drops the stored extraction and text file of a deleted document.
func (r *Runner) Remove(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	var errs []error
	if r.store != nil {
		if err := r.store.DeleteExtraction(ctx, fileid.FromPath(absPath)); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete extraction: %w", err))
		}
	}
	if r.writer != nil {
		if err := r.writer.Remove(absPath); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove text file: %w", err))
		}
	}
	if r.logger != nil {
		r.logger.Debug("batch file removed", zap.String("path", absPath))
	}
	return errors.Join(errs...)
}

// MatchExtension reports whether path has one of exts, compared
// case-insensitively with or without the leading dot. Empty exts matches all.
func MatchExtension(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, e := range exts {
		if strings.ToLower(strings.TrimPrefix(e, ".")) == ext {
			return true
		}
	}
	return false
}
