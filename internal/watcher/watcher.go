// Package watcher re-extracts documents when they change on disk.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/hyperjump/odtreader/internal/batch"
	"github.com/hyperjump/odtreader/internal/models"
)

const defaultDebounce = 400 * time.Millisecond

// Extractor is what the watcher drives. *batch.Runner implements it.
type Extractor interface {
	ExtractFile(ctx context.Context, path string) (*models.Extraction, error)
	Remove(ctx context.Context, path string) error
}

// Watcher watches directories for document changes. Writes are debounced per
// path so a document saved in several steps is extracted once.
type Watcher struct {
	roots      []string
	extensions []string
	recursive  bool
	debounce   time.Duration
	extractor  Extractor
	logger     *zap.Logger // optional; when set, logs debug events

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	ctx     context.Context
	pending map[string]*time.Timer
	done    chan struct{}
	stopped sync.Once
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets a logger for debug output (file events, extraction errors, etc.).
func WithLogger(l *zap.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// WithExtensions limits the watched files. Empty means every file.
func WithExtensions(exts []string) WatcherOption {
	return func(w *Watcher) { w.extensions = exts }
}

// WithRecursive controls whether subdirectories are watched.
func WithRecursive(recursive bool) WatcherOption {
	return func(w *Watcher) { w.recursive = recursive }
}

// WithDebounce sets how long a path must stay quiet before it is extracted.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a watcher over roots. Missing roots are created on Start.
func NewWatcher(roots []string, extractor Extractor, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		roots:     make([]string, 0, len(roots)),
		recursive: true,
		debounce:  defaultDebounce,
		extractor: extractor,
		pending:   make(map[string]*time.Timer),
		done:      make(chan struct{}),
	}
	for _, r := range roots {
		if abs, err := filepath.Abs(r); err == nil {
			w.roots = append(w.roots, abs)
		}
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Directories returns a copy of the watched roots.
func (w *Watcher) Directories() []string {
	return append([]string(nil), w.roots...)
}

// Start begins watching. It returns once every root is registered; events are
// handled in the background until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, root := range w.roots {
		if err := os.MkdirAll(root, 0755); err != nil {
			_ = fsw.Close()
			return err
		}
		if err := w.addTree(fsw, root); err != nil {
			_ = fsw.Close()
			return err
		}
	}
	w.mu.Lock()
	w.fsw = fsw
	w.ctx = ctx
	w.mu.Unlock()
	if w.logger != nil {
		w.logger.Debug("watcher started", zap.Strings("roots", w.roots), zap.Strings("extensions", w.extensions), zap.Bool("recursive", w.recursive))
	}
	go w.run(ctx, fsw)
	return nil
}

func (w *Watcher) addTree(fsw *fsnotify.Watcher, dir string) error {
	if !w.recursive {
		return fsw.Add(dir)
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handle(ctx, fsw, ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Debug("watcher error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handle(ctx context.Context, fsw *fsnotify.Watcher, ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)
	if w.logger != nil {
		w.logger.Debug("watcher event", zap.String("op", ev.Op.String()), zap.String("path", path))
	}
	switch {
	case ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write):
		info, err := os.Stat(path)
		if err != nil {
			return
		}
		if info.IsDir() {
			if ev.Has(fsnotify.Create) && w.recursive {
				w.newDirectory(ctx, fsw, path)
			}
			return
		}
		if w.wanted(path) {
			w.schedule(path)
		}
	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		w.cancel(path)
		if w.wanted(path) {
			if err := w.extractor.Remove(ctx, path); err != nil && w.logger != nil {
				w.logger.Warn("watcher remove failed", zap.String("path", path), zap.Error(err))
			}
		}
	}
}

// newDirectory watches a directory that appeared under a root and extracts
// the documents it already holds, such as a folder copied in.
func (w *Watcher) newDirectory(ctx context.Context, fsw *fsnotify.Watcher, dir string) {
	if err := w.addTree(fsw, dir); err != nil && w.logger != nil {
		w.logger.Debug("watcher failed to add directory", zap.String("path", dir), zap.Error(err))
	}
	w.syncDirectory(ctx, dir)
}

// wanted reports whether path is a document the watcher extracts.
// Office lock files and hidden files are skipped.
func (w *Watcher) wanted(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~") {
		return false
	}
	return batch.MatchExtension(path, w.extensions)
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		ctx := w.ctx
		w.mu.Unlock()
		if ctx == nil || ctx.Err() != nil {
			return
		}
		w.extract(ctx, path)
	})
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) extract(ctx context.Context, path string) {
	if _, err := w.extractor.ExtractFile(ctx, path); err != nil {
		if w.logger != nil {
			w.logger.Warn("watcher extraction failed", zap.String("path", path), zap.Error(err))
		}
		return
	}
	if w.logger != nil {
		w.logger.Debug("watcher extracted", zap.String("path", path))
	}
}

func (w *Watcher) syncDirectory(ctx context.Context, root string) int {
	n := 0
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && !w.recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if w.wanted(path) {
			w.extract(ctx, path)
			n++
		}
		return nil
	})
	return n
}

// SyncExistingFiles extracts the documents already present in every root and
// returns how many were visited. Call it after Start to catch up on files that
// changed while the watcher was not running.
func (w *Watcher) SyncExistingFiles(ctx context.Context) int {
	n := 0
	for _, root := range w.roots {
		n += w.syncDirectory(ctx, root)
	}
	if w.logger != nil {
		w.logger.Debug("watcher synced existing files", zap.Int("files", n))
	}
	return n
}

// Stop stops watching and drops pending extractions. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopped.Do(func() {
		w.mu.Lock()
		for path, t := range w.pending {
			t.Stop()
			delete(w.pending, path)
		}
		fsw := w.fsw
		w.fsw = nil
		w.mu.Unlock()
		close(w.done)
		if fsw != nil {
			_ = fsw.Close()
		}
	})
}
