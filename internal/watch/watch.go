// Package watch triggers a callback when files of a book change.
//
// Every directory below the root is watched with fsnotify. Events are
// debounced: the callback runs once the tree has been quiet for the
// configured interval and receives the changed paths. The callback runs on
// the watch goroutine, so callbacks never overlap.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/bookpress/internal/logfields"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 2 * time.Second

// defaultIgnore lists generated directories that are never content.
var defaultIgnore = []string{"__pycache__", "node_modules"}

// ChangeFunc receives the paths, relative to the root, that changed since the
// previous call.
type ChangeFunc func(ctx context.Context, changed []string)

// Options tunes a Watcher.
type Options struct {
	Debounce time.Duration
	// Ignore holds paths relative to the root, or glob patterns matched
	// against each path component. Hidden files and directories are always
	// ignored.
	Ignore []string
}

// Watcher monitors a directory tree.
type Watcher struct {
	root     string
	debounce time.Duration
	ignore   []string
	onChange ChangeFunc
	fs       *fsnotify.Watcher
}

// New creates a watcher on root and registers every directory below it.
func New(root string, opts Options, onChange ChangeFunc) (*Watcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve watch root: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &Watcher{
		root:     absRoot,
		debounce: opts.Debounce,
		ignore:   append(slices.Clone(defaultIgnore), opts.Ignore...),
		onChange: onChange,
		fs:       fw,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	for i, p := range w.ignore {
		w.ignore[i] = filepath.ToSlash(filepath.Clean(p))
	}
	if err := w.addTree(absRoot); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

// Ignored reports whether rel, a slash or OS separated path relative to the
// root, is excluded from watching. A pattern matches a whole relative path
// prefix or, as a glob, any single path component.
func (w *Watcher) Ignored(rel string) bool {
	rel = filepath.ToSlash(filepath.Clean(rel))
	if rel == "." {
		return false
	}
	for _, pattern := range w.ignore {
		if rel == pattern || strings.HasPrefix(rel, pattern+"/") {
			return true
		}
	}
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
		for _, pattern := range w.ignore {
			if strings.Contains(pattern, "/") {
				continue
			}
			if ok, _ := path.Match(pattern, part); ok {
				return true
			}
		}
	}
	return false
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path != dir && os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if rel, _ := filepath.Rel(w.root, path); w.Ignored(rel) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// Run processes events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.fs.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	slog.Info("Watching for changes", logfields.Path(w.root), logfields.Duration(w.debounce))

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending = map[string]struct{}{}
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			rel, relevant := w.relevant(event)
			if !relevant {
				continue
			}
			slog.Debug("Change detected", logfields.File(rel), "op", event.Op.String())
			pending[rel] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Stop()
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", logfields.Error(err))
		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			slices.Sort(changed)
			w.onChange(ctx, changed)
		}
	}
}

// relevant filters an event and registers newly created directories.
func (w *Watcher) relevant(event fsnotify.Event) (string, bool) {
	if event.Op == fsnotify.Chmod {
		return "", false
	}
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || w.Ignored(rel) {
		return "", false
	}
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				slog.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
			}
		}
	}
	return rel, true
}
