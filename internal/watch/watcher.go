// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/ykrasik/jaci-sub001/internal/catalog"
	"github.com/ykrasik/jaci-sub001/internal/issue"
)

// defaultDebounce is the quiet period before OnChange fires. Editors often
// write a file as several events (truncate, write, rename).
const defaultDebounce = 300 * time.Millisecond

var (
	// ErrNoPaths is returned by New when there is nothing to watch.
	ErrNoPaths = errors.New("no catalog paths to watch")
	// ErrInvalidPattern is returned for a malformed glob pattern.
	ErrInvalidPattern = errors.New("invalid catalog pattern")

	// skipDirs are never descended into when a pattern watches a tree.
	skipDirs = []string{".git", "node_modules"}
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Paths are catalog entries: file paths or doublestar glob patterns.
		// Relative entries are resolved against the working directory.
		Paths []string

		// Debounce is the quiet period after the last event before OnChange
		// fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// OnChange is called with the sorted absolute paths of the catalogs
		// that changed during the debounce window. A nil callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Logger receives watcher diagnostics. nil uses log.Default().
		Logger *log.Logger
	}

	// Watcher monitors catalog files and fires a debounced callback when
	// one of them is written, created, removed or renamed. Run must be
	// called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		logger   *log.Logger
		debounce time.Duration
		files    map[string]struct{}
		patterns []string
		// trees are the roots of patterns that reach into subdirectories.
		trees   []string
		started atomic.Bool
	}
)

// Validate checks that there is something to watch and that every pattern
// is well formed.
func (c Config) Validate() error {
	if len(c.Paths) == 0 {
		return ErrNoPaths
	}
	var errs []error
	for _, p := range c.Paths {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Errorf("%w: empty entry", ErrInvalidPattern))
			continue
		}
		if catalog.IsPattern(p) && !doublestar.ValidatePathPattern(p) {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidPattern, p))
		}
	}
	return errors.Join(errs...)
}

// New creates a Watcher for cfg and registers the directories holding the
// catalogs. A directory that does not exist is skipped with a warning.
func New(cfg Config) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default().WithPrefix("watch")
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		logger:   logger,
		debounce: debounce,
		files:    make(map[string]struct{}),
	}
	if err := w.register(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("close after init failure", "err", closeErr)
		}
		return nil, err
	}
	return w, nil
}

// register resolves the configured paths and adds the directories to watch.
func (w *Watcher) register() error {
	dirs := make(map[string]struct{})
	for _, entry := range w.cfg.Paths {
		abs, err := filepath.Abs(entry)
		if err != nil {
			return fmt.Errorf("watch: resolve %q: %w", entry, err)
		}
		if !catalog.IsPattern(entry) {
			w.files[abs] = struct{}{}
			dirs[filepath.Dir(abs)] = struct{}{}
			continue
		}

		pattern := filepath.ToSlash(abs)
		w.patterns = append(w.patterns, pattern)
		base, rest := doublestar.SplitPattern(pattern)
		root := filepath.FromSlash(base)
		if !strings.Contains(rest, "/") && !strings.Contains(rest, "**") {
			dirs[root] = struct{}{}
			continue
		}
		w.trees = append(w.trees, root)
		for _, d := range w.walk(root) {
			dirs[d] = struct{}{}
		}
	}

	for _, dir := range slices.Sorted(maps.Keys(dirs)) {
		if err := w.fsw.Add(dir); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				w.logger.Warn("catalog directory does not exist", "dir", dir)
				continue
			}
			return fmt.Errorf("watch: add directory %q: %w", dir, err)
		}
		w.logger.Debug("watching", "dir", dir)
	}
	return nil
}

// walk returns root and the directories below it, skipping skipDirs and
// anything it cannot read.
func (w *Watcher) walk(root string) []string {
	var dirs []string
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path != root {
				w.logger.Warn("skipping inaccessible path", "path", path, "err", err)
			}
			return nil //nolint:nilerr // inaccessible paths are skipped
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && slices.Contains(skipDirs, d.Name()) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks. It
// returns nil on cancellation and an error when the watcher breaks down.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire never runs OnChange concurrently with itself. A change arriving
	// during a slow callback is retried after another debounce period.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		w.logger.Debug("catalogs changed", "files", changed)
		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("change handler failed", "err", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close fsnotify watcher", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if evt.Op == fsnotify.Chmod {
				continue
			}
			name := filepath.Clean(evt.Name)
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(name)
			}
			if !w.matches(name) {
				continue
			}

			mu.Lock()
			pending[name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if hint, ok := exhausted(err); ok {
				return issue.NewErrorContext().
					WithOperation("watch catalogs").
					WithSuggestion(hint).
					Wrap(err).
					BuildError()
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// matches reports whether path is one of the watched catalogs.
func (w *Watcher) matches(path string) bool {
	if _, ok := w.files[path]; ok {
		return true
	}
	slashed := filepath.ToSlash(path)
	for _, pat := range w.patterns {
		if ok, err := doublestar.Match(pat, slashed); err == nil && ok {
			return true
		}
	}
	return false
}

// maybeAddDir watches a directory created inside a pattern's tree.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || slices.Contains(skipDirs, filepath.Base(path)) {
		return
	}
	for _, root := range w.trees {
		if rel, err := filepath.Rel(root, path); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			for _, d := range w.walk(path) {
				if addErr := w.fsw.Add(d); addErr != nil {
					w.logger.Warn("add new directory", "dir", d, "err", addErr)
				}
			}
			return
		}
	}
}
