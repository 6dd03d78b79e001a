// Package watch re-runs generation when the input template, the project docs
// or the configuration change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/readmegen/internal/logfields"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 300 * time.Millisecond

// Rebuild is called once per settled burst of changes.
type Rebuild func(ctx context.Context) error

// Options selects what is watched.
type Options struct {
	// Files trigger a rebuild when written, created, renamed or removed.
	Files []string
	// Dirs are watched recursively; changes to markdown files inside trigger a rebuild.
	Dirs []string
	// Ignore lists paths whose events never trigger, such as the generated README.
	Ignore   []string
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher runs Rebuild after relevant filesystem changes.
type Watcher struct {
	fw       *fsnotify.Watcher
	files    map[string]bool
	dirs     []string
	ignore   map[string]bool
	debounce time.Duration
	rebuild  Rebuild
	logger   *slog.Logger
}

// New registers the watches. Missing files and directories are skipped, but
// the directory holding each file is always watched so the file can appear later.
func New(opts Options, rebuild Rebuild) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w := &Watcher{
		fw:       fw,
		files:    make(map[string]bool),
		ignore:   make(map[string]bool),
		debounce: opts.Debounce,
		rebuild:  rebuild,
		logger:   opts.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	for _, p := range opts.Ignore {
		w.ignore[filepath.Clean(p)] = true
	}

	parents := make(map[string]bool)
	for _, f := range opts.Files {
		f = filepath.Clean(f)
		w.files[f] = true
		parents[filepath.Dir(f)] = true
	}
	for dir := range parents {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	for _, d := range opts.Dirs {
		d = filepath.Clean(d)
		w.dirs = append(w.dirs, d)
		w.addRecursive(d)
	}
	return w, nil
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}

// Run blocks until ctx is done, calling Rebuild on the loop goroutine after
// each debounced burst. Rebuild errors are logged; they do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if !w.handle(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		case <-fire:
			fire = nil
			w.logger.Info("Change detected, regenerating")
			if err := w.rebuild(ctx); err != nil {
				w.logger.Error("Regeneration failed", logfields.Error(err))
			}
		}
	}
}

// handle reports whether ev should trigger a rebuild, watching new
// directories created below a watched tree.
func (w *Watcher) handle(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(ev.Name)
	if w.ignore[name] {
		return false
	}
	if w.files[name] {
		w.logger.Debug("Watched file changed", logfields.File(name), slog.String("op", ev.Op.String()))
		return true
	}

	for _, d := range w.dirs {
		if name != d && !strings.HasPrefix(name, d+string(filepath.Separator)) {
			continue
		}
		if ev.Has(fsnotify.Create) {
			if fi, err := os.Stat(name); err == nil && fi.IsDir() {
				w.addRecursive(name)
				return false
			}
		}
		if strings.EqualFold(filepath.Ext(name), ".md") {
			w.logger.Debug("Docs changed", logfields.File(name), slog.String("op", ev.Op.String()))
			return true
		}
	}
	return false
}

func (w *Watcher) addRecursive(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.fw.Add(path); err != nil {
				w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}
