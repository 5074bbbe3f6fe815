// Package watch reruns a function when schema files change.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 300 * time.Millisecond

var schemaExtensions = []string{".yaml", ".yml", ".json"}

// Watcher watches schema files and directories. Directories are watched
// recursively; files are watched through their parent directory so editors
// that replace the file on save are still seen.
type Watcher struct {
	w        *fsnotify.Watcher
	files    map[string]struct{}
	roots    []string
	ignored  []string
	debounce time.Duration
	log      *slog.Logger
}

func New(paths []string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create fsnotify watcher")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		w:        fw,
		files:    make(map[string]struct{}),
		debounce: debounce,
		log:      slog.Default().With("component", "watch"),
	}
	for _, p := range paths {
		if err := w.add(p); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(p string) error {
	p, err := filepath.Abs(p)
	if err != nil {
		return errors.Wrapf(err, "watch %s", p)
	}
	info, err := os.Stat(p)
	if err != nil {
		return errors.Wrapf(err, "watch %s", p)
	}
	if !info.IsDir() {
		w.files[p] = struct{}{}
		return errors.Wrapf(w.w.Add(filepath.Dir(p)), "watch %s", p)
	}
	w.roots = append(w.roots, p)
	return w.addTree(p)
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.w.Add(path); err != nil {
			return errors.Wrapf(err, "watch %s", path)
		}
		return nil
	})
}

// Ignore keeps changes below dirs from triggering a run.
func (w *Watcher) Ignore(dirs ...string) {
	for _, d := range dirs {
		if abs, err := filepath.Abs(d); err == nil {
			w.ignored = append(w.ignored, abs)
		}
	}
}

// relevant reports whether ev touches a watched schema file.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) &&
		!ev.Op.Has(fsnotify.Rename) && !ev.Op.Has(fsnotify.Remove) {
		return false
	}
	name := filepath.Clean(ev.Name)
	if within(name, w.ignored) {
		return false
	}
	if _, ok := w.files[name]; ok {
		return true
	}
	if !slices.Contains(schemaExtensions, strings.ToLower(filepath.Ext(name))) {
		return false
	}
	return w.underRoot(name)
}

// Run calls fn once the watched schemas have been quiet for the debounce
// period after a change. It returns when ctx is done. Errors from fn are
// logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	defer func() { _ = w.w.Close() }()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) && w.underRoot(ev.Name) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						w.log.With("path", ev.Name, "error", err).Warn("new directory not watched")
					}
				}
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.With("file", ev.Name, "op", ev.Op.String()).Debug("schema change detected")
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			w.log.With("error", err).Warn("watcher error")

		case <-fire:
			fire = nil
			if err := fn(ctx); err != nil {
				w.log.With("error", err).Error("regeneration failed")
			}
		}
	}
}

func (w *Watcher) underRoot(name string) bool {
	return within(filepath.Clean(name), w.roots)
}

func within(name string, dirs []string) bool {
	for _, d := range dirs {
		if name == d || strings.HasPrefix(name, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Close stops watching without running the loop.
func (w *Watcher) Close() error {
	return w.w.Close()
}
