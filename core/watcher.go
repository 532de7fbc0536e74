package core

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 100 * time.Millisecond

// Watcher calls OnReload after files under the watched directories change.
// Bursts of events inside Debounce collapse into one call.
type Watcher struct {
	Dirs     []string
	OnReload func()
	Debounce time.Duration
	Logger   *slog.Logger

	fsw *fsnotify.Watcher
}

func NewWatcher(onReload func(), logger *slog.Logger, dirs ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		Dirs:     dirs,
		OnReload: onReload,
		Debounce: DefaultDebounce,
		Logger:   logger,
		fsw:      fsw,
	}
	if w.Logger == nil {
		w.Logger = slog.Default()
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := w.addTree(dir); err != nil {
			w.Logger.Warn("not watching directory", slog.String("dir", dir), slog.Any("err", err))
		}
	}
	return w, nil
}

// addTree registers dir and every directory below it; fsnotify is not
// recursive.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
}

// Run blocks until ctx is done, then closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fsw.Close()

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	fire := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.Debounce, func() {
			if w.OnReload != nil {
				w.OnReload()
			}
		})
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.addTree(ev.Name)
				}
			}
			w.Logger.Debug("file changed", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			fire()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.Logger.Warn("watch error", slog.Any("err", err))
		}
	}
}
