package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	applog "atelier/internal/log"
)

// Watcher reloads a catalog file when it changes on disk. Rapid saves are
// coalesced; a file that fails to parse leaves the current catalog in
// place.
type Watcher struct {
	path     string
	debounce time.Duration
	apply    func(*Catalog) error
}

// NewWatcher watches path and hands every successfully parsed version to
// apply.
func NewWatcher(path string, apply func(*Catalog) error) *Watcher {
	return &Watcher{path: path, debounce: 250 * time.Millisecond, apply: apply}
}

// Run blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: watch: %w", err)
	}
	defer fw.Close()

	// Editors often replace the file, so watch the directory.
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("catalog: watch: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("catalog: watch %s: %w", filepath.Dir(abs), err)
	}
	log := applog.L().With(zap.String("path", abs))
	log.Info("catalog.watch.start")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("catalog.watch.stop")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("catalog.watch.error", zap.Error(err))
		case <-timer.C:
			w.reload(log)
		}
	}
}

func (w *Watcher) reload(log *zap.Logger) {
	c, err := Load(w.path)
	if err != nil {
		log.Error("catalog.reload.fail", zap.Error(err))
		return
	}
	if err := w.apply(c); err != nil {
		log.Error("catalog.reload.fail", zap.Error(err))
		return
	}
	log.Info("catalog.reload", zap.Int("products", len(c.Products)), zap.Int("collections", len(c.Collections)))
}
