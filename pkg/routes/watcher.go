package routes

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/inkwell-press/console/pkg/observability"
)

// Watcher reloads a Set from a YAML file whenever the file changes.
// A revision that fails to parse keeps the last good table.
type Watcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Watch starts watching the route table file. The parent directory is
// watched rather than the file itself so editors that replace the file
// (write to temp, rename over) still trigger a reload.
func Watch(path string, set *Set, logger *observability.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{watcher: fw, done: make(chan struct{})}

	go func() {
		defer close(w.done)
		target := filepath.Clean(path)
		for {
			select {
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				table, err := LoadTable(path)
				if err != nil {
					logger.WithError(err).Warn("route table reload failed, keeping last good table")
					continue
				}
				set.Reload(table)
				logger.WithField("path", path).Info("route table reloaded")
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				logger.WithError(err).Warn("route table watcher error")
			}
		}
	}()

	return w, nil
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
