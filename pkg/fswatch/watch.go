// Package fswatch notifies foldersync when entries are added to or removed
// from a directory, so that the change monitor can poll immediately rather
// than waiting for its next tick.
package fswatch

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/masa604/Task---Folder-Sync/pkg/errors"
)

// presenceOps are the operations that can change which names exist in a
// directory. Writes and chmods don't, so they're ignored.
const presenceOps = fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// Watcher watches a set of directories.
type Watcher struct {
	watcher *fsnotify.Watcher
	updates chan struct{}
}

// Watch starts watching the immediate entries of `dirs`. Directories aren't
// watched recursively.
func Watch(dirs []string) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WithContext(err, "create watcher")
	}

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			// Close the watcher so that we release the file handlers for the
			// previously added paths.
			if err := watcher.Close(); err != nil {
				log.WithError(err).Warn("Failed to close file watcher")
			}

			return nil, errors.WithContext(err, fmt.Sprintf("watch %q", dir))
		}
	}

	go logErrors(watcher.Errors)
	return &Watcher{
		watcher: watcher,
		updates: combineUpdates(watcher.Events),
	}, nil
}

// Updates returns a channel that receives a value whenever an entry is
// created, removed, or renamed in one of the watched directories. Bursts of
// events are coalesced, so a receive may stand for many changes.
func (w *Watcher) Updates() <-chan struct{} {
	return w.updates
}

// Close stops watching and releases the watcher's resources.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func combineUpdates(events <-chan fsnotify.Event) chan struct{} {
	combined := make(chan struct{}, 1)
	go func() {
		for event := range events {
			if event.Op&presenceOps == 0 {
				continue
			}

			select {
			case combined <- struct{}{}:
			default:
			}
		}
	}()
	return combined
}

func logErrors(errs <-chan error) {
	for err := range errs {
		log.WithError(err).Debug("File watcher error")
	}
}
