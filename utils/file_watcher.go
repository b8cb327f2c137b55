package utils

import (
	"fmt"
	"path"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Editors often write a file in several steps; events closer together than this are folded.
const DefaultWatchDebounce = 2 * time.Second

func watcherLoop(filePath string, debounce time.Duration, watcher *fsnotify.Watcher, f func()) {
	var lastEvent time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			log.WithFields(log.Fields{
				"name": event.Name,
				"op":   event.Op,
			}).Debug("File watcher")
			if path.Clean(event.Name) == filePath &&
				event.Op&(fsnotify.Write|fsnotify.Create) != 0 &&
				time.Since(lastEvent) >= debounce {
				lastEvent = time.Now()
				f()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.WithField("error", fmt.Sprint(err)).Error("File watcher")
		}
	}
}

// NewFileWatcher calls f when filePath is written or created. Close the watcher to stop it.
func NewFileWatcher(filePath string, debounce time.Duration, f func()) (*fsnotify.Watcher, error) {
	var watcher, err = fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	filePath = path.Clean(filePath)
	go watcherLoop(filePath, debounce, watcher, f)
	if err = watcher.Add(path.Dir(filePath)); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return watcher, nil
}
