package config

import (
	"fmt"
	"log"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchFile watches the config file for changes and reloads it into the
// Store. On a successful reload the store is swapped; on error the old
// config is kept. Returns a stop function, or an error if setup fails.
func WatchFile(path string, store *Store) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch file: %w", err)
	}

	done := make(chan struct{})

	go func() {
		defer watcher.Close()

		var lastEvent time.Time
		for {
			select {
			case <-done:
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				// Editors fire several events per save; debounce them.
				now := time.Now()
				if now.Sub(lastEvent) < 500*time.Millisecond {
					continue
				}
				lastEvent = now

				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					log.Printf("config: change detected: %s", ev.Name)
					cfg, err := Load(path)
					if err != nil {
						log.Printf("config: reload failed, keeping previous: %v", err)
						continue
					}
					store.Update(cfg)
					log.Printf("config: reloaded")
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("config: watcher error: %v", err)
			}
		}
	}()

	return func() { close(done) }, nil
}
