package library

import (
	"log"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch starts watching the library root for changes and returns a channel
// that receives a value whenever the library content changes, debounced so a
// burst of file events (USB stick inserted, preset copied over) causes one
// rescan. Call the returned stop function to release the watcher. Watching
// is best-effort: if the root cannot be watched, the channel just never
// fires.
func (l *Library) Watch() (<-chan struct{}, func()) {
	changed := make(chan struct{}, 1)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("library: could not create watcher: %v", err)
		return changed, func() {}
	}
	root := l.Root()
	if err := watcher.Add(root); err != nil {
		log.Printf("library: could not watch %v: %v", root, err)
	}
	// watch the preset directories too; fsnotify is not recursive
	if dirs, err := os.ReadDir(root); err == nil {
		for _, d := range dirs {
			if d.IsDir() {
				watcher.Add(root + string(os.PathSeparator) + d.Name())
			}
		}
	}
	go func() {
		var debounce *time.Timer
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if ev.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
						watcher.Add(ev.Name)
					}
				}
				if debounce == nil {
					debounce = time.AfterFunc(500*time.Millisecond, func() {
						select {
						case changed <- struct{}{}:
						default:
						}
					})
				} else {
					debounce.Reset(500 * time.Millisecond)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("library: watch error: %v", err)
			}
		}
	}()
	return changed, func() { watcher.Close() }
}
