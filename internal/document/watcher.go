package document

import (
	"context"
	"log"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes a FileStore's data directory and reports which
// document changed when its file is written out-of-band (an operator
// editing the JSON directly, or another process saving). Events for
// the same document within the debounce window collapse into one
// notification.
type Watcher struct {
	store    *FileStore
	watcher  *fsnotify.Watcher
	debounce time.Duration
	notify   func(name string)
}

// NewWatcher starts watching the store's directory. notify is called
// from the watcher goroutine with the changed document's name.
func NewWatcher(store *FileStore, notify func(name string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(store.Dir()); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{
		store:    store,
		watcher:  fsw,
		debounce: 200 * time.Millisecond,
		notify:   notify,
	}, nil
}

// Run processes filesystem events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	defer w.watcher.Close()

	pending := make(map[string]time.Time)
	tick := time.NewTicker(w.debounce)
	defer tick.Stop()

	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			name := w.store.DocumentForPath(ev.Name)
			if name == "" {
				continue
			}
			pending[name] = time.Now()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("document: watch error: %v", err)
		case now := <-tick.C:
			for name, stamp := range pending {
				if now.Sub(stamp) < w.debounce {
					continue
				}
				delete(pending, name)
				w.notify(name)
			}
		case <-ctx.Done():
			return
		}
	}
}
