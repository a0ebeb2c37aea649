package savefile

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zapponejosh/seasoncal/internal/calendar"
)

// Change reports the save file's date after it was modified on disk.
// Err is set when the file could not be read or held an invalid date.
type Change struct {
	Date calendar.Date
	Err  error
}

// Watcher monitors a save file and reports each new in-game date.
//
// The parent directory is watched rather than the file itself because
// saves are usually replaced by rename, which drops a watch on the old file.
type Watcher struct {
	Path     string
	Debounce time.Duration
	Changes  <-chan Change // Read-only external channel

	changes chan Change // Internal write channel
	done    chan struct{}
	watcher *fsnotify.Watcher
	last    calendar.Date
}

// NewWatcher creates a watcher for the save file at path.
func NewWatcher(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, err
	}

	ch := make(chan Change, 16)
	return &Watcher{
		Path:     abs,
		Debounce: 100 * time.Millisecond,
		Changes:  ch,
		changes:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
	}, nil
}

// Start records the current date and begins watching. Only dates that differ
// from the previously reported one are sent on Changes.
func (w *Watcher) Start(ctx context.Context) error {
	if d, err := calendar.Now(ctx, Open(w.Path)); err == nil {
		w.last = d
	}
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(w.Debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if !pending.IsZero() {
					w.emit()
				}
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case now := <-ticker.C:
			if !pending.IsZero() && now.Sub(pending) >= w.Debounce {
				pending = time.Time{}
				w.emit()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are transient; the next event retries the read.
		}
	}
}

func (w *Watcher) emit() {
	d, err := calendar.Now(context.Background(), Open(w.Path))
	if err != nil {
		w.changes <- Change{Err: err}
		return
	}
	if d.Equal(w.last) {
		return
	}
	w.last = d
	w.changes <- Change{Date: d}
}
