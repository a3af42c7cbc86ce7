// Package watch turns filesystem changes into task runs
package watch

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rjeczalik/notify"
)

// Coalesce is how long the watch waits for more events before handing a
// batch to its watchers
const Coalesce = 25 * time.Millisecond

// A Watcher receives notifications of changes
type Watcher interface {
	Changed(evs Events)
}

// Watch wraps file system watchers and provides a nice interface to receive
// change notifications
type Watch struct {
	evs      chan notify.EventInfo
	watchers chan Watcher
}

// New creates a new Watch that monitors everything under dir
func New(dir string) (*Watch, error) {
	w := &Watch{
		evs:      make(chan notify.EventInfo, 64),
		watchers: make(chan Watcher, 1),
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	err = notify.Watch(filepath.Join(abs, "..."), w.evs, notify.All)
	if err != nil {
		return nil, fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	go w.run()
	return w, nil
}

// Notify notifies the given Watcher of changes as they happen
func (w *Watch) Notify(wr Watcher) {
	if wr != nil {
		w.watchers <- wr
	}
}

// Stop terminates this instance
func (w *Watch) Stop() {
	notify.Stop(w.evs)
	close(w.evs)
}

func (w *Watch) run() {
	delay := time.NewTimer(time.Hour)
	delay.Stop()
	defer delay.Stop()

	var evs Events
	var watchers []Watcher

	for {
		select {
		case wr := <-w.watchers:
			watchers = append(watchers, wr)

		case ev, ok := <-w.evs:
			if !ok {
				return
			}

			evs = append(evs, ev)
			delay.Reset(Coalesce)

		case <-delay.C:
			for _, wr := range watchers {
				wr.Changed(evs)
			}

			evs = nil
		}
	}
}

// Events is a collection of change events
type Events []notify.EventInfo

// Paths lists the changed paths, without duplicates, in the order they first
// changed
func (evs Events) Paths() []string {
	seen := map[string]bool{}

	var paths []string
	for _, ev := range evs {
		p := ev.Path()
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	return paths
}
