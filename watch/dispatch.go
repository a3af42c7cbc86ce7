package watch

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/thatguystone/siteflow"
	"github.com/thatguystone/siteflow/internal"
	"github.com/thatguystone/siteflow/internal/metrics"
	"github.com/thatguystone/siteflow/task"
)

// A RunFunc runs the named task
type RunFunc func(ctx context.Context, name string) error

// A Dispatcher runs the tasks that changes trigger. Batches are handled one
// at a time, and their tasks run in rule order.
type Dispatcher struct {
	rules   Rules
	run     RunFunc
	log     siteflow.Logger
	metrics *metrics.Recorder

	ctx   context.Context
	fatal chan error
}

// NewDispatcher creates a Dispatcher. m and l may be nil.
func NewDispatcher(
	rules Rules,
	run RunFunc,
	m *metrics.Recorder,
	l siteflow.Logger) *Dispatcher {

	if l == nil {
		l = internal.NewLogger("watch", log.Printf)
	}

	return &Dispatcher{
		rules:   rules,
		run:     run,
		log:     l,
		metrics: m,
		ctx:     context.Background(),
		fatal:   make(chan error, 1),
	}
}

// Run hands every change from w to the Dispatcher until ctx is done or a task
// fails fatally
func (d *Dispatcher) Run(ctx context.Context, w *Watch) error {
	d.ctx = ctx
	w.Notify(d)

	select {
	case <-ctx.Done():
		return nil

	case err := <-d.fatal:
		return err
	}
}

// Changed implements Watcher
func (d *Dispatcher) Changed(evs Events) {
	d.Dispatch(evs.Paths())
}

// Dispatch runs the tasks triggered by paths
func (d *Dispatcher) Dispatch(paths []string) {
	d.metrics.IncWatchBatch()

	tasks := d.rules.Match(paths)
	if len(tasks) == 0 {
		return
	}

	d.log.Log(fmt.Sprintf("change detected, running %s", strings.Join(tasks, ", ")))

	for _, name := range tasks {
		if d.ctx.Err() != nil {
			return
		}

		err := d.run(d.ctx, name)
		if err == nil {
			continue
		}

		d.log.Error(err, fmt.Sprintf("%s failed", name))

		if task.IsFatal(err) {
			select {
			case d.fatal <- err:
			default:
			}

			return
		}
	}
}
