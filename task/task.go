// Package task runs named tasks in dependency order.
package task

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/thatguystone/siteflow"
	"github.com/thatguystone/siteflow/internal"
	"github.com/thatguystone/siteflow/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// A Func does a task's work. It should return once ctx is done.
type Func func(ctx context.Context) error

// A Task is a node in a Graph
type Task struct {
	Name string
	Deps []string // Run concurrently before this task
	Run  Func     // May be nil for tasks that only group others

	// Tolerant tasks run even if a dependency fails, as long as the failure
	// isn't fatal. The failure is logged.
	Tolerant bool
}

// A Graph holds tasks and their dependencies
type Graph struct {
	tasks   map[string]Task
	dups    []string
	metrics *metrics.Recorder
	log     siteflow.Logger
}

// New creates an empty Graph
func New(opts ...Option) *Graph {
	g := &Graph{
		tasks: map[string]Task{},
	}

	for _, opt := range opts {
		opt.applyTo(g)
	}

	if g.log == nil {
		g.log = internal.NewLogger("task", log.Printf)
	}

	return g
}

// Add adds a task. Problems with the task are reported by Validate.
func (g *Graph) Add(t Task) {
	if _, ok := g.tasks[t.Name]; ok {
		g.dups = append(g.dups, t.Name)
		return
	}

	g.tasks[t.Name] = t
}

// Has checks if a task exists
func (g *Graph) Has(name string) bool {
	_, ok := g.tasks[name]
	return ok
}

// Names lists every task, sorted
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.tasks))
	for name := range g.tasks {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Validate checks for duplicate tasks, dependencies on missing tasks, and
// dependency cycles
func (g *Graph) Validate() error {
	if len(g.dups) > 0 {
		return &DuplicateError{Name: g.dups[0]}
	}

	names := g.Names()

	for _, name := range names {
		for _, dep := range g.tasks[name].Deps {
			if _, ok := g.tasks[dep]; !ok {
				return &UnknownDepError{Task: name, Dep: dep}
			}
		}
	}

	done := map[string]bool{}
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		if done[name] {
			return nil
		}

		for i, s := range stack {
			if s == name {
				path := append([]string(nil), stack[i:]...)
				return &CycleError{Path: append(path, name)}
			}
		}

		stack = append(stack, name)
		for _, dep := range g.tasks[name].Deps {
			err := visit(dep)
			if err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]

		done[name] = true
		return nil
	}

	for _, name := range names {
		err := visit(name)
		if err != nil {
			return err
		}
	}

	return nil
}

// Run runs a task after all of its dependencies. Dependencies run
// concurrently; if any fails, the rest are cancelled and the task itself
// doesn't run, unless the task is Tolerant and the failure isn't fatal. A
// dependency shared by several tasks runs once per task that
// needs it.
func (g *Graph) Run(ctx context.Context, name string) error {
	t, ok := g.tasks[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTask, name)
	}

	if len(t.Deps) > 0 {
		eg, ectx := errgroup.WithContext(ctx)
		for _, dep := range t.Deps {
			dep := dep
			eg.Go(func() error {
				err := g.Run(ectx, dep)
				if err != nil && t.Tolerant && !IsFatal(err) && ectx.Err() == nil {
					g.log.Error(err, fmt.Sprintf("starting %s without %s", name, dep))
					return nil
				}

				return err
			})
		}

		err := eg.Wait()
		if err != nil {
			return err
		}
	}

	if t.Run == nil {
		return nil
	}

	g.log.Log(fmt.Sprintf("starting %s", name))
	start := time.Now()

	err := t.Run(ctx)

	took := time.Since(start)
	g.metrics.ObserveTask(name, took, err)

	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	g.log.Log(fmt.Sprintf("finished %s after %s", name, took.Round(time.Millisecond)))
	return nil
}
