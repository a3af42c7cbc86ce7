package task

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/thatguystone/cog/check"
	"github.com/thatguystone/siteflow/internal"
	"github.com/thatguystone/siteflow/internal/metrics"
)

type recorder struct {
	mtx sync.Mutex
	ran []string
}

func (r *recorder) task(name string, deps ...string) Task {
	return Task{
		Name: name,
		Deps: deps,
		Run: func(ctx context.Context) error {
			r.mtx.Lock()
			defer r.mtx.Unlock()

			r.ran = append(r.ran, name)
			return nil
		},
	}
}

func (r *recorder) indexOf(name string) int {
	for i, n := range r.ran {
		if n == name {
			return i
		}
	}

	return -1
}

func newGraph(opts ...Option) *Graph {
	return New(append([]Option{LogTo(internal.Discard)}, opts...)...)
}

func TestRunOrder(t *testing.T) {
	c := check.New(t)

	var r recorder
	g := newGraph()
	g.Add(r.task("style"))
	g.Add(r.task("generate"))
	g.Add(r.task("serve", "style", "generate"))
	g.Add(r.task("watch"))
	g.Add(Task{Name: "default", Deps: []string{"serve", "watch"}})

	c.Must.Nil(g.Validate())

	err := g.Run(context.Background(), "default")
	c.Must.Nil(err)

	c.Len(r.ran, 4)
	c.True(r.indexOf("style") < r.indexOf("serve"))
	c.True(r.indexOf("generate") < r.indexOf("serve"))
	c.True(r.indexOf("watch") >= 0)
	c.Equal(r.indexOf("default"), -1)
}

func TestRunDepsConcurrently(t *testing.T) {
	c := check.New(t)

	var wg sync.WaitGroup
	wg.Add(2)

	// Each dep waits on the other
	meet := func(ctx context.Context) error {
		wg.Done()
		wg.Wait()
		return nil
	}

	ran := false

	g := newGraph()
	g.Add(Task{Name: "a", Run: meet})
	g.Add(Task{Name: "b", Run: meet})
	g.Add(Task{
		Name: "both",
		Deps: []string{"a", "b"},
		Run: func(ctx context.Context) error {
			ran = true
			return nil
		},
	})

	err := g.Run(context.Background(), "both")
	c.Nil(err)
	c.True(ran)
}

func TestRunDepFails(t *testing.T) {
	c := check.New(t)

	errBad := errors.New("bad sass")
	cancelled := make(chan error, 1)
	ran := false

	g := newGraph()
	g.Add(Task{
		Name: "style",
		Run: func(ctx context.Context) error {
			return errBad
		},
	})
	g.Add(Task{
		Name: "generate",
		Run: func(ctx context.Context) error {
			<-ctx.Done()
			cancelled <- ctx.Err()
			return ctx.Err()
		},
	})
	g.Add(Task{
		Name: "serve",
		Deps: []string{"style", "generate"},
		Run: func(ctx context.Context) error {
			ran = true
			return nil
		},
	})

	err := g.Run(context.Background(), "serve")
	c.True(errors.Is(err, errBad))
	c.Contains(err.Error(), "style: bad sass")
	c.False(ran)
	c.Equal(<-cancelled, context.Canceled)
}

func TestRunTolerant(t *testing.T) {
	c := check.New(t)

	var mtx sync.Mutex
	var logs []string
	logTo := LogTo(internal.NewLogger("test",
		func(format string, a ...interface{}) {
			mtx.Lock()
			defer mtx.Unlock()
			logs = append(logs, fmt.Sprintf(format, a...))
		}))

	var r recorder
	g := New(logTo)
	g.Add(Task{
		Name: "style",
		Run: func(ctx context.Context) error {
			return errors.New("bad sass")
		},
	})
	g.Add(Task{
		Name: "generate",
		Run: func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(20 * time.Millisecond):
			}

			return nil
		},
	})
	serve := r.task("serve", "style", "generate")
	serve.Tolerant = true
	g.Add(serve)

	err := g.Run(context.Background(), "serve")
	c.Must.Nil(err)
	c.Equal(r.ran, []string{"serve"})

	mtx.Lock()
	defer mtx.Unlock()

	found := false
	for _, l := range logs {
		if strings.Contains(l, "starting serve without style") {
			found = true
			c.Contains(l, "bad sass")
		}
	}
	c.True(found, "missing log in %v", logs)
}

func TestRunTolerantFatal(t *testing.T) {
	c := check.New(t)

	errGone := errors.New("generator missing")

	var r recorder
	g := newGraph()
	g.Add(Task{
		Name: "generate",
		Run: func(ctx context.Context) error {
			return Fatal(errGone)
		},
	})
	serve := r.task("serve", "generate")
	serve.Tolerant = true
	g.Add(serve)

	err := g.Run(context.Background(), "serve")
	c.True(errors.Is(err, errGone))
	c.True(IsFatal(err))
	c.Len(r.ran, 0)
}

func TestRunUnknown(t *testing.T) {
	c := check.New(t)

	g := newGraph()
	err := g.Run(context.Background(), "narp")
	c.True(errors.Is(err, ErrUnknownTask))
}

func TestRunMetrics(t *testing.T) {
	c := check.New(t)

	m := metrics.New()
	g := newGraph(Metrics(m))
	g.Add(Task{
		Name: "ok",
		Run:  func(ctx context.Context) error { return nil },
	})
	g.Add(Task{
		Name: "fails",
		Run:  func(ctx context.Context) error { return errors.New("nope") },
	})

	c.Nil(g.Run(context.Background(), "ok"))
	c.NotNil(g.Run(context.Background(), "fails"))

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	body := rr.Body.String()
	c.Contains(body, `siteflow_task_results_total{result="ok",task="ok"} 1`)
	c.Contains(body, `siteflow_task_results_total{result="failed",task="fails"} 1`)
}

func TestValidate(t *testing.T) {
	c := check.New(t)

	noop := func(ctx context.Context) error { return nil }

	g := newGraph()
	g.Add(Task{Name: "a", Run: noop})
	g.Add(Task{Name: "a", Run: noop})

	var dup *DuplicateError
	err := g.Validate()
	if !errors.As(err, &dup) {
		c.Fatalf("unexpected error: %v", err)
	}
	c.Equal(dup.Name, "a")

	g = newGraph()
	g.Add(Task{Name: "a", Deps: []string{"b"}})

	var unknown *UnknownDepError
	err = g.Validate()
	if !errors.As(err, &unknown) {
		c.Fatalf("unexpected error: %v", err)
	}
	c.Equal(*unknown, UnknownDepError{Task: "a", Dep: "b"})

	g = newGraph()
	g.Add(Task{Name: "a", Deps: []string{"b"}})
	g.Add(Task{Name: "b", Deps: []string{"c"}})
	g.Add(Task{Name: "c", Deps: []string{"a"}})

	var cycle *CycleError
	err = g.Validate()
	if !errors.As(err, &cycle) {
		c.Fatalf("unexpected error: %v", err)
	}
	c.Equal(cycle.Path, []string{"a", "b", "c", "a"})
	c.Equal(err.Error(), "dependency cycle: a -> b -> c -> a")

	g = newGraph()
	g.Add(Task{Name: "self", Deps: []string{"self"}})

	err = g.Validate()
	if !errors.As(err, &cycle) {
		c.Fatalf("unexpected error: %v", err)
	}
	c.Equal(cycle.Path, []string{"self", "self"})

	// Diamonds are fine
	g = newGraph()
	g.Add(Task{Name: "a"})
	g.Add(Task{Name: "b", Deps: []string{"a"}})
	g.Add(Task{Name: "c", Deps: []string{"a"}})
	g.Add(Task{Name: "d", Deps: []string{"b", "c"}})
	c.Nil(g.Validate())
	c.Equal(g.Names(), []string{"a", "b", "c", "d"})
	c.True(g.Has("d"))
	c.False(g.Has("e"))
}

type spawnErr struct{}

func (spawnErr) Error() string { return "spawn" }
func (spawnErr) Fatal() bool   { return true }

func TestFatal(t *testing.T) {
	c := check.New(t)

	errBase := errors.New("base")

	c.Nil(Fatal(nil))
	c.False(IsFatal(nil))
	c.False(IsFatal(errBase))

	err := Fatal(errBase)
	c.True(IsFatal(err))
	c.True(errors.Is(err, errBase))
	c.Equal(err.Error(), "base")

	c.True(IsFatal(fmt.Errorf("task: %w", err)))
	c.True(IsFatal(fmt.Errorf("task: %w", spawnErr{})))
}

func TestRunCancelled(t *testing.T) {
	c := check.New(t)

	g := newGraph()
	g.Add(Task{
		Name: "block",
		Run: func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	c.Nil(g.Run(ctx, "block"))
}
