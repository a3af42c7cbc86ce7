// Package pool runs independent per-file jobs concurrently
package pool

import (
	"runtime"
	"sync"
)

// A Runner runs jobs on a fixed number of workers
type Runner struct {
	jobs    chan func()
	pending sync.WaitGroup
	workers sync.WaitGroup
}

// NewRunner starts a Runner with size workers. size < 1 means GOMAXPROCS.
func NewRunner(size int) *Runner {
	if size < 1 {
		size = runtime.GOMAXPROCS(-1)
	}

	r := &Runner{
		jobs: make(chan func(), size*4),
	}

	r.workers.Add(size)
	for i := 0; i < size; i++ {
		go r.work()
	}

	return r
}

func (r *Runner) work() {
	defer r.workers.Done()

	for job := range r.jobs {
		job()
		r.pending.Done()
	}
}

// Do queues a job. It must not be called after Wait.
func (r *Runner) Do(job func()) {
	r.pending.Add(1)
	r.jobs <- job
}

// Wait waits for every queued job, then stops the workers
func (r *Runner) Wait() {
	r.pending.Wait()
	close(r.jobs)
	r.workers.Wait()
}

// Each calls fn for every index in [0, n), concurrently, and returns once all
// calls have. Callers collect results by index so that output order never
// depends on scheduling.
func Each(n int, fn func(i int)) {
	if n == 0 {
		return
	}

	size := runtime.GOMAXPROCS(-1)
	if n < size {
		size = n
	}

	r := NewRunner(size)
	for i := 0; i < n; i++ {
		i := i
		r.Do(func() { fn(i) })
	}

	r.Wait()
}
