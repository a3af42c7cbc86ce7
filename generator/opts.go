package generator

import (
	"io"

	"github.com/thatguystone/siteflow"
)

// An Option is passed to New() to change default options
type Option interface {
	applyTo(r *Runner)
}

type option func(r *Runner)

func (o option) applyTo(r *Runner) { o(r) }

// Dir sets the directory the generator runs in
func Dir(dir string) Option {
	return option(func(r *Runner) {
		r.dir = dir
	})
}

// Strict makes a failed generator run an error. By default any exit counts
// as done.
func Strict(strict bool) Option {
	return option(func(r *Runner) {
		r.strict = strict
	})
}

// Notify sets where "Running: ..." messages are sent before each run
func Notify(cb func(msg string)) Option {
	return option(func(r *Runner) {
		r.notify = cb
	})
}

// Output redirects the generator's stdout and stderr, which are otherwise
// inherited
func Output(stdout, stderr io.Writer) Option {
	return option(func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	})
}

// LogTo sets the logger
func LogTo(log siteflow.Logger) Option {
	return option(func(r *Runner) {
		r.log = log
	})
}
