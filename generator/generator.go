// Package generator runs the external static site generator
package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/thatguystone/siteflow"
	"github.com/thatguystone/siteflow/internal"
)

// A SpawnError is returned when the generator could not be started at all
// (typically: it isn't installed). Nothing can recover from that, so it's
// fatal to a watch.
type SpawnError struct {
	Cmd []string
	Err error
}

func (err *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %q: %v", strings.Join(err.Cmd, " "), err.Err)
}

func (err *SpawnError) Unwrap() error { return err.Err }

// Fatal marks the error as unrecoverable
func (err *SpawnError) Fatal() bool { return true }

// An ExitError is returned by a strict Runner when the generator fails
type ExitError struct {
	Cmd []string
	Err *exec.ExitError
}

func (err *ExitError) Error() string {
	return fmt.Sprintf("%q: %v", strings.Join(err.Cmd, " "), err.Err)
}

func (err *ExitError) Unwrap() error { return err.Err }

// How long to wait for output to drain after the generator is killed
const waitDelay = time.Second

// Runner runs the generator
type Runner struct {
	cmd    []string
	dir    string
	strict bool
	notify func(string)
	stdout io.Writer
	stderr io.Writer
	log    siteflow.Logger
}

// New creates a Runner for the given command, eg. ["jekyll", "build"]
func New(cmd []string, opts ...Option) *Runner {
	r := &Runner{
		cmd:    cmd,
		notify: func(string) {},
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	if len(cmd) > 0 {
		r.log = internal.NewLogger(fmt.Sprintf("generator{%s}", cmd[0]), log.Printf)
	} else {
		r.log = internal.NewLogger("generator", log.Printf)
	}

	for _, opt := range opts {
		opt.applyTo(r)
	}

	return r
}

// Message is the notification sent before each run
func (r *Runner) Message() string {
	return "Running: $ " + strings.Join(r.cmd, " ")
}

// Build runs the generator and waits for it to exit. Unless the Runner is
// strict, the exit status is only logged: any exit means the build is done.
// There is no timeout; only ctx stops a hung generator.
func (r *Runner) Build(ctx context.Context) error {
	if len(r.cmd) == 0 {
		return &SpawnError{Err: errors.New("no generator command configured")}
	}

	r.notify(r.Message())

	start := time.Now()

	cmd := exec.CommandContext(ctx, r.cmd[0], r.cmd[1:]...)
	cmd.Dir = r.dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Start()
	if err != nil {
		return &SpawnError{Cmd: r.cmd, Err: err}
	}

	err = cmd.Wait()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		r.log.Error(err, "generator exited with failure")
		if r.strict {
			return &ExitError{Cmd: r.cmd, Err: exitErr}
		}

		return nil
	}

	if err != nil {
		return err
	}

	r.log.Log(fmt.Sprintf("build finished in %s", time.Since(start)))
	return nil
}
