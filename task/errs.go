package task

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTask is returned when running a task that was never added
var ErrUnknownTask = errors.New("unknown task")

// A DuplicateError is returned when two tasks share a name
type DuplicateError struct {
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("task %q defined more than once", e.Name)
}

// An UnknownDepError is returned when a task depends on a task that doesn't
// exist
type UnknownDepError struct {
	Task string
	Dep  string
}

func (e *UnknownDepError) Error() string {
	return fmt.Sprintf("task %q depends on unknown task %q", e.Task, e.Dep)
}

// A CycleError is returned when tasks depend on each other. Path starts and
// ends with the same task.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle: %s", strings.Join(e.Path, " -> "))
}

type fatal struct {
	err error
}

func (f fatal) Error() string { return f.err.Error() }
func (f fatal) Unwrap() error { return f.err }
func (f fatal) Fatal() bool   { return true }

// Fatal marks err as fatal: long-running tasks stop when one of the tasks
// they trigger fails with it.
func Fatal(err error) error {
	if err == nil {
		return nil
	}

	return fatal{err: err}
}

// IsFatal checks if anything in err's chain says that it's fatal
func IsFatal(err error) bool {
	var f interface{ Fatal() bool }
	return errors.As(err, &f) && f.Fatal()
}
