package internal

import (
	"github.com/thatguystone/cog/stringc"
	"github.com/thatguystone/siteflow"
)

// Indent is used to indent multi-line output (compiler errors, subprocess
// output) under a log line
const Indent = "    "

type logger struct {
	prefix string
	logf   LogFunc
}

// LogFunc is the function called for everything
type LogFunc func(format string, a ...interface{})

// NewLogger creates a new siteflow.Logger that pushes everything to the given
// LogFunc with the given prefix.
func NewLogger(prefix string, logf LogFunc) siteflow.Logger {
	return &logger{
		prefix: prefix,
		logf:   logf,
	}
}

func (l *logger) Log(msg string) {
	l.logf("I: %s: %s", l.prefix, msg)
}

func (l *logger) Error(err error, msg string) {
	l.logf("E: %s: %s:\n%s", l.prefix, msg, stringc.Indent(err.Error(), Indent))
}

// Discard is a Logger that drops everything
var Discard siteflow.Logger = NewLogger("", func(string, ...interface{}) {})
