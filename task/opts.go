package task

import (
	"github.com/thatguystone/siteflow"
	"github.com/thatguystone/siteflow/internal/metrics"
)

// An Option is passed to New to change graph options
type Option interface {
	applyTo(g *Graph)
}

type option func(g *Graph)

func (o option) applyTo(g *Graph) { o(g) }

// Metrics records every task run in m
func Metrics(m *metrics.Recorder) Option {
	return option(func(g *Graph) {
		g.metrics = m
	})
}

// LogTo sets the Logger that task runs are logged to
func LogTo(l siteflow.Logger) Option {
	return option(func(g *Graph) {
		g.log = l
	})
}
