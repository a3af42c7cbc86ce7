package pipeline

import (
	"io"

	"github.com/thatguystone/siteflow/generator"
	"github.com/thatguystone/siteflow/internal"
)

// An Option is passed to New to change pipeline options
type Option interface {
	applyTo(p *Pipeline)
}

type option func(p *Pipeline)

func (o option) applyTo(p *Pipeline) { o(p) }

// LogFunc sets where every component logs to
func LogFunc(logf internal.LogFunc) Option {
	return option(func(p *Pipeline) {
		p.logf = logf
	})
}

// GeneratorOutput sets where the generator's output goes. It inherits the
// process's stdio by default.
func GeneratorOutput(stdout, stderr io.Writer) Option {
	return option(func(p *Pipeline) {
		p.genOpts = append(p.genOpts, generator.Output(stdout, stderr))
	})
}
