package sass

import "github.com/thatguystone/siteflow"

// An Option is passed to New() to change default options
type Option interface {
	applyTo(s *Compiler)
}

type option func(s *Compiler)

func (o option) applyTo(s *Compiler) { o(s) }

// IncludePaths adds paths to sass's include paths
func IncludePaths(paths ...string) Option {
	return option(func(s *Compiler) {
		s.includePaths = append(s.includePaths, paths...)
	})
}

// Browsers sets the browser matrix used for vendor prefixes. Without it, no
// prefixes are added.
func Browsers(queries ...string) Option {
	return option(func(s *Compiler) {
		s.browsers = queries
	})
}

// Dests adds directories the compiled css is written to
func Dests(dirs ...string) Option {
	return option(func(s *Compiler) {
		s.dests = append(s.dests, dirs...)
	})
}

// Output changes the output file name from the entry's name with a .css
// extension
func Output(name string) Option {
	return option(func(s *Compiler) {
		s.output = name
	})
}

// LogTo sets the logger
func LogTo(log siteflow.Logger) Option {
	return option(func(s *Compiler) {
		s.log = log
	})
}
