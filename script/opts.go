package script

import "github.com/thatguystone/siteflow"

// An Option is passed to New() to change default options
type Option interface {
	applyTo(b *Bundler)
}

type option func(b *Bundler)

func (o option) applyTo(b *Bundler) { o(b) }

// Output changes the bundle's file name from "app.js"
func Output(name string) Option {
	return option(func(b *Bundler) {
		b.output = name
	})
}

// Dests adds directories the bundle is written to
func Dests(dirs ...string) Option {
	return option(func(b *Bundler) {
		b.dests = append(b.dests, dirs...)
	})
}

// Isolate controls whether every source file gets its own function scope. It
// defaults to true; with false, all files share the page's global scope.
func Isolate(isolate bool) Option {
	return option(func(b *Bundler) {
		b.isolate = isolate
	})
}

// LogTo sets the logger
func LogTo(log siteflow.Logger) Option {
	return option(func(b *Bundler) {
		b.log = log
	})
}
