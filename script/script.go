// Package script bundles a directory of scripts: each file is transpiled to
// an older dialect, then everything is concatenated and minified.
//
// Each file is wrapped in its own function scope before files are concatenated
// in directory-listing order, so files may reuse top-level names freely and
// share state only through globals (window.x). Isolate(false) drops the
// wrapping: files then share one scope, and a later top-level var or function
// shadows one of the same name in an earlier file. Repeating a let, const, or
// class name across files in a shared scope is a SyntaxError in the browser.
package script

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/thatguystone/siteflow"
	"github.com/thatguystone/siteflow/internal"
	"github.com/thatguystone/siteflow/internal/afs"
	"github.com/thatguystone/siteflow/internal/min"
	"github.com/thatguystone/siteflow/internal/pool"
)

// Pattern matches the scripts in the source dir
const Pattern = "*.js"

// Target is the dialect scripts are transpiled to
const Target = api.ES2015

// Separator is placed between files in the bundle
const Separator = "\n"

// Error maps each script that failed to transpile to its messages
type Error map[string][]string

func (err Error) Error() string {
	var files []string
	for file := range err {
		files = append(files, file)
	}

	sort.Strings(files)

	var b strings.Builder
	b.WriteString("the following scripts have errors:\n")

	for _, file := range files {
		for _, msg := range err[file] {
			fmt.Fprintf(&b, internal.Indent+"%s\n", msg)
		}
	}

	return b.String()
}

// Bundler builds one bundle from a directory of scripts
type Bundler struct {
	srcDir  string
	output  string
	dests   []string
	isolate bool
	log     siteflow.Logger
}

// New creates a bundler for srcDir/*.js
func New(srcDir string, opts ...Option) *Bundler {
	b := &Bundler{
		srcDir:  srcDir,
		output:  "app.js",
		isolate: true,
		log:     internal.NewLogger("scripts", log.Printf),
	}

	for _, opt := range opts {
		opt.applyTo(b)
	}

	return b
}

// Output is the name of the bundle written to each dest
func (b *Bundler) Output() string {
	return b.output
}

// Build bundles and writes the result to every dest
func (b *Bundler) Build() error {
	start := time.Now()

	bundle, n, err := b.Bundle()
	if err != nil {
		return err
	}

	err = afs.WriteDests(b.output, bundle, b.dests...)
	if err != nil {
		return err
	}

	b.log.Log(fmt.Sprintf("bundled %d scripts into %s in %s",
		n, b.output, time.Since(start)))
	return nil
}

// Bundle transpiles, concatenates, and minifies every script, returning the
// bundle and the number of scripts in it
func (b *Bundler) Bundle() ([]byte, int, error) {
	srcs, err := afs.Glob(b.srcDir, Pattern)
	if err != nil {
		return nil, 0, err
	}

	type result struct {
		out  []byte
		msgs []string
		err  error
	}

	res := make([]result, len(srcs))
	pool.Each(len(srcs), func(i int) {
		code, err := os.ReadFile(srcs[i])
		if err != nil {
			res[i].err = err
			return
		}

		res[i].out, res[i].msgs = transpile(srcs[i], code, b.isolate)
	})

	errs := make(Error)
	var cat bytes.Buffer

	for i, r := range res {
		if r.err != nil {
			return nil, 0, r.err
		}

		if len(r.msgs) > 0 {
			errs[srcs[i]] = r.msgs
			continue
		}

		if i > 0 {
			cat.WriteString(Separator)
		}
		cat.Write(r.out)
	}

	if len(errs) > 0 {
		return nil, 0, errs
	}

	bundle, err := min.Bytes(min.JS, cat.Bytes())
	if err != nil {
		return nil, 0, fmt.Errorf("minify %s: %w", b.output, err)
	}

	return bundle, len(srcs), nil
}

// Transpile transpiles a single script to Target
func Transpile(name string, code []byte, isolate bool) ([]byte, error) {
	out, msgs := transpile(name, code, isolate)
	if len(msgs) > 0 {
		return nil, Error{name: msgs}
	}

	return out, nil
}

func transpile(name string, code []byte, isolate bool) ([]byte, []string) {
	opts := api.TransformOptions{
		Loader:     api.LoaderJS,
		Target:     Target,
		Sourcefile: filepath.Base(name),
		LogLevel:   api.LogLevelSilent,
	}

	if isolate {
		opts.Format = api.FormatIIFE
		opts.TreeShaking = api.TreeShakingFalse
	}

	res := api.Transform(string(code), opts)
	if len(res.Errors) == 0 {
		return res.Code, nil
	}

	msgs := make([]string, len(res.Errors))
	for i, m := range res.Errors {
		msgs[i] = formatMessage(name, m)
	}

	return nil, msgs
}

func formatMessage(name string, m api.Message) string {
	if m.Location == nil {
		return fmt.Sprintf("%s: %s", name, m.Text)
	}

	return fmt.Sprintf("%s:%d:%d: %s",
		name, m.Location.Line, m.Location.Column, m.Text)
}
