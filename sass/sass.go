// Package sass implements the style compiler: sass in, prefixed and minified
// css out
package sass

import (
	"bytes"
	"fmt"
	"log"
	"time"

	"github.com/thatguystone/siteflow"
	"github.com/thatguystone/siteflow/internal"
	"github.com/thatguystone/siteflow/internal/afs"
	"github.com/thatguystone/siteflow/internal/min"
	"github.com/thatguystone/siteflow/prefix"
	libsass "github.com/wellington/go-libsass"
)

// An Error is returned when the sass fails to compile
type Error struct {
	Entry string
	Err   error
}

func (err *Error) Error() string {
	return fmt.Sprintf("sass %s: %v", err.Entry, err.Err)
}

func (err *Error) Unwrap() error {
	return err.Err
}

// Compiler compiles one sass entry point
type Compiler struct {
	entry        string
	includePaths []string
	browsers     []string
	dests        []string
	output       string
	log          siteflow.Logger
	prefixer     *prefix.Prefixer
}

// New creates a new sass compiler
func New(entry string, opts ...Option) (*Compiler, error) {
	s := &Compiler{
		entry:  entry,
		output: afs.OutName(entry, ".css"),
		log:    internal.NewLogger(fmt.Sprintf("sass{%s}", entry), log.Printf),
	}

	for _, opt := range opts {
		opt.applyTo(s)
	}

	p, err := prefix.New(s.browsers)
	if err != nil {
		return nil, err
	}

	s.prefixer = p

	return s, nil
}

// Output is the name of the file written to each dest
func (s *Compiler) Output() string {
	return s.output
}

// Build compiles the entry and writes the result to every dest
func (s *Compiler) Build() error {
	start := time.Now()

	css, err := s.Compile()
	if err != nil {
		return err
	}

	err = afs.WriteDests(s.output, css, s.dests...)
	if err != nil {
		return err
	}

	s.log.Log(fmt.Sprintf("built %s in %s", s.output, time.Since(start)))
	return nil
}

// Compile compiles, prefixes, and minifies the entry
func (s *Compiler) Compile() ([]byte, error) {
	var buff bytes.Buffer

	comp, err := libsass.New(&buff, nil,
		libsass.Path(s.entry),
		libsass.IncludePaths(s.includePaths),
		libsass.OutputStyle(libsass.COMPRESSED_STYLE))
	if err != nil {
		return nil, &Error{Entry: s.entry, Err: err}
	}

	err = comp.Run()
	if err != nil {
		return nil, &Error{Entry: s.entry, Err: err}
	}

	css, err := s.prefixer.Prefix(buff.Bytes())
	if err != nil {
		return nil, &Error{Entry: s.entry, Err: err}
	}

	css, err = min.Bytes(min.CSS, css)
	if err != nil {
		return nil, &Error{Entry: s.entry, Err: err}
	}

	return css, nil
}
