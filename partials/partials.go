// Package partials compiles jade templates into generator include partials
package partials

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Joker/jade"
	"github.com/thatguystone/siteflow"
	"github.com/thatguystone/siteflow/internal"
	"github.com/thatguystone/siteflow/internal/afs"
	"github.com/thatguystone/siteflow/internal/pool"
)

// Pattern matches the templates in the source dir
const Pattern = "*.jade"

// Compiler compiles every template in a directory
type Compiler struct {
	srcDir string
	outDir string
	log    siteflow.Logger
}

// New creates a compiler that reads srcDir/*.jade and writes one partial per
// template into outDir
func New(srcDir, outDir string, logger siteflow.Logger) *Compiler {
	if logger == nil {
		logger = internal.NewLogger("jade", log.Printf)
	}

	return &Compiler{
		srcDir: srcDir,
		outDir: outDir,
		log:    logger,
	}
}

// PartialName is the name of the partial compiled from the given template
func PartialName(src string) string {
	return afs.OutName(src, ".html")
}

// Build compiles every template. Nothing is written unless every template
// compiles.
func (p *Compiler) Build() ([]string, error) {
	start := time.Now()

	srcs, err := afs.Glob(p.srcDir, Pattern)
	if err != nil {
		return nil, err
	}

	configureOnce.Do(configure)

	outs := make([][]byte, len(srcs))
	fails := make([]error, len(srcs))

	pool.Each(len(srcs), func(i int) {
		outs[i], fails[i] = compile(srcs[i])
	})

	errs := make(Error)
	for i, err := range fails {
		if err != nil {
			errs[srcs[i]] = err
		}
	}

	err = errs.getError()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(srcs))
	for i, src := range srcs {
		names[i] = PartialName(src)

		err = afs.WriteDests(names[i], outs[i], p.outDir)
		if err != nil {
			return nil, err
		}
	}

	p.log.Log(fmt.Sprintf("built %d partials in %s", len(names), time.Since(start)))
	return names, nil
}

func compile(src string) ([]byte, error) {
	b, err := os.ReadFile(src)
	if err != nil {
		return nil, err
	}

	html, err := jade.Parse(src, b)
	if err != nil {
		return nil, err
	}

	html, err = static(html)
	if err != nil {
		return nil, err
	}

	return []byte(html), nil
}
