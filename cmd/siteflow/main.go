// Command siteflow builds, serves, and watches a generated site's front end
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/thatguystone/siteflow/internal"
	"github.com/thatguystone/siteflow/internal/config"
	"github.com/thatguystone/siteflow/pipeline"
)

type taskCmd struct{}

// cli is every flag and command siteflow understands. Each command runs the
// pipeline task of the same name.
type cli struct {
	Config []string `short:"c" help:"Config files, applied in order over the defaults" type:"existingfile"`
	Dir    string   `short:"d" help:"Site base directory" type:"existingdir"`

	Default          taskCmd `cmd:"" default:"1" help:"Build styles and the site, then serve and watch for changes"`
	StyleBuild       taskCmd `cmd:"" name:"style-build" help:"Compile, prefix, and minify the stylesheet"`
	TemplateBuild    taskCmd `cmd:"" name:"template-build" help:"Compile jade templates into include partials"`
	ScriptBuild      taskCmd `cmd:"" name:"script-build" help:"Transpile, bundle, and minify scripts"`
	RevealBuild      taskCmd `cmd:"" name:"reveal-build" help:"Write the scroll reveal script"`
	GeneratorBuild   taskCmd `cmd:"" name:"generator-build" help:"Run the site generator"`
	GeneratorRebuild taskCmd `cmd:"" name:"generator-rebuild" help:"Run the site generator, then reload browsers"`
	Serve            taskCmd `cmd:"" help:"Build styles and the site, then serve it"`
	Watch            taskCmd `cmd:"" help:"Watch sources and rebuild what changes"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], log.Printf)
	stop()

	os.Exit(code)
}

func run(ctx context.Context, args []string, logf internal.LogFunc) int {
	l := internal.NewLogger("siteflow", logf)

	var opts cli
	parser, err := kong.New(&opts,
		kong.Name("siteflow"),
		kong.Description("Builds, serves, and watches a generated site's front end."),
		kong.UsageOnError())
	if err != nil {
		panic(err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		l.Error(err, "invalid arguments")
		return 2
	}

	cfg := config.New()

	err = cfg.Load(opts.Config...)
	if err != nil {
		l.Error(err, "failed to load config")
		return 1
	}

	if opts.Dir != "" {
		cfg.BaseDir = opts.Dir
	}

	err = cfg.LoadEnv()
	if err != nil {
		l.Error(err, "failed to load environment")
		return 1
	}

	p, err := pipeline.New(cfg, pipeline.LogFunc(logf))
	if err != nil {
		l.Error(err, "invalid config")
		return 1
	}

	name := kctx.Command()

	err = p.Run(ctx, name)
	if err != nil {
		l.Error(err, fmt.Sprintf("%s failed", name))
		return 1
	}

	return 0
}
