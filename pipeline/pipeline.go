// Package pipeline defines the tasks that build and serve a site: styles,
// templates, scripts, the generator, the dev server, and the watcher.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"path"
	"path/filepath"
	"time"

	"github.com/thatguystone/siteflow"
	"github.com/thatguystone/siteflow/generator"
	"github.com/thatguystone/siteflow/internal"
	"github.com/thatguystone/siteflow/internal/afs"
	"github.com/thatguystone/siteflow/internal/config"
	"github.com/thatguystone/siteflow/internal/metrics"
	"github.com/thatguystone/siteflow/livereload"
	"github.com/thatguystone/siteflow/partials"
	"github.com/thatguystone/siteflow/reveal"
	"github.com/thatguystone/siteflow/sass"
	"github.com/thatguystone/siteflow/script"
	"github.com/thatguystone/siteflow/server"
	"github.com/thatguystone/siteflow/task"
	"github.com/thatguystone/siteflow/watch"
)

// Task names
const (
	StyleBuild       = "style-build"
	TemplateBuild    = "template-build"
	ScriptBuild      = "script-build"
	RevealBuild      = "reveal-build"
	GeneratorBuild   = "generator-build"
	GeneratorRebuild = "generator-rebuild"
	Serve            = "serve"
	Watch            = "watch"
	Default          = "default"
)

// A Pipeline holds every task for a site
type Pipeline struct {
	raw *config.C // Paths relative to BaseDir, for watch globs
	cfg *config.C

	logf    internal.LogFunc
	log     siteflow.Logger
	genOpts []generator.Option

	metrics  *metrics.Recorder
	hub      *livereload.Hub
	graph    *task.Graph
	sass     *sass.Compiler
	partials *partials.Compiler
	scripts  *script.Bundler
	gen      *generator.Runner
	server   *server.Server
}

// New creates the pipeline for the site described by cfg
func New(cfg *config.C, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		raw:     cfg,
		cfg:     cfg.InDir(),
		logf:    log.Printf,
		metrics: metrics.New(),
	}

	for _, opt := range opts {
		opt.applyTo(p)
	}

	p.log = p.logger("siteflow")
	p.hub = livereload.NewHub(p.metrics)

	var err error
	p.sass, err = sass.New(p.cfg.Sass.Entry,
		sass.IncludePaths(p.cfg.Sass.IncludePaths...),
		sass.Browsers(p.cfg.Sass.Browsers...),
		sass.Dests(p.cfg.Dests(p.cfg.Sass.OutDir)...),
		sass.LogTo(p.logger("sass")))
	if err != nil {
		return nil, fmt.Errorf("invalid sass config: %w", err)
	}

	p.partials = partials.New(
		p.cfg.Templates.SrcDir,
		p.cfg.Templates.OutDir,
		p.logger("jade"))

	p.scripts = script.New(p.cfg.Scripts.SrcDir,
		script.Output(p.cfg.Scripts.Bundle),
		script.Dests(p.cfg.Dests(p.cfg.Scripts.OutDir)...),
		script.Isolate(p.cfg.Scripts.Isolate),
		script.LogTo(p.logger("scripts")))

	p.gen = generator.New(p.cfg.Generator.Cmd,
		append([]generator.Option{
			generator.Dir(p.cfg.BaseDir),
			generator.Strict(p.cfg.Generator.Strict),
			generator.Notify(p.hub.Notify),
			generator.LogTo(p.logger("generator")),
		}, p.genOpts...)...)

	p.server = server.New(p.cfg.SiteDir, p.hub,
		server.Addr(p.cfg.Server.Addr),
		server.Metrics(p.metrics),
		server.LogTo(p.logger("serve")))

	p.graph = task.New(
		task.Metrics(p.metrics),
		task.LogTo(p.logger("task")))
	p.addTasks()

	err = p.graph.Validate()
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Pipeline) logger(prefix string) siteflow.Logger {
	return internal.NewLogger(prefix, p.logf)
}

func (p *Pipeline) addTasks() {
	serveDeps := []string{StyleBuild, GeneratorBuild}
	if p.cfg.Reveal.Enabled {
		serveDeps = append(serveDeps, RevealBuild)
	}

	tasks := []task.Task{
		{Name: StyleBuild, Run: p.styleBuild},
		{Name: TemplateBuild, Run: p.templateBuild},
		{Name: ScriptBuild, Run: p.scriptBuild},
		{Name: RevealBuild, Run: p.revealBuild},
		{Name: GeneratorBuild, Run: p.gen.Build},
		{
			Name: GeneratorRebuild,
			Deps: []string{GeneratorBuild},
			Run: func(ctx context.Context) error {
				p.hub.Reload()
				return nil
			},
		},
		{
			// A broken source file shouldn't keep the site from being served
			// and watched: it gets fixed and rebuilt while running.
			Name:     Serve,
			Deps:     serveDeps,
			Run:      p.server.ListenAndServe,
			Tolerant: true,
		},
		{Name: Watch, Run: p.watch},
		{Name: Default, Deps: []string{Serve, Watch}},
	}

	for _, t := range tasks {
		p.graph.Add(t)
	}
}

// Graph is the pipeline's task graph
func (p *Pipeline) Graph() *task.Graph {
	return p.graph
}

// Hub is the live reload hub that pages served by the pipeline connect to
func (p *Pipeline) Hub() *livereload.Hub {
	return p.hub
}

// Config is the pipeline's config, with every path anchored in BaseDir
func (p *Pipeline) Config() *config.C {
	return p.cfg
}

// Run runs the named task
func (p *Pipeline) Run(ctx context.Context, name string) error {
	return p.graph.Run(ctx, name)
}

// failed tells the browser about a build error
func (p *Pipeline) failed(err error) error {
	if err != nil {
		p.hub.Notify(err.Error())
	}

	return err
}

func (p *Pipeline) styleBuild(ctx context.Context) error {
	err := p.sass.Build()
	if err != nil {
		return p.failed(err)
	}

	p.hub.Inject(config.URL(p.cfg.Sass.OutDir, p.sass.Output()))
	return nil
}

func (p *Pipeline) templateBuild(ctx context.Context) error {
	_, err := p.partials.Build()
	return p.failed(err)
}

func (p *Pipeline) scriptBuild(ctx context.Context) error {
	err := p.scripts.Build()
	if err != nil {
		return p.failed(err)
	}

	p.hub.Inject(config.URL(p.cfg.Scripts.OutDir, p.scripts.Output()))
	return nil
}

func (p *Pipeline) revealBuild(ctx context.Context) error {
	rc := p.cfg.Reveal
	if !rc.Enabled {
		p.log.Log("reveal script disabled")
		return nil
	}

	b, err := reveal.Script(reveal.Options{
		Section:  rc.Section,
		Class:    rc.Class,
		Throttle: time.Duration(rc.ThrottleMS) * time.Millisecond,
	})
	if err != nil {
		return err
	}

	return afs.WriteDests(rc.Output, b, p.cfg.Dests(p.cfg.Scripts.OutDir)...)
}

func (p *Pipeline) watch(ctx context.Context) error {
	w, err := watch.New(p.cfg.BaseDir)
	if err != nil {
		return task.Fatal(err)
	}

	defer w.Stop()

	d := watch.NewDispatcher(p.Rules(), p.graph.Run, p.metrics, p.logger("watch"))

	p.log.Log(fmt.Sprintf("watching %s for changes", p.cfg.BaseDir))
	return d.Run(ctx, w)
}

// Rules maps changed source files to the tasks that rebuild from them
func (p *Pipeline) Rules() watch.Rules {
	raw := p.raw

	var sassGlobs []string
	seen := map[string]bool{}

	sassDirs := append([]string{filepath.Dir(raw.Sass.Entry)}, raw.Sass.IncludePaths...)
	for _, dir := range sassDirs {
		if filepath.IsAbs(dir) {
			continue
		}

		dir = filepath.ToSlash(filepath.Clean(dir))
		if seen[dir] {
			continue
		}

		seen[dir] = true
		sassGlobs = append(sassGlobs,
			path.Join(dir, "**", "*.sass"),
			path.Join(dir, "**", "*.scss"))
	}

	rules := []watch.Rule{
		{
			Globs: sassGlobs,
			Task:  StyleBuild,
		},
		{
			Globs: raw.Content,
			Task:  GeneratorRebuild,
		},
		{
			Globs: []string{path.Join(filepath.ToSlash(raw.Templates.SrcDir), "*")},
			Task:  TemplateBuild,
		},
		{
			Globs: []string{path.Join(filepath.ToSlash(raw.Scripts.SrcDir), "*")},
			Task:  ScriptBuild,
		},
	}

	ignore := []string{
		raw.SiteDir,
		filepath.Join(raw.PublishDir, raw.Sass.OutDir),
		filepath.Join(raw.PublishDir, raw.Scripts.OutDir),
	}

	return watch.NewRules(p.cfg.BaseDir, rules, ignore...)
}
