package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// C stands for "config".
type C struct {
	// Root of the site: every relative path is relative to this
	BaseDir string `yaml:"base_dir"`

	// Where the generator writes the built site; the dev server serves this
	SiteDir string `yaml:"site_dir"`

	// Where assets are published for future generator builds
	PublishDir string `yaml:"publish_dir"`

	Sass      Sass      `yaml:"sass"`
	Templates Templates `yaml:"templates"`
	Scripts   Scripts   `yaml:"scripts"`
	Reveal    Reveal    `yaml:"reveal"`
	Generator Generator `yaml:"generator"`
	Server    Server    `yaml:"server"`

	// Globs, relative to BaseDir, of content that requires a generator
	// rebuild when changed
	Content []string `yaml:"content"`
}

// Sass configures the style compiler
type Sass struct {
	Entry        string   `yaml:"entry"`
	IncludePaths []string `yaml:"include_paths"`
	Browsers     []string `yaml:"browsers"`
	OutDir       string   `yaml:"out_dir"` // Relative to SiteDir and PublishDir
}

// Templates configures the jade compiler
type Templates struct {
	SrcDir string `yaml:"src_dir"`
	OutDir string `yaml:"out_dir"`
}

// Scripts configures the script bundler
type Scripts struct {
	SrcDir  string `yaml:"src_dir"`
	Bundle  string `yaml:"bundle"`
	OutDir  string `yaml:"out_dir"` // Relative to SiteDir and PublishDir
	Isolate bool   `yaml:"isolate"` // Give each file its own scope
}

// Reveal configures the generated scroll-reveal script
type Reveal struct {
	Enabled    bool   `yaml:"enabled"`
	Output     string `yaml:"output"`
	Section    string `yaml:"section"`
	Class      string `yaml:"class"`
	ThrottleMS int    `yaml:"throttle_ms"`
}

// Generator configures the site generator subprocess
type Generator struct {
	Cmd    []string `yaml:"cmd"`
	Strict bool     `yaml:"strict"`
}

// Server configures the dev server
type Server struct {
	Addr string `yaml:"addr"`
}

// GeneratorBin is the generator executable for the given GOOS
func GeneratorBin(goos string) string {
	if goos == "windows" {
		return "jekyll.bat"
	}

	return "jekyll"
}

// New creates a config with the defaults of a Jekyll site
func New() *C {
	return &C{
		BaseDir:    ".",
		SiteDir:    "_site",
		PublishDir: ".",
		Sass: Sass{
			Entry:        "_dev/sass/main.sass",
			IncludePaths: []string{"_dev/sass"},
			Browsers:     []string{"last 15 versions", "> 1%", "ie 8", "ie 7"},
			OutDir:       "assets/css",
		},
		Templates: Templates{
			SrcDir: "_dev/jade",
			OutDir: "_includes",
		},
		Scripts: Scripts{
			SrcDir:  "_dev/js",
			Bundle:  "app.js",
			OutDir:  "assets/js",
			Isolate: true,
		},
		Reveal: Reveal{
			Enabled:    true,
			Output:     "reveal.js",
			Section:    "animated-section",
			Class:      "animate",
			ThrottleMS: 100,
		},
		Generator: Generator{
			Cmd: []string{GeneratorBin(runtime.GOOS), "build"},
		},
		Server: Server{
			Addr: "localhost:3000",
		},
		Content: []string{
			"*.html",
			"_layouts/*.html",
			"_posts/*",
			"_includes/*",
		},
	}
}

// Load extra configs on top of this config.
func (c *C) Load(files ...string) error {
	for _, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		err = yaml.UnmarshalStrict(b, c)
		if err != nil {
			return fmt.Errorf("failed to unmarshal config file %s: %w", file, err)
		}
	}

	return nil
}

// LoadEnv applies a .env file in BaseDir (if there is one), followed by any
// SITEFLOW_* environment overrides.
func (c *C) LoadEnv() error {
	env := filepath.Join(c.BaseDir, ".env")
	if _, err := os.Stat(env); err == nil {
		err = godotenv.Load(env)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", env, err)
		}
	}

	if gen := os.Getenv("SITEFLOW_GENERATOR"); gen != "" {
		c.Generator.Cmd = strings.Fields(gen)
	}

	if addr := os.Getenv("SITEFLOW_ADDR"); addr != "" {
		c.Server.Addr = addr
	}

	return nil
}

// InDir prefixes each non-absolute path in C with BaseDir.
func (c C) InDir() *C {
	dir := c.BaseDir

	pfx := []*string{
		&c.SiteDir,
		&c.PublishDir,
		&c.Sass.Entry,
		&c.Templates.SrcDir,
		&c.Templates.OutDir,
		&c.Scripts.SrcDir,
	}

	for _, p := range pfx {
		if !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}

	incs := make([]string, len(c.Sass.IncludePaths))
	for i, inc := range c.Sass.IncludePaths {
		if !filepath.IsAbs(inc) {
			inc = filepath.Join(dir, inc)
		}

		incs[i] = inc
	}
	c.Sass.IncludePaths = incs

	return &c
}

// Dests are the two directories an asset with the given out dir is written
// to: the built site (for live injection) and the publish dir (for the next
// generator build).
func (c *C) Dests(outDir string) []string {
	return []string{
		filepath.Join(c.SiteDir, outDir),
		filepath.Join(c.PublishDir, outDir),
	}
}

// URL is the path the dev server serves a published asset under
func URL(outDir, name string) string {
	return "/" + filepath.ToSlash(filepath.Join(outDir, name))
}
