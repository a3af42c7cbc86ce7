package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/thatguystone/cog/check"
	"github.com/thatguystone/siteflow/internal/testutil"
)

func TestGeneratorBin(t *testing.T) {
	c := check.New(t)

	c.Equal(GeneratorBin("windows"), "jekyll.bat")
	c.Equal(GeneratorBin("linux"), "jekyll")
	c.Equal(GeneratorBin("darwin"), "jekyll")
}

func TestLoadErrors(t *testing.T) {
	c := check.New(t)

	tmp := testutil.NewTmpDir(c, map[string]string{
		"invalid.yml": "sass: [",
		"unknown.yml": "narp: true",
	})
	defer tmp.Remove()

	cfg := New()
	c.NotNil(cfg.Load(tmp.Path("narp.yml")))
	c.NotNil(cfg.Load(tmp.Path("invalid.yml")))
	c.NotNil(cfg.Load(tmp.Path("unknown.yml")))
}

func TestLoadLayers(t *testing.T) {
	c := check.New(t)

	tmp := testutil.NewTmpDir(c, map[string]string{
		"one.yml": "" +
			"site_dir: out\n" +
			"sass:\n" +
			"  entry: styles/site.scss\n",
		"two.yml": "" +
			"site_dir: public\n" +
			"scripts:\n" +
			"  isolate: false\n",
	})
	defer tmp.Remove()

	cfg := New()
	err := cfg.Load(tmp.Path("one.yml"), tmp.Path("two.yml"))
	c.Must.Nil(err)

	c.Equal(cfg.SiteDir, "public")
	c.Equal(cfg.Sass.Entry, "styles/site.scss")
	c.False(cfg.Scripts.Isolate)
	c.Equal(cfg.Scripts.Bundle, "app.js")
	c.True(New().Scripts.Isolate)
}

func TestInDir(t *testing.T) {
	c := check.New(t)

	cfg := New()
	cfg.BaseDir = "blah"
	cfg.Sass.IncludePaths = append(cfg.Sass.IncludePaths, "/abs/sass")

	in := cfg.InDir()
	c.Equal(in.SiteDir, filepath.Join("blah", "_site"))
	c.Equal(in.PublishDir, "blah")
	c.Equal(in.Sass.Entry, filepath.Join("blah", "_dev", "sass", "main.sass"))
	c.Equal(in.Sass.IncludePaths[0], filepath.Join("blah", "_dev", "sass"))
	c.Equal(in.Sass.IncludePaths[1], "/abs/sass")

	// Original untouched
	c.Equal(cfg.SiteDir, "_site")
	c.Equal(cfg.Sass.IncludePaths[0], "_dev/sass")
}

func TestDests(t *testing.T) {
	c := check.New(t)

	cfg := New()
	cfg.BaseDir = "site"
	in := cfg.InDir()

	c.Equal(in.Dests("assets/css"), []string{
		filepath.Join("site", "_site", "assets", "css"),
		filepath.Join("site", "assets", "css"),
	})
	c.Equal(URL("assets/css", "main.css"), "/assets/css/main.css")
}

func TestLoadEnv(t *testing.T) {
	c := check.New(t)

	tmp := testutil.NewTmpDir(c, map[string]string{
		".env": "SITEFLOW_GENERATOR=bundle exec jekyll build\n",
	})
	defer tmp.Remove()

	// check.New runs tests in parallel, which rules out t.Setenv
	defer os.Unsetenv("SITEFLOW_GENERATOR")
	defer os.Unsetenv("SITEFLOW_ADDR")
	err := os.Setenv("SITEFLOW_ADDR", "127.0.0.1:4000")
	c.Must.Nil(err)

	cfg := New()
	cfg.BaseDir = tmp.Path(".")

	err = cfg.LoadEnv()
	c.Must.Nil(err)

	c.Equal(cfg.Generator.Cmd, []string{"bundle", "exec", "jekyll", "build"})
	c.Equal(cfg.Server.Addr, "127.0.0.1:4000")
}
