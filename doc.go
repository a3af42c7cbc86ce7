// Package siteflow builds and serves the front end of a Jekyll-style static
// site: sass, jade partials, bundled scripts, the site generator, and a
// live-reloading dev server driven by a file watcher.
//
// The pieces live in their own packages; package pipeline wires them into the
// named tasks exposed by cmd/siteflow.
package siteflow
