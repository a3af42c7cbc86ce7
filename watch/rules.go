package watch

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// A Rule runs a task when a path matching any of its globs changes. Globs are
// slash-separated and relative to the watched dir.
type Rule struct {
	Globs []string
	Task  string
}

// Rules map changed paths to the tasks they trigger
type Rules struct {
	bases  []string
	rules  []Rule
	ignore []string
}

// NewRules creates Rules for paths under base. Nothing under any of the
// ignore dirs (relative to base) ever matches.
func NewRules(base string, rules []Rule, ignore ...string) Rules {
	rs := Rules{
		rules: rules,
	}

	if abs, err := filepath.Abs(base); err == nil {
		base = abs
	}
	rs.bases = append(rs.bases, base)

	// Events can come in under either name
	if resolved, err := filepath.EvalSymlinks(base); err == nil && resolved != base {
		rs.bases = append(rs.bases, resolved)
	}

	for _, dir := range ignore {
		dir = filepath.ToSlash(filepath.Clean(dir))
		if dir != "." {
			rs.ignore = append(rs.ignore, dir)
		}
	}

	return rs
}

// Match gets the tasks triggered by the given paths, in rule order, each at
// most once
func (rs Rules) Match(paths []string) []string {
	hit := make([]bool, len(rs.rules))

	for _, path := range paths {
		rel, ok := rs.rel(path)
		if !ok {
			continue
		}

		for i, r := range rs.rules {
			if !hit[i] && r.matches(rel) {
				hit[i] = true
			}
		}
	}

	var tasks []string
	seen := map[string]bool{}

	for i, r := range rs.rules {
		if hit[i] && !seen[r.Task] {
			seen[r.Task] = true
			tasks = append(tasks, r.Task)
		}
	}

	return tasks
}

func (rs Rules) rel(path string) (string, bool) {
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", false
		}

		path = abs
	}

	for _, base := range rs.bases {
		rel, err := filepath.Rel(base, path)
		if err != nil {
			continue
		}

		rel = filepath.ToSlash(rel)
		if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
			continue
		}

		if rs.ignored(rel) {
			return "", false
		}

		return rel, true
	}

	return "", false
}

func (rs Rules) ignored(rel string) bool {
	for _, dir := range rs.ignore {
		if rel == dir || strings.HasPrefix(rel, dir+"/") {
			return true
		}
	}

	return false
}

func (r Rule) matches(rel string) bool {
	for _, glob := range r.Globs {
		ok, err := doublestar.Match(glob, rel)
		if err == nil && ok {
			return true
		}
	}

	return false
}
