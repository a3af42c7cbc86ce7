package testutil

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/thatguystone/cog/check"
)

// A TmpDir is a throwaway site root for tests
type TmpDir struct {
	c    *check.C
	root string
}

// NewTmpDir creates a new temp directory populated with the given files,
// keyed by slash-separated path relative to the root
func NewTmpDir(c *check.C, files map[string]string) *TmpDir {
	root, err := os.MkdirTemp("", "siteflow-test-")
	c.Must.Nil(err)

	tmp := &TmpDir{
		c:    c,
		root: root,
	}

	for path, content := range files {
		tmp.WriteFile(path, content)
	}

	return tmp
}

// Remove removes the temp dir and everything in it
func (tmp *TmpDir) Remove() {
	err := os.RemoveAll(tmp.root)
	tmp.c.Nil(err)
}

// Path gets the path to a file in the temp dir
func (tmp *TmpDir) Path(p string) string {
	return filepath.Join(tmp.root, filepath.FromSlash(filepath.Clean(p)))
}

// ReadFile reads a file from the temp dir
func (tmp *TmpDir) ReadFile(path string) string {
	b, err := os.ReadFile(tmp.Path(path))
	tmp.c.Must.Nil(err)
	return string(b)
}

// Exists checks if the given path exists in the temp dir
func (tmp *TmpDir) Exists(path string) bool {
	_, err := os.Stat(tmp.Path(path))
	return err == nil
}

// WriteFile writes a file to the temp dir, creating parents as necessary
func (tmp *TmpDir) WriteFile(path string, b string) {
	tmp.write(path, b, 0640)
}

// WriteScript writes an executable file to the temp dir
func (tmp *TmpDir) WriteScript(path string, b string) {
	tmp.write(path, b, 0750)
}

func (tmp *TmpDir) write(path, b string, mode os.FileMode) {
	path = tmp.Path(path)

	err := os.MkdirAll(filepath.Dir(path), 0750)
	tmp.c.Must.Nil(err)

	err = os.WriteFile(path, []byte(b), mode)
	tmp.c.Must.Nil(err)
}

// ListDir lists the names of the regular files in a directory, sorted
func (tmp *TmpDir) ListDir(dir string) []string {
	ents, err := os.ReadDir(tmp.Path(dir))
	tmp.c.Must.Nil(err)

	var names []string
	for _, ent := range ents {
		if !ent.IsDir() {
			names = append(names, ent.Name())
		}
	}

	sort.Strings(names)
	return names
}

// DumpTree dumps the FS tree of the temp dir to the test's logger
func (tmp *TmpDir) DumpTree() {
	tmp.c.Helper()
	tmp.c.Logf("Tree rooted at: %q", tmp.root)

	filepath.Walk(tmp.root,
		func(path string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() {
				rel, _ := filepath.Rel(tmp.root, path)
				tmp.c.Logf("\t/%s", filepath.ToSlash(rel))
			}

			return nil
		})
}
