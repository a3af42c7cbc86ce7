package afs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/thatguystone/cog/cfs"
)

// Glob lists the regular files directly in dir whose names match pattern, in
// directory-listing (lexical) order. A missing dir is not an error: there's
// simply nothing to build.
func Glob(dir, pattern string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	var paths []string
	for _, ent := range ents {
		if ent.IsDir() {
			continue
		}

		ok, err := doublestar.Match(pattern, ent.Name())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}

		if ok {
			paths = append(paths, filepath.Join(dir, ent.Name()))
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// OutName is the file name an output generated from src gets
func OutName(src, ext string) string {
	return cfs.ChangeExt(filepath.Base(src), ext)
}

// WriteDests writes b to name in every one of dirs, creating them as needed
func WriteDests(name string, b []byte, dirs ...string) error {
	for _, dir := range dirs {
		err := write(filepath.Join(dir, name), b)
		if err != nil {
			return err
		}
	}

	return nil
}

func write(dst string, b []byte) error {
	err := os.MkdirAll(filepath.Dir(dst), 0750)
	if err == nil {
		err = os.WriteFile(dst, b, 0640)
	}

	if err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}

	return nil
}
