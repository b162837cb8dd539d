// Package archive walks files stored in zip archives.
package archive

import (
	"archive/zip"
	"fmt"
	"path"
	"strings"
)

// WalkFunc is called for every matching file in archive. The archive
// argument is the path passed to Walk. If an error is returned, processing
// stops.
type WalkFunc func(archive string, file *zip.File) error

// Walk calls walkFn for every file of the archive located at or under inner
// path "within". Empty "within" matches everything. Matching is done on whole
// path segments, so "docs" matches "docs/a.yaml" and "docs" itself, but not
// "docs2/a.yaml". Archives with absolute or traversing entry names are
// rejected as a whole.
func Walk(archive, within string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if !isSafePath(f.Name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", f.Name)
		}
	}

	within = strings.Trim(path.Clean("/"+within), "/")
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !Matches(f.Name, within) {
			continue
		}
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

// Matches reports whether entry name is "within" or located under it.
func Matches(name, within string) bool {
	if within == "" {
		return true
	}
	return name == within || strings.HasPrefix(name, within+"/")
}

func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return false
		}
	}
	return true
}
