// Package site serves the portfolio's static assets.
package site

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// IndexFile is served for GET /.
const IndexFile = "index.html"

// Static serves GET and HEAD requests whose path names a regular file in
// fsys. Everything else falls through to next.
func Static(fsys http.FileSystem) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			name, ok := cleanName(r.URL.Path)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			if err := ServeFile(w, r, fsys, name); err != nil {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// ServeFile writes the named regular file from fsys. It returns
// ErrNotFound without touching w when the file is missing or is a
// directory.
func ServeFile(w http.ResponseWriter, r *http.Request, fsys http.FileSystem, name string) error {
	f, err := fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("%w: %w", ErrServe, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrServe, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return nil
}

// cleanName maps a URL path to a file name, rejecting the root and any
// dot-prefixed segment.
func cleanName(p string) (string, bool) {
	name := path.Clean("/" + p)
	if name == "/" {
		return "", false
	}
	for _, seg := range strings.Split(name[1:], "/") {
		if strings.HasPrefix(seg, ".") {
			return "", false
		}
	}
	return name, true
}
