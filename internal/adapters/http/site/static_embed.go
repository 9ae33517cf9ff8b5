package site

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
)

//go:embed all:static
var staticFS embed.FS

// FS returns the static root: dir when it exists on disk, otherwise the
// embedded site.
func FS(dir string) http.FileSystem {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return http.Dir(dir)
		}
	}
	return Embedded()
}

// Embedded returns the site compiled into the binary.
func Embedded() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Should never happen with a valid embed pattern.
		return http.FS(staticFS)
	}
	return http.FS(sub)
}
