// Package web holds the embedded view templates and static assets.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed templates static
var files embed.FS

func sub(dir string) http.FileSystem {
	s, err := fs.Sub(files, dir)
	if err != nil {
		panic(err)
	}
	return http.FS(s)
}

// Templates is the html view tree; names are paths without ".html".
func Templates() http.FileSystem { return sub("templates") }

// Static is served under /static.
func Static() http.FileSystem { return sub("static") }
