// Package web embeds the HTML templates and static assets so the server
// binary runs without a working directory full of files.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates
var Templates embed.FS

//go:embed static
var static embed.FS

// Static returns the assets rooted at static/, ready for http.FileServerFS.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
