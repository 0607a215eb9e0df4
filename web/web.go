package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var content embed.FS

// Handler serves the search frontend. When dir is empty the embedded copy is used.
func Handler(dir string) http.Handler {
	if dir != "" {
		return http.FileServer(http.Dir(dir))
	}
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory exists
	}
	return http.FileServer(http.FS(sub))
}
