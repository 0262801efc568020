// Package dashboard embeds the single-page status view served at "/".
package dashboard

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed assets/*
var assets embed.FS

// IndexHTML returns the dashboard page.
func IndexHTML() []byte {
	b, err := fs.ReadFile(assets, "assets/index.html")
	if err != nil {
		// the file is compiled in; a miss means the build is broken
		panic(err)
	}
	return b
}

// Handler serves the page with no-cache so a redeploy shows up on refresh.
func Handler() http.HandlerFunc {
	page := IndexHTML()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(page)
	}
}
