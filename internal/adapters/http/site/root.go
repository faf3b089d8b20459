// Package site serves the embedded documentation pages.
package site

import (
	"context"
	"net/http"
)

// Register attaches the documentation routes to mux under /docs/.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/docs/", http.StripPrefix("/docs/", http.FileServer(FS())))
	mux.Handle("/docs", http.RedirectHandler("/docs/", http.StatusMovedPermanently))
}
