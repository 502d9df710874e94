// Package site serves the embedded dashboard front-end.
package site

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Register mounts the embedded dashboard at / on r. Routes registered on r
// before or after take precedence over the static files.
func Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}
	r.Handle("/*", http.FileServer(FS()))
}
