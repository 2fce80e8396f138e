package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func buildRouter(d *dashboard) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// UI/static
	r.Get("/", d.uiHandler)
	r.Get("/ui/trag.js", d.uiHandler)

	// Health/info
	r.Get("/healthz", healthzHandler)
	r.Get("/api/v1/server-info", serverInfoHandler)

	// Dashboard data. The .json routes are the contract the exported
	// static dashboard uses too, so the same page works from either.
	r.Get("/commits.json", d.commitIndexHandler)
	r.Get("/{commit:[a-f0-9]+}.json", d.commitDetailHandler)
	r.Get("/api/v1/commits", d.commitIndexHandler)
	r.Get("/api/v1/commits/{commit:[a-f0-9]+}", d.commitDetailHandler)

	return r
}
