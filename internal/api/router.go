package api

import "github.com/go-chi/chi/v5"

// NewRouter mounts all gallery endpoints and returns the sub-router that
// main hangs under /api/v1. Tests mount it directly.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Route("/gallery", func(r chi.Router) {
		r.Get("/", h.Refresh)
		r.Get("/cached", h.Cached)
		r.Post("/files", h.Upload)
		r.Delete("/items", h.Delete)
		r.Put("/items/caption", h.SetCaption)
		r.Delete("/cache", h.ClearCache)
	})
	r.Get("/status", h.Status)

	return r
}
