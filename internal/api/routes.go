package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/sessions", h.OpenSession)
		r.Route("/sessions/{sessionId}", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				h.GetSession(w, r, chi.URLParam(r, "sessionId"))
			})
			r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
				h.CloseSession(w, r, chi.URLParam(r, "sessionId"))
			})
			r.Post("/file", func(w http.ResponseWriter, r *http.Request) {
				h.SubmitFile(w, r, chi.URLParam(r, "sessionId"))
			})
			r.Delete("/file", func(w http.ResponseWriter, r *http.Request) {
				h.ResetFile(w, r, chi.URLParam(r, "sessionId"))
			})
			r.Get("/matches", func(w http.ResponseWriter, r *http.Request) {
				h.GetMatches(w, r, chi.URLParam(r, "sessionId"))
			})
		})
	})

	return r
}
