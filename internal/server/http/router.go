package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter registers the API routes and the middleware stack.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(h.recoverMiddleware)
	r.Use(h.loggingMiddleware)
	r.MethodNotAllowed(methodNotAllowed)
	r.NotFound(notFound)

	r.Get("/healthz", h.healthz)

	r.Route("/api", func(r chi.Router) {
		r.Get("/login", h.sessionCheck)
		r.Post("/login", h.login)
		r.Post("/register", h.register)
		r.Post("/forgot-password", h.forgotPassword)
		r.Get("/courses", h.getCourses)
		r.Post("/courses", h.enroll)
		r.Get("/logout", h.logout)
		r.Post("/logout", h.logout)
	})

	return r
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Invalid request method.")
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, msgNotFound)
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": "ok"})
}
