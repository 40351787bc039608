package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init builds the chi router with the full route table. Trace-id and logging
// middleware wrap every route; the auth middleware wraps only the routes
// that require an authenticated session.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Route("/users", func(r chi.Router) {
		// routes without authorization
		r.Post("/", h.signup)
		r.Post("/login", h.login)
		r.Get("/{id}/avatar", h.serveAvatar)

		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			r.Post("/logout", h.logout)
			r.Post("/logoutAll", h.logoutAll)
			r.Get("/me/sessions", h.sessions)
			r.Get("/me", h.me)
			r.Patch("/me", h.updateMe)
			r.Delete("/me", h.deleteMe)
			r.Post("/me/avatar", h.uploadAvatar)
			r.Delete("/me/avatar", h.deleteAvatar)
		})
	})

	router.Route("/tasks", func(r chi.Router) {
		r.Use(h.auth)
		r.Post("/", h.createTask)
		r.Get("/", h.listTasks)
		r.Get("/{id}", h.getTask)
		r.Patch("/{id}", h.updateTask)
		r.Delete("/{id}", h.deleteTask)
	})

	return router
}
