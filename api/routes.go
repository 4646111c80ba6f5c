package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// setupRoutes wires the public and admin route groups. Every mutating admin
// operation sits behind the session middleware; the public surface is the
// published-project listing, single-project reads, and the contact form.
func setupRoutes(
	r chi.Router,
	handlers *routeHandlers,
	authMiddleware authMiddleware,
	contactLimiter func(http.Handler) http.Handler,
	startupTime time.Time,
) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		// Public endpoints
		r.Get("/health", healthCheck(startupTime))
		r.Get("/projects", handlers.projectHandler.listProjects())
		r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
		r.With(contactLimiter).Post("/contact", handlers.contactHandler.submitMessage())
		r.Post("/auth/login", handlers.authHandler.login())
		r.Post("/auth/logout", handlers.authHandler.logout())

		// Admin endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)

			r.Get("/auth/check", handlers.authHandler.check())

			r.Post("/projects", handlers.projectHandler.createProject())
			r.Put("/projects/{projectID}", handlers.projectHandler.updateProject())
			r.Delete("/projects/{projectID}", handlers.projectHandler.deleteProject())

			r.Get("/messages", handlers.messageHandler.listMessages())
			r.Get("/messages/{messageID}", handlers.messageHandler.getMessage())
			r.Patch("/messages/{messageID}", handlers.messageHandler.updateMessage())
			r.Delete("/messages/{messageID}", handlers.messageHandler.deleteMessage())

			r.Post("/upload", handlers.uploadHandler.uploadImage())
			r.Delete("/upload", handlers.uploadHandler.deleteImage())
		})
	})
}

// healthCheck reports liveness and uptime.
func healthCheck(startupTime time.Time) http.HandlerFunc {
	responder := NewResponder(log.With().Str("handlerName", "health").Logger())

	return func(w http.ResponseWriter, r *http.Request) {
		responder.WriteJSON(w, map[string]any{
			"status": "ok",
			"uptime": time.Since(startupTime).String(),
		})
	}
}
