package api

import (
	"github.com/go-chi/chi/v5"
)

// setupEditorRoutes sets up all routes with authentication
func setupEditorRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(ColoredHTTPLoggingMiddleware)

		// Editor session endpoints
		r.Post("/sessions", handlers.sessionHandler.openSession())
		r.Get("/session/{sessionID}", handlers.sessionHandler.getSession())
		r.Put("/session/{sessionID}/field", handlers.sessionHandler.updateField())
		r.Put("/session/{sessionID}/collection/{collection}", handlers.sessionHandler.updateCollection())
		r.Post("/session/{sessionID}/advance", handlers.sessionHandler.advanceSection())
		r.Post("/session/{sessionID}/section", handlers.sessionHandler.jumpSection())
		r.Post("/session/{sessionID}/save", handlers.sessionHandler.save())
		r.Delete("/session/{sessionID}/project", handlers.sessionHandler.deleteProject())
		r.Delete("/session/{sessionID}", handlers.sessionHandler.discardSession())

		// Category pass-through
		r.Get("/categories", handlers.categoryHandler.getCategories())
	})
}
