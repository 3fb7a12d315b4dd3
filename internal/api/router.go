/**
 * @description
 * This file sets up the HTTP router for pixhub. It defines the API endpoints,
 * associates them with their handlers, and applies middleware for logging,
 * panic recovery, CORS, and session authentication.
 *
 * @dependencies
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 * - github.com/go-chi/cors: CORS handling for the browser front-end.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pixhub/pixhub/internal/domain"
)

// Routes creates and returns the router for the pixhub API.
func Routes(h *TransactionHandlers, sessionSecret string, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	r.Post("/sessions", h.LoginHandler)

	r.Route("/transactions", func(r chi.Router) {
		r.Use(SessionAuthMiddleware(sessionSecret))

		r.Post("/", h.CreateTransactionHandler)

		// Review surface is analyst-only.
		r.Group(func(r chi.Router) {
			r.Use(RequireRole(domain.RoleAnalyst))
			r.Get("/status/{status}", h.ListByStatusHandler)
			r.Post("/{id}/approve", h.ApproveHandler)
			r.Post("/{id}/reject", h.RejectHandler)
		})
	})

	return r
}
